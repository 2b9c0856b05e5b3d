package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/agstore/storefront/internal/models"
)

const defaultBaseURL = "https://www.googleapis.com/oauth2/v3"

var ErrTokenRejected = errors.New("google rejected the access token")

// Client fetches user profiles from the Google OAuth userinfo endpoint.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new Client instance. An empty baseURL selects the
// production Google endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

// GetUserInfo returns the profile behind accessToken
// 200 — профиль получен.
// 401 — токен отклонён.
func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*models.GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		info := models.GoogleUserInfo{}
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return nil, err
		}
		return &info, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrTokenRejected
	default:
		return nil, models.ErrInternalError
	}
}
