package repository

import (
	"context"
	"errors"

	"github.com/agstore/storefront/internal/models"
	"github.com/agstore/storefront/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertUserQuery = `
						INSERT INTO users (email, first_name, last_name, password, role, img)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING id, created_at
`
	selectUserByEmailQuery = `
						SELECT id, email, first_name, last_name, password, role, is_blocked, img, created_at
						FROM users
						WHERE email = $1
`
	selectUserByIDQuery = `
						SELECT id, email, first_name, last_name, password, role, is_blocked, img, created_at
						FROM users
						WHERE id = $1
`
	selectUsersQuery = `
						SELECT id, email, first_name, last_name, password, role, is_blocked, img, created_at
						FROM users
						ORDER BY created_at DESC
`
	updateUserRoleQuery = `
						UPDATE users
						SET role = $2
						WHERE id = $1
						RETURNING id, email, first_name, last_name, password, role, is_blocked, img, created_at
`
	updateUserPasswordQuery = `
						UPDATE users
						SET password = $2
						WHERE email = $1
`
	deleteUserQuery = `
						DELETE FROM users
						WHERE id = $1
`
)

// UserRepository implements UserRepository interface
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts new user to database
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	err := ur.db.QueryRow(ctx, insertUserQuery,
		user.Email, user.FirstName, user.LastName, user.Password, user.Role, user.Img,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByEmail returns user by email
func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return ur.scanUser(ur.db.QueryRow(ctx, selectUserByEmailQuery, email))
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	return ur.scanUser(ur.db.QueryRow(ctx, selectUserByIDQuery, id))
}

// GetUsers returns all users
func (ur *UserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := ur.db.Query(ctx, selectUsersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}

	for rows.Next() {
		user := models.User{}
		err = rows.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName,
			&user.Password, &user.Role, &user.IsBlocked, &user.Img, &user.CreatedAt)
		if err != nil {
			continue
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateUserRole sets the role of the user and returns the updated record
func (ur *UserRepository) UpdateUserRole(ctx context.Context, id uint64, role string) (*models.User, error) {
	return ur.scanUser(ur.db.QueryRow(ctx, updateUserRoleQuery, id, role))
}

// UpdateUserPassword replaces the stored password hash
func (ur *UserRepository) UpdateUserPassword(ctx context.Context, email, password string) error {
	cmd, err := ur.db.Exec(ctx, updateUserPasswordQuery, email, password)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteUser removes user by id
func (ur *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	cmd, err := ur.db.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

func (ur *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	user := models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Password, &user.Role, &user.IsBlocked, &user.Img, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}
