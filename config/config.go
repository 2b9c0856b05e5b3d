package config

import (
	"flag"
	"os"
	"sync"
)

const (
	defaultServerAddress = ":8080"
	defaultDatabaseDSN   = ""
	defaultLogLevel      = "debug"
	defaultOrderPrefix   = "CBC"
	defaultOrderExchange = "orders_exchange"
	defaultOrderQueue    = "orders_queue"
)

type Config struct {
	ServerAddr    string
	DatabaseDSN   string
	LogLevel      string
	OrderPrefix   string
	AMQPURL       string
	OrderExchange string
	OrderQueue    string
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	GoogleBaseURL string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "storefront server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "storefront database DSN")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.OrderPrefix, "p", defaultOrderPrefix, "order id prefix")
		flag.StringVar(&cfg.AMQPURL, "q", "", "amqp broker url, empty disables order events")

		flag.Parse()

		cfg.OrderExchange = defaultOrderExchange
		cfg.OrderQueue = defaultOrderQueue

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseURIEnv := os.Getenv("DATABASE_URI"); databaseURIEnv != "" {
			cfg.DatabaseDSN = databaseURIEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if orderPrefixEnv := os.Getenv("ORDER_ID_PREFIX"); orderPrefixEnv != "" {
			cfg.OrderPrefix = orderPrefixEnv
		}
		if amqpURLEnv := os.Getenv("AMQP_URL"); amqpURLEnv != "" {
			cfg.AMQPURL = amqpURLEnv
		}
		if orderExchangeEnv := os.Getenv("ORDER_EXCHANGE"); orderExchangeEnv != "" {
			cfg.OrderExchange = orderExchangeEnv
		}
		if orderQueueEnv := os.Getenv("ORDER_QUEUE"); orderQueueEnv != "" {
			cfg.OrderQueue = orderQueueEnv
		}

		cfg.SMTPHost = os.Getenv("SMTP_HOST")
		cfg.SMTPPort = os.Getenv("SMTP_PORT")
		cfg.SMTPUser = os.Getenv("SMTP_USER")
		cfg.SMTPPass = os.Getenv("SMTP_PASS")
		cfg.GoogleBaseURL = os.Getenv("GOOGLE_USERINFO_URL")

		singleton = &cfg
	})

	return singleton, nil
}
