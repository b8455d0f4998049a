package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	StoreDriver       string
	DatabaseURL       string
	SQLitePath        string
	DBMaxConns        int32
	DBConnectAttempts int
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	CORSAllowedOrigins []string
	RateLimit          string // ulule limiter format, e.g. "20-S"
	LoginRateLimit     string // per client IP on /auth/login

	VATRate              decimal.Decimal
	StockShortfallPolicy string
	ChartOfAccountsFile  string

	// Journal posting queue
	PostingWorkers       int
	PostingQueueSize     int
	PostingSweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("STORE_DRIVER", DriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "minimart.db")
	viper.SetDefault("PGSQL_MAX_CONNS", 8)
	viper.SetDefault("PGSQL_CONNECT_ATTEMPTS", 5)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "sote-minimart")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "20-S")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("VAT_RATE", "0.16")
	viper.SetDefault("STOCK_SHORTFALL_POLICY", "best_effort")
	viper.SetDefault("CHART_OF_ACCOUNTS_FILE", "")
	viper.SetDefault("POSTING_WORKERS", 2)
	viper.SetDefault("POSTING_QUEUE_SIZE", 256)
	viper.SetDefault("POSTING_SWEEP_INTERVAL", "5m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StoreDriver = strings.ToLower(viper.GetString("STORE_DRIVER"))
	if cfg.StoreDriver != DriverPostgres && cfg.StoreDriver != DriverSQLite {
		log.Printf("Warning: unknown STORE_DRIVER '%s'. Defaulting to %s.\n", cfg.StoreDriver, DriverPostgres)
		cfg.StoreDriver = DriverPostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.StoreDriver == DriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.SQLitePath = viper.GetString("SQLITE_PATH")
	cfg.DBMaxConns = viper.GetInt32("PGSQL_MAX_CONNS")
	cfg.DBConnectAttempts = viper.GetInt("PGSQL_CONNECT_ATTEMPTS")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "sote-minimart"
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	vatStr := viper.GetString("VAT_RATE")
	cfg.VATRate, err = decimal.NewFromString(vatStr)
	if err != nil || cfg.VATRate.IsNegative() {
		cfg.VATRate = decimal.RequireFromString("0.16")
		log.Printf("Warning: Invalid value for VAT_RATE ('%s'). Defaulting to %s.\n", vatStr, cfg.VATRate.String())
	}

	cfg.StockShortfallPolicy = viper.GetString("STOCK_SHORTFALL_POLICY")
	cfg.ChartOfAccountsFile = viper.GetString("CHART_OF_ACCOUNTS_FILE")

	cfg.PostingWorkers = viper.GetInt("POSTING_WORKERS")
	if cfg.PostingWorkers <= 0 {
		cfg.PostingWorkers = 1
	}
	cfg.PostingQueueSize = viper.GetInt("POSTING_QUEUE_SIZE")
	if cfg.PostingQueueSize <= 0 {
		cfg.PostingQueueSize = 256
	}

	sweepStr := viper.GetString("POSTING_SWEEP_INTERVAL")
	cfg.PostingSweepInterval, err = time.ParseDuration(sweepStr)
	if err != nil {
		cfg.PostingSweepInterval = 5 * time.Minute
		log.Printf("Warning: Invalid value for POSTING_SWEEP_INTERVAL ('%s'). Defaulting to %s.\n", sweepStr, cfg.PostingSweepInterval.String())
	}

	return cfg, nil
}
