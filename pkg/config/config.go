package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// ChartOfAccountsPath points to the JSON seed file for the default chart
	// of accounts.
	ChartOfAccountsPath string
	// CashAccountCode is the GL account incoming deposits are debited to.
	CashAccountCode string

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string

	// ReportJobInterval controls how often the trial balance job runs.
	ReportJobInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("CHART_OF_ACCOUNTS_PATH", "seed/accounts.json")
	viper.SetDefault("CASH_ACCOUNT_CODE", "1002")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("REPORT_JOB_INTERVAL", "24h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.ChartOfAccountsPath = viper.GetString("CHART_OF_ACCOUNTS_PATH")
	cfg.CashAccountCode = viper.GetString("CASH_ACCOUNT_CODE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	intervalStr := viper.GetString("REPORT_JOB_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		interval = 24 * time.Hour
		log.Printf("Warning: Invalid value for REPORT_JOB_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval.String())
	}
	cfg.ReportJobInterval = interval

	return cfg, nil
}
