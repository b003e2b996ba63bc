package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig is the runner's process level configuration.
type AppConfig struct {
	LogLevel     string  `envconfig:"STRATBOOK_LOG_LEVEL" default:"info"`
	MetricsAddr  string  `envconfig:"STRATBOOK_METRICS_ADDR" default:":9090"`
	SQLitePath   string  `envconfig:"STRATBOOK_SQLITE_PATH" default:"data/candles.db"`
	PostgresDSN  string  `envconfig:"STRATBOOK_POSTGRES_DSN"`
	RedisAddr    string  `envconfig:"STRATBOOK_REDIS_ADDR"`
	RedisStream  string  `envconfig:"STRATBOOK_REDIS_STREAM" default:"stratbook:trades"`
	FeedURL      string  `envconfig:"STRATBOOK_FEED_URL" default:"ws://localhost:8080/quotes"`
	StartEquity  float64 `envconfig:"STRATBOOK_START_EQUITY" default:"100000"`
	OrderVolume  float64 `envconfig:"STRATBOOK_ORDER_VOLUME" default:"1"`
	StopLossPct  float64 `envconfig:"STRATBOOK_STOP_LOSS_PCT" default:"0.02"`
	TakeProfit   float64 `envconfig:"STRATBOOK_TAKE_PROFIT_PCT" default:"0"`
	TrailingPct  float64 `envconfig:"STRATBOOK_TRAILING_PCT" default:"0"`
	QtyPrecision int     `envconfig:"STRATBOOK_QTY_PRECISION" default:"4"`
}

// Load reads an optional .env file and then the environment.
func Load() (*AppConfig, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StrategyConfig derives the per-strategy sizing settings.
func (a *AppConfig) StrategyConfig() StrategyConfig {
	sc := Default()
	sc.Volume = a.OrderVolume
	sc.StopLossPct = a.StopLossPct
	sc.TakeProfitPct = a.TakeProfit
	sc.TrailingPct = a.TrailingPct
	sc.QuantityPrecision = a.QtyPrecision
	return sc
}
