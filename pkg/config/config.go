package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Season / prediction
	CurrentSeason      int `mapstructure:"CURRENT_SEASON"`
	LookbackGames      int `mapstructure:"LOOKBACK_GAMES"`
	ProjectionWorkers  int `mapstructure:"PROJECTION_WORKERS"`
	ProjectionCacheTTL int `mapstructure:"PROJECTION_CACHE_TTL"`

	// Trade heuristics
	TradeValueGainThreshold  float64 `mapstructure:"TRADE_VALUE_GAIN_THRESHOLD"`
	TradePointsGainThreshold float64 `mapstructure:"TRADE_POINTS_GAIN_THRESHOLD"`

	// Bye planning heuristics
	ByeTradesPerRound      int `mapstructure:"BYE_TRADES_PER_ROUND"`
	ByeAggressiveThreshold int `mapstructure:"BYE_AGGRESSIVE_THRESHOLD"`

	// External data feed
	NRLDataBaseURL     string        `mapstructure:"NRL_DATA_BASE_URL"`
	DataFetchInterval  string        `mapstructure:"DATA_FETCH_INTERVAL"`
	ExternalAPITimeout time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`

	// Feature flags
	EnableBackgroundJobs bool `mapstructure:"ENABLE_BACKGROUND_JOBS"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "nrl_fantasy.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetDefault("CURRENT_SEASON", 2024)
	viper.SetDefault("LOOKBACK_GAMES", 5)
	viper.SetDefault("PROJECTION_WORKERS", 4)
	viper.SetDefault("PROJECTION_CACHE_TTL", 600) // seconds

	viper.SetDefault("TRADE_VALUE_GAIN_THRESHOLD", 0.5)
	viper.SetDefault("TRADE_POINTS_GAIN_THRESHOLD", 10.0)

	viper.SetDefault("BYE_TRADES_PER_ROUND", 2)
	viper.SetDefault("BYE_AGGRESSIVE_THRESHOLD", 8)

	viper.SetDefault("NRL_DATA_BASE_URL", "https://raw.githubusercontent.com/beauhobba/NRL-Data/main/data")
	viper.SetDefault("DATA_FETCH_INTERVAL", "2h")
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "30s")

	viper.SetDefault("ENABLE_BACKGROUND_JOBS", false)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
