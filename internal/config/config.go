package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerAddr    string `mapstructure:"SERVER_ADDR"`
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`

	MaxPlayers   int    `mapstructure:"MAX_PLAYERS"`
	RejoinPolicy string `mapstructure:"REJOIN_POLICY"`

	PresenceTTL           time.Duration `mapstructure:"PRESENCE_TTL"`
	PresenceSweepInterval time.Duration `mapstructure:"PRESENCE_SWEEP_INTERVAL"`
	SSEKeepaliveInterval  time.Duration `mapstructure:"SSE_KEEPALIVE_INTERVAL"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("STORAGE_DRIVER", "memory")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("MAX_PLAYERS", 8)
	viper.SetDefault("REJOIN_POLICY", "permissive")
	viper.SetDefault("PRESENCE_TTL", "45s")
	viper.SetDefault("PRESENCE_SWEEP_INTERVAL", "15s")
	viper.SetDefault("SSE_KEEPALIVE_INTERVAL", "15s")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
