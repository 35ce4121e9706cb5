package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the optional JSON config file read from the config
// directory. Defaults apply when it is absent.
const ConfigFileName = "custody-backend.cfg.json"

// Config holds the application configuration.
type Config struct {
	Port          string
	DBPath        string
	BaseURL       string
	LogLevel      string
	JWTSecret     string
	AdminUser     string
	AdminPassword string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	MapDefaultLat  float64
	MapDefaultLon  float64
	MapDefaultZoom int
}

// Load reads the config file from configDir and applies defaults.
func Load(configDir string) (*Config, error) {
	viper.SetDefault("port", ":8080")
	viper.SetDefault("dbPath", "./data/custody.db")
	viper.SetDefault("baseURL", "http://localhost:8080")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("jwtSecret", "change-me-in-production")
	viper.SetDefault("adminUser", "admin")
	viper.SetDefault("adminPassword", "admin")

	viper.SetDefault("rateLimit.requests", 120)
	viper.SetDefault("rateLimit.windowSeconds", 60)

	// Default view roughly centers Europe at country level.
	viper.SetDefault("map.defaultLat", 50.0)
	viper.SetDefault("map.defaultLon", 8.0)
	viper.SetDefault("map.defaultZoom", 4)

	viper.SetConfigName(ConfigFileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return &Config{
		Port:              viper.GetString("port"),
		DBPath:            viper.GetString("dbPath"),
		BaseURL:           viper.GetString("baseURL"),
		LogLevel:          viper.GetString("logLevel"),
		JWTSecret:         viper.GetString("jwtSecret"),
		AdminUser:         viper.GetString("adminUser"),
		AdminPassword:     viper.GetString("adminPassword"),
		RateLimitRequests: viper.GetInt("rateLimit.requests"),
		RateLimitWindow:   time.Duration(viper.GetInt("rateLimit.windowSeconds")) * time.Second,
		MapDefaultLat:     viper.GetFloat64("map.defaultLat"),
		MapDefaultLon:     viper.GetFloat64("map.defaultLon"),
		MapDefaultZoom:    viper.GetInt("map.defaultZoom"),
	}, nil
}
