package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings.
type Config struct {
	Environment    string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string

	// DailySweepSpec is the cron expression for the missed check-in sweep.
	DailySweepSpec string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// Load reads configuration from the environment, after sourcing .env if one
// exists.
func Load() (*Config, error) {
	// missing .env is fine in production, env vars are already set
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	jwt := os.Getenv("JWT_SECRET")
	if jwt == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	migrations := os.Getenv("MIGRATIONS_PATH")
	if migrations == "" {
		migrations = "./migrations"
	}
	sweep := os.Getenv("DAILY_SWEEP_SPEC")
	if sweep == "" {
		sweep = "0 18 * * *"
	}

	return &Config{
		Environment:    os.Getenv("APP_ENV"),
		ServerAddress:  addr,
		DatabaseURL:    dbURL,
		MigrationsPath: migrations,
		JWTSecret:      jwt,

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),

		DailySweepSpec: sweep,

		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
	}, nil
}
