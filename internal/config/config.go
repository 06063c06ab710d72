package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the tourism service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port of the public API.
// - HealthPort: The port of the monitoring server.
// - Provider: Mapping provider selection and credentials.
// - Fuel: Tuning of the route fuel-station search.
// - Database: Configuration settings for the optional PostgreSQL catalog source.
type Config struct {
	Env              string          `yaml:"env"`               // Env is the current environment: local, development, production.
	HTTPPort         int             `yaml:"http_port"`         // HTTPPort is the public API port.
	HealthPort       int             `yaml:"health_port"`       // HealthPort is the monitoring server port.
	Provider         ProviderConfig  `yaml:"provider"`          // Provider holds the mapping provider settings.
	Fuel             FuelConfig      `yaml:"fuel"`              // Fuel tunes the route sampling heuristic.
	CarouselInterval time.Duration   `yaml:"carousel_interval"` // CarouselInterval is the image auto-advance interval.
	Favorites        FavoritesConfig `yaml:"favorites"`         // Favorites selects the favorites store.
	Redis            RedisConfig     `yaml:"redis"`             // Redis holds the redis connection settings.
	SyncSchedule     string          `yaml:"sync_schedule"`     // SyncSchedule is the cron spec of the catalog sync.
	Geocoding        GeocodingConfig `yaml:"geocoding"`         // Geocoding tunes the coordinate backfill.
	Database         PostgresConfig  `yaml:"postgres"`          // Database holds the postgres database configuration
}

// ProviderConfig selects the mapping provider.
type ProviderConfig struct {
	Type      string `yaml:"type"`    // Type is google or osm.
	APIKey    string `yaml:"api_key"` // APIKey is required for Google.
	RateLimit int    `yaml:"rate"`    // RateLimit is the number of requests per second.
}

// FuelConfig holds the constants of the route fuel-station search.
type FuelConfig struct {
	Divisions    int `yaml:"samples"`     // Divisions splits the route polyline into strides.
	MaxSamples   int `yaml:"max_samples"` // MaxSamples caps the number of nearby searches.
	RadiusMeters int `yaml:"radius"`      // RadiusMeters is the nearby search radius.
}

// FavoritesConfig selects where favorites are kept.
type FavoritesConfig struct {
	Backend string        `yaml:"backend"` // Backend is memory or redis.
	TTL     time.Duration `yaml:"ttl"`     // TTL is how long an idle visitor's favorites are kept in redis.
}

// RedisConfig holds the redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GeocodingConfig tunes the coordinate backfill of stored places.
type GeocodingConfig struct {
	Workers       int           `yaml:"workers"`
	Interval      time.Duration `yaml:"interval"`
	AddressSuffix string        `yaml:"address_suffix"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     int    `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Name     string `yaml:"db_name"`  // Name is the name of the database.
}

// Enabled reports whether a database is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

var defaults = map[string]string{
	"TOURISM_ENV":               "production",
	"TOURISM_HTTP_PORT":         "8000",
	"TOURISM_HEALTH_PORT":       "8080",
	"TOURISM_PROVIDER_TYPE":     "google",
	"TOURISM_PROVIDER_KEY":      "",
	"TOURISM_PROVIDER_RATE":     "10",
	"TOURISM_FUEL_SAMPLES":      "25",
	"TOURISM_FUEL_MAX_SAMPLES":  "20",
	"TOURISM_FUEL_RADIUS":       "3000",
	"TOURISM_CAROUSEL_INTERVAL": "5s",
	"TOURISM_FAVORITES_BACKEND": "memory",
	"TOURISM_FAVORITES_TTL":     "720h",
	"TOURISM_SYNC_SCHEDULE":     "@every 10m",
	"TOURISM_GEOCODE_WORKERS":   "2",
	"TOURISM_GEOCODE_INTERVAL":  "1h",
	"TOURISM_GEOCODE_SUFFIX":    ", Jharkhand, India",
	"REDIS_ADDR":                "localhost:6379",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  "0",
	"DB_HOST":                   "",
	"DB_PORT":                   "5432",
	"DB_USERNAME":               "",
	"DB_PASSWORD":               "",
	"DB_NAME":                   "",
}

// MustLoad reads an optional .env file and an optional configuration file named by
// TOURISM_CONFIG_FILE, then environment variables, and returns the Config.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("TOURISM_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	return &Config{
		Env:        v.GetString("TOURISM_ENV"),
		HTTPPort:   mustInt(v, "TOURISM_HTTP_PORT", "failed to parse port for API server from configuration"),
		HealthPort: mustInt(v, "TOURISM_HEALTH_PORT", "failed to parse port for monitoring server from configuration"),
		Provider: ProviderConfig{
			Type:      v.GetString("TOURISM_PROVIDER_TYPE"),
			APIKey:    v.GetString("TOURISM_PROVIDER_KEY"),
			RateLimit: mustInt(v, "TOURISM_PROVIDER_RATE", "failed to parse provider rate limit from configuration"),
		},
		Fuel: FuelConfig{
			Divisions:    mustInt(v, "TOURISM_FUEL_SAMPLES", "failed to parse fuel search samples from configuration"),
			MaxSamples:   mustInt(v, "TOURISM_FUEL_MAX_SAMPLES", "failed to parse fuel search sample cap from configuration"),
			RadiusMeters: mustInt(v, "TOURISM_FUEL_RADIUS", "failed to parse fuel search radius from configuration"),
		},
		CarouselInterval: mustDuration(v, "TOURISM_CAROUSEL_INTERVAL", "failed to parse carousel interval from configuration"),
		Favorites: FavoritesConfig{
			Backend: v.GetString("TOURISM_FAVORITES_BACKEND"),
			TTL:     mustDuration(v, "TOURISM_FAVORITES_TTL", "failed to parse favorites ttl from configuration"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       mustInt(v, "REDIS_DB", "failed to parse redis database from configuration"),
		},
		SyncSchedule: v.GetString("TOURISM_SYNC_SCHEDULE"),
		Geocoding: GeocodingConfig{
			Workers:       mustInt(v, "TOURISM_GEOCODE_WORKERS", "failed to parse workers from configuration, must be an integer types"),
			Interval:      mustDuration(v, "TOURISM_GEOCODE_INTERVAL", "failed to parse interval from configuration"),
			AddressSuffix: v.GetString("TOURISM_GEOCODE_SUFFIX"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     mustInt(v, "DB_PORT", "failed to parse database port from configuration"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
	}
}

func mustInt(v *viper.Viper, key, message string) int {
	value, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		panic(message)
	}

	return value
}

func mustDuration(v *viper.Viper, key, message string) time.Duration {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		panic(message)
	}

	return value
}
