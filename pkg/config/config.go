package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/thiagohernandez/flight-me/pkg/opensky"
)

// Config represents the complete application configuration.
// Loaded from a JSON file with environment variables layered on top so
// credentials stay out of the file.
type Config struct {
	Server  ServerConfig  `json:"server"`
	OpenSky OpenSkyConfig `json:"opensky"`
	Poll    PollConfig    `json:"poll"`
	Data    DataConfig    `json:"data"`
	Debug   bool          `json:"debug" env:"FLIGHTME_DEBUG"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port string `json:"port" env:"FLIGHTME_PORT"`

	// Host is the server bind address (default: "0.0.0.0")
	Host string `json:"host" env:"FLIGHTME_HOST"`

	// AllowedOrigins are the CORS origins permitted to call the API.
	// "*" allows any origin.
	AllowedOrigins []string `json:"allowed_origins"`
}

// OpenSkyConfig contains OpenSky Network API settings.
type OpenSkyConfig struct {
	// BaseURL is the REST API base URL; empty means the public API
	BaseURL string `json:"base_url"`

	// TokenURL is the OAuth2 token endpoint; empty means the public realm
	TokenURL string `json:"token_url"`

	// ClientID for the client-credentials grant.
	// Never put this in the config file; use OPENSKY_CLIENT_ID.
	ClientID string `json:"-" env:"OPENSKY_CLIENT_ID"`

	// ClientSecret for the client-credentials grant.
	// Never put this in the config file; use OPENSKY_CLIENT_SECRET.
	ClientSecret string `json:"-" env:"OPENSKY_CLIENT_SECRET"`

	// CredentialStore selects where issued tokens are cached:
	// "memory", "cookie", or "redis".
	CredentialStore string `json:"credential_store" env:"FLIGHTME_CREDENTIAL_STORE"`

	// CookieSecret signs the token cookie when CredentialStore is "cookie".
	CookieSecret string `json:"-" env:"FLIGHTME_COOKIE_SECRET"`

	// RedisAddr is the Redis address when CredentialStore is "redis".
	RedisAddr string `json:"redis_addr" env:"FLIGHTME_REDIS_ADDR"`

	// RequestsPerSecond caps outgoing API calls. The daily credit budget
	// is the real constraint; this just smooths bursts.
	RequestsPerSecond float64 `json:"requests_per_second"`
}

// PollConfig controls the polling loop.
type PollConfig struct {
	// IntervalSeconds is how often to refresh the flight board
	IntervalSeconds int `json:"interval_seconds"`

	// LocationID is the starting location from the location catalog
	LocationID string `json:"location_id" env:"FLIGHTME_LOCATION"`

	// RadiusKm is the search radius around the location center
	RadiusKm float64 `json:"radius_km"`

	// LookupTimeoutSeconds bounds one aircraft metadata lookup
	LookupTimeoutSeconds int `json:"lookup_timeout_seconds"`
}

// DataConfig locates static datasets.
type DataConfig struct {
	// AirportsPath is the airports.json dataset used for route display
	AirportsPath string `json:"airports_path" env:"FLIGHTME_AIRPORTS_PATH"`
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns a default configuration.
// Environment variables override file values either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a JSON file.
// Credentials carry a json:"-" tag and are never written.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		OpenSky: OpenSkyConfig{
			BaseURL:           opensky.BaseURL,
			TokenURL:          opensky.TokenURL,
			CredentialStore:   "memory",
			RedisAddr:         "localhost:6379",
			RequestsPerSecond: 1.0,
		},
		Poll: PollConfig{
			IntervalSeconds:      30,
			LocationID:           "lliria",
			RadiusKm:             50.0,
			LookupTimeoutSeconds: 5,
		},
		Data: DataConfig{
			AirportsPath: "data/airports.json",
		},
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.OpenSky.CredentialStore {
	case "memory", "cookie", "redis":
	default:
		return fmt.Errorf("unknown credential_store %q (want memory, cookie, or redis)", c.OpenSky.CredentialStore)
	}
	if c.OpenSky.CredentialStore == "cookie" && c.OpenSky.CookieSecret == "" {
		return fmt.Errorf("credential_store cookie requires FLIGHTME_COOKIE_SECRET")
	}
	if c.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("poll interval_seconds must be positive, got %d", c.Poll.IntervalSeconds)
	}
	if c.Poll.RadiusKm <= 0 {
		return fmt.Errorf("poll radius_km must be positive, got %v", c.Poll.RadiusKm)
	}
	return nil
}
