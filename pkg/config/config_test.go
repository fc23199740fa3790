package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultConfig verifies that DefaultConfig returns valid defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Server defaults
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}

	// OpenSky defaults
	if cfg.OpenSky.CredentialStore != "memory" {
		t.Errorf("Expected memory credential store, got %s", cfg.OpenSky.CredentialStore)
	}
	if cfg.OpenSky.RequestsPerSecond != 1.0 {
		t.Errorf("Expected 1 request/second, got %f", cfg.OpenSky.RequestsPerSecond)
	}
	if cfg.OpenSky.ClientID != "" || cfg.OpenSky.ClientSecret != "" {
		t.Error("Expected no default credentials")
	}

	// Poll defaults
	if cfg.Poll.IntervalSeconds != 30 {
		t.Errorf("Expected poll interval 30s, got %d", cfg.Poll.IntervalSeconds)
	}
	if cfg.Poll.LocationID != "lliria" {
		t.Errorf("Expected default location lliria, got %s", cfg.Poll.LocationID)
	}
	if cfg.Poll.RadiusKm != 50.0 {
		t.Errorf("Expected radius 50km, got %f", cfg.Poll.RadiusKm)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

// TestLoadNonExistentFile tests that Load returns default config when file doesn't exist.
func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("Expected no error for non-existent file, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config, got nil")
	}
	// Verify it's actually the default config
	if cfg.Server.Port != "8080" {
		t.Error("Did not get default config for non-existent file")
	}
}

// TestLoadValidConfig tests loading a valid configuration file.
func TestLoadValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.json")

	testConfig := DefaultConfig()
	testConfig.Server.Port = "9090"
	testConfig.Server.Host = "127.0.0.1"
	testConfig.OpenSky.CredentialStore = "redis"
	testConfig.OpenSky.RedisAddr = "redis.example.com:6379"
	testConfig.Poll.LocationID = "madrid"
	testConfig.Poll.RadiusKm = 120.0

	data, err := json.MarshalIndent(testConfig, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.OpenSky.RedisAddr != "redis.example.com:6379" {
		t.Errorf("Expected redis.example.com:6379, got %s", cfg.OpenSky.RedisAddr)
	}
	if cfg.Poll.LocationID != "madrid" {
		t.Errorf("Expected location madrid, got %s", cfg.Poll.LocationID)
	}
	if cfg.Poll.RadiusKm != 120.0 {
		t.Errorf("Expected radius 120, got %f", cfg.Poll.RadiusKm)
	}
}

// TestLoadInvalidJSON tests error handling for malformed JSON.
func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.json")

	if err := os.WriteFile(configPath, []byte("{ invalid json }"), 0644); err != nil {
		t.Fatalf("Failed to write invalid config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Expected parse error, got: %v", err)
	}
}

// TestEnvironmentOverrides tests environment variable overrides.
func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FLIGHTME_PORT", "7777")
	t.Setenv("OPENSKY_CLIENT_ID", "env-client-id")
	t.Setenv("OPENSKY_CLIENT_SECRET", "env-client-secret")
	t.Setenv("FLIGHTME_CREDENTIAL_STORE", "redis")
	t.Setenv("FLIGHTME_LOCATION", "london")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	testCfg := DefaultConfig()
	testCfg.Server.Port = "8080"

	data, _ := json.Marshal(testCfg)
	os.WriteFile(configPath, data, 0644)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != "7777" {
		t.Errorf("Expected port 7777 from env, got %s", cfg.Server.Port)
	}
	if cfg.OpenSky.ClientID != "env-client-id" {
		t.Errorf("Expected client id from env, got %s", cfg.OpenSky.ClientID)
	}
	if cfg.OpenSky.ClientSecret != "env-client-secret" {
		t.Errorf("Expected client secret from env, got %s", cfg.OpenSky.ClientSecret)
	}
	if cfg.OpenSky.CredentialStore != "redis" {
		t.Errorf("Expected redis store from env, got %s", cfg.OpenSky.CredentialStore)
	}
	if cfg.Poll.LocationID != "london" {
		t.Errorf("Expected location london from env, got %s", cfg.Poll.LocationID)
	}
}

// TestSaveConfig tests saving configuration to file.
func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "dir", "config.json")

	cfg := DefaultConfig()
	cfg.Server.Port = "9999"
	cfg.Poll.LocationID = "tokyo"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.Server.Port != "9999" {
		t.Errorf("Expected port 9999, got %s", loaded.Server.Port)
	}
	if loaded.Poll.LocationID != "tokyo" {
		t.Errorf("Expected location tokyo, got %s", loaded.Poll.LocationID)
	}
}

// TestSaveOmitsCredentials tests that secrets never reach the file.
func TestSaveOmitsCredentials(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	cfg := DefaultConfig()
	cfg.OpenSky.ClientID = "super-secret-id"
	cfg.OpenSky.ClientSecret = "super-secret-value"
	cfg.OpenSky.CookieSecret = "cookie-signing-key"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	for _, secret := range []string{"super-secret-id", "super-secret-value", "cookie-signing-key"} {
		if strings.Contains(string(data), secret) {
			t.Errorf("Saved config contains secret %q", secret)
		}
	}
}

// TestValidate tests the configurations Validate rejects.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"unknown store", func(c *Config) { c.OpenSky.CredentialStore = "dynamodb" }, false},
		{"cookie store without secret", func(c *Config) { c.OpenSky.CredentialStore = "cookie" }, false},
		{"cookie store with secret", func(c *Config) {
			c.OpenSky.CredentialStore = "cookie"
			c.OpenSky.CookieSecret = "s3cret"
		}, true},
		{"zero interval", func(c *Config) { c.Poll.IntervalSeconds = 0 }, false},
		{"negative radius", func(c *Config) { c.Poll.RadiusKm = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}
