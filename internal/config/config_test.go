package config

import (
	"os"
	"testing"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		envValue string
		fallback string
		expected string
	}{
		{"uses env value", "TUTORCHAT_TEST_STR", "hello", "default", "hello"},
		{"uses fallback when unset", "TUTORCHAT_TEST_STR_UNSET", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnv(tc.key, tc.fallback)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		envValue string
		fallback int
		expected int
	}{
		{"parses integer", "TUTORCHAT_TEST_INT", "42", 10, 42},
		{"uses fallback when unset", "TUTORCHAT_TEST_INT_UNSET", "", 10, 10},
		{"uses fallback for non-numeric", "TUTORCHAT_TEST_INT_BAD", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsInt(tc.key, tc.fallback)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.App.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.App.Port)
	}
	if cfg.App.Env != "dev" {
		t.Errorf("Expected default env 'dev', got %q", cfg.App.Env)
	}
	if cfg.Auth.JWTSecret != DefaultJWTSecret {
		t.Errorf("Expected default jwt secret, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.JWTExpireHour != 72 {
		t.Errorf("Expected default expiry 72h, got %d", cfg.Auth.JWTExpireHour)
	}
	if cfg.LLM.MaxTokens != 1024 {
		t.Errorf("Expected default max_tokens 1024, got %d", cfg.LLM.MaxTokens)
	}
}

func TestOverrideByEnv(t *testing.T) {
	os.Setenv("PORT", "8081")
	os.Setenv("JWT_SECRET", "super-secret")
	os.Setenv("ANTHROPIC_API_KEY", "sk-test")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("ANTHROPIC_API_KEY")
	}()

	cfg := defaultConfig()
	overrideByEnv(cfg)

	if cfg.App.Port != 8081 {
		t.Errorf("Expected PORT override 8081, got %d", cfg.App.Port)
	}
	if cfg.Auth.JWTSecret != "super-secret" {
		t.Errorf("Expected JWT_SECRET override, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("Expected ANTHROPIC_API_KEY override, got %q", cfg.LLM.APIKey)
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.MySQL.User = "tutor"
	cfg.MySQL.Password = "pw"
	cfg.MySQL.Host = "db"
	cfg.MySQL.Port = 3307
	cfg.MySQL.DB = "school"
	cfg.MySQL.Params = "parseTime=true"

	expected := "tutor:pw@tcp(db:3307)/school?parseTime=true"
	if dsn := cfg.MySQLDSN(); dsn != expected {
		t.Errorf("Expected DSN %q, got %q", expected, dsn)
	}
}

func TestHTTPAddr(t *testing.T) {
	cfg := defaultConfig()
	if addr := cfg.HTTPAddr(); addr != "0.0.0.0:3000" {
		t.Errorf("Expected addr '0.0.0.0:3000', got %q", addr)
	}
}
