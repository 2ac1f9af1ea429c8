package config

import (
	"strings"
	"testing"
	"time"
)

func loadTestConfig(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	// Neutralize any ambient configuration from the host environment.
	for _, key := range []string{
		"GEMINI_API_KEY", "GOOGLE_GEMINI_API_KEY", "GOOGLE_AI_API_KEY",
		"OPENAI_API_KEY", "ADMIN_USER", "ADMIN_PASS", "SESSION_SECRET",
		"PORT", "DATA_DIR", "VISUAL_PROVIDER",
	} {
		t.Setenv(key, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	return Load("")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadTestConfig(t, map[string]string{
		"GEMINI_API_KEY": "test-key",
		"ADMIN_PASS":     "hunter2",
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 3005 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 10*time.Minute {
		t.Errorf("default write timeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.DataDir != "data/posts" {
		t.Errorf("default data dir = %q", cfg.Storage.DataDir)
	}
	if cfg.AI.Gemini.ArticleModel != "gemini-2.5-pro" {
		t.Errorf("default article model = %q", cfg.AI.Gemini.ArticleModel)
	}
	if cfg.AI.Gemini.DiscoveryModel != "gemini-2.5-flash" {
		t.Errorf("default discovery model = %q", cfg.AI.Gemini.DiscoveryModel)
	}
	if cfg.AI.Gemini.ImageModel != "gemini-2.5-flash-image" {
		t.Errorf("default image model = %q", cfg.AI.Gemini.ImageModel)
	}
	if cfg.Visual.Provider != "gemini" {
		t.Errorf("default visual provider = %q", cfg.Visual.Provider)
	}
	if cfg.Auth.AdminUser != "admin" {
		t.Errorf("default admin user = %q", cfg.Auth.AdminUser)
	}
	if cfg.Auth.SessionTTL != 168*time.Hour {
		t.Errorf("default session ttl = %v", cfg.Auth.SessionTTL)
	}
}

func TestLoadGeneratesSessionSecret(t *testing.T) {
	cfg, err := loadTestConfig(t, map[string]string{
		"GEMINI_API_KEY": "test-key",
		"ADMIN_PASS":     "hunter2",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Auth.SessionSecret) != 64 {
		t.Errorf("generated secret should be 32 random bytes hex-encoded, got %d chars", len(cfg.Auth.SessionSecret))
	}
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	_, err := loadTestConfig(t, map[string]string{
		"ADMIN_PASS": "hunter2",
	})
	if err == nil || !strings.Contains(err.Error(), "Gemini API key") {
		t.Errorf("expected Gemini key validation error, got %v", err)
	}
}

func TestLoadRequiresAdminPass(t *testing.T) {
	_, err := loadTestConfig(t, map[string]string{
		"GEMINI_API_KEY": "test-key",
	})
	if err == nil || !strings.Contains(err.Error(), "Admin password") {
		t.Errorf("expected admin password validation error, got %v", err)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	_, err := loadTestConfig(t, map[string]string{
		"GEMINI_API_KEY":  "test-key",
		"ADMIN_PASS":      "hunter2",
		"VISUAL_PROVIDER": "dalle4",
	})
	if err == nil || !strings.Contains(err.Error(), "Unknown visual provider") {
		t.Errorf("expected provider validation error, got %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := loadTestConfig(t, map[string]string{
		"GEMINI_API_KEY": "test-key",
		"ADMIN_PASS":     "hunter2",
		"PORT":           "8080",
		"DATA_DIR":       "/tmp/cyberscribe-posts",
		"ADMIN_USER":     "root",
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("PORT override ignored: %d", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/cyberscribe-posts" {
		t.Errorf("DATA_DIR override ignored: %q", cfg.Storage.DataDir)
	}
	if cfg.Auth.AdminUser != "root" {
		t.Errorf("ADMIN_USER override ignored: %q", cfg.Auth.AdminUser)
	}
	if cfg.AI.Gemini.APIKey != "test-key" {
		t.Errorf("GEMINI_API_KEY ignored: %q", cfg.AI.Gemini.APIKey)
	}
}
