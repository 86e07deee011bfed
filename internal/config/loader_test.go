package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadRequiresToken(t *testing.T) {
	_, err := Load()
	if err == nil {
		t.Fatal("Load without an AI token should fail validation")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("error should wrap ErrConfiguration, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SAPPHAI_AI_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Token != "test-token" {
		t.Errorf("AI.Token = %q, want value from environment", cfg.AI.Token)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("AI.Provider = %q, want openai", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-3.5-turbo" {
		t.Errorf("AI.Model = %q, want gpt-3.5-turbo", cfg.AI.Model)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Errorf("AI.Timeout = %v, want 30s", cfg.AI.Timeout)
	}
	if cfg.AI.MaxTokens != 300 {
		t.Errorf("AI.MaxTokens = %d, want 300", cfg.AI.MaxTokens)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Memory.MaxUsers != 10000 {
		t.Errorf("Memory.MaxUsers = %d, want 10000", cfg.Memory.MaxUsers)
	}

	sweep, ok := cfg.Scheduler["memory_sweep"]
	if !ok || !sweep.Enabled {
		t.Error("memory_sweep task should be enabled by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SAPPHAI_AI_TOKEN", "test-token")
	t.Setenv("SAPPHAI_AI_MODEL", "gpt-4o-mini")
	t.Setenv("SAPPHAI_SERVER_PORT", "8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("AI.Model = %q, want env override", cfg.AI.Model)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want env override 8080", cfg.Server.Port)
	}
}
