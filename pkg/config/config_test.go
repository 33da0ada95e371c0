package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aipair.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
providers:
  openai:
    model: gpt-4-turbo
    base_url: http://localhost:9999/v1/chat/completions
    api_key_env: MY_OPENAI_KEY
  grok:
    model_env: MY_GROK_MODEL
concurrency: 2
timeout: 30s
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", cfg.Concurrency)
	}
	if time.Duration(cfg.Timeout) != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", time.Duration(cfg.Timeout))
	}

	if len(cfg.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(cfg.Providers))
	}

	oa := cfg.Providers["openai"]
	if oa.Model != "gpt-4-turbo" {
		t.Errorf("openai.Model = %q, want %q", oa.Model, "gpt-4-turbo")
	}
	if oa.BaseURL != "http://localhost:9999/v1/chat/completions" {
		t.Errorf("openai.BaseURL = %q", oa.BaseURL)
	}
	if oa.APIKeyEnv != "MY_OPENAI_KEY" {
		t.Errorf("openai.APIKeyEnv = %q, want %q", oa.APIKeyEnv, "MY_OPENAI_KEY")
	}
	if cfg.Providers["grok"].ModelEnv != "MY_GROK_MODEL" {
		t.Errorf("grok.ModelEnv = %q, want %q", cfg.Providers["grok"].ModelEnv, "MY_GROK_MODEL")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/aipair.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeTemp(t, "timeout: soon")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for unparseable duration, got nil")
	}
}

func TestLoadOrDefault_FileMissing(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/aipair.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}

	def := Default()
	if cfg.Concurrency != def.Concurrency {
		t.Errorf("Concurrency = %d, want default %d", cfg.Concurrency, def.Concurrency)
	}
	if cfg.Timeout != def.Timeout {
		t.Errorf("Timeout = %s, want default %s", time.Duration(cfg.Timeout), time.Duration(def.Timeout))
	}
}

func TestLoadOrDefault_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{bad yaml")
	if _, err := LoadOrDefault(path); err == nil {
		t.Fatal("LoadOrDefault() expected error for invalid YAML, got nil")
	}
}

func TestOverrides(t *testing.T) {
	cfg := Default()
	cfg.Providers["gemini"] = ProviderConfig{Model: "gemini-1.5-pro", BaseURL: "http://localhost:1"}

	o := cfg.Overrides()
	if len(o) != 1 {
		t.Fatalf("len(Overrides()) = %d, want 1", len(o))
	}
	if o["gemini"].Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q, want %q", o["gemini"].Model, "gemini-1.5-pro")
	}
	if o["gemini"].BaseURL != "http://localhost:1" {
		t.Errorf("BaseURL = %q, want %q", o["gemini"].BaseURL, "http://localhost:1")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	cfg.Concurrency = -1
	cfg.Timeout = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}
}
