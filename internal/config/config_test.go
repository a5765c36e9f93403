package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Coach.BaseURL == "" || cfg.Coach.Model == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Coach.APIKey != "" {
		t.Fatal("default config should have no API key")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride", "config.toml")

	want := &Config{Coach: CoachConfig{
		BaseURL: "https://example.test/v1",
		APIKey:  "sk-test",
		Model:   "test-model",
	}}
	if err := Save(want, path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[coach]\napi_key = \"sk-abc\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Coach.APIKey != "sk-abc" {
		t.Fatalf("api_key = %q", cfg.Coach.APIKey)
	}
	if cfg.Coach.Model == "" {
		t.Fatal("unset fields should keep defaults")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("not toml ]["), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestPathNotEmpty(t *testing.T) {
	if Path() == "" {
		t.Fatal("empty config path")
	}
}
