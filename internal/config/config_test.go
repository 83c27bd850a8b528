package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.AdvanceBookingMonths != 3 {
		t.Errorf("AdvanceBookingMonths = %d, want 3", cfg.General.AdvanceBookingMonths)
	}
	if cfg.Oracle.Provider != ProviderOllama {
		t.Errorf("Provider = %q, want %q", cfg.Oracle.Provider, ProviderOllama)
	}
	if len(cfg.Categories.Excluded) != 4 {
		t.Errorf("Excluded = %v, want 4 entries", cfg.Categories.Excluded)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
advance_booking_months = 1

[oracle]
provider = "anthropic"

[categories]
trailing_day = ["Accommodation"]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.AdvanceBookingMonths != 1 {
		t.Errorf("AdvanceBookingMonths = %d, want 1", cfg.General.AdvanceBookingMonths)
	}
	if cfg.Oracle.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.Oracle.TimeoutSeconds)
	}
	if got := cfg.Categories.TrailingDay; len(got) != 1 || got[0] != "Accommodation" {
		t.Errorf("TrailingDay = %v, want [Accommodation]", got)
	}
	if cfg.Categories.Fallback != "Other" {
		t.Errorf("Fallback = %q, want Other", cfg.Categories.Fallback)
	}
	if GetModel(cfg) != "claude-sonnet-4-5" {
		t.Errorf("GetModel = %q, want provider default", GetModel(cfg))
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Oracle.Provider = ProviderGemini
	cfg.Columns.Amount = "Debit"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Oracle.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want gemini", got.Oracle.Provider)
	}
	if got.Columns.Amount != "Debit" {
		t.Errorf("Columns.Amount = %q, want Debit", got.Columns.Amount)
	}
}

func TestGetAPIKey_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Oracle.Provider = ProviderAnthropic
	cfg.Oracle.APIKey = "from-file"

	t.Setenv("ANTHROPIC_API_KEY", "")
	if got := GetAPIKey(cfg); got != "from-file" {
		t.Errorf("GetAPIKey = %q, want from-file", got)
	}

	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	if got := GetAPIKey(cfg); got != "from-env" {
		t.Errorf("GetAPIKey = %q, want from-env", got)
	}
}

func TestGetBaseURL_OllamaDefault(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("OLLAMA_HOST", "")
	if got := GetBaseURL(cfg); got != "http://localhost:11434" {
		t.Errorf("GetBaseURL = %q, want default ollama url", got)
	}
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	if got := GetBaseURL(cfg); got != "http://gpu-box:11434" {
		t.Errorf("GetBaseURL = %q, want env override", got)
	}
}

func TestNormalizeProviderName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"anthropic", "anthropic"},
		{" Claude ", "anthropic"},
		{"GOOGLE", "gemini"},
		{"local", "ollama"},
		{"rules", "rules"},
		{"other", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeProviderName(tt.input); got != tt.want {
				t.Errorf("NormalizeProviderName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
