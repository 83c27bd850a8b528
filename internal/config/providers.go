package config

import (
	"sort"
	"strings"
)

// Oracle provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderRules     = "rules"
)

// Provider describes how to reach one classification oracle backend.
type Provider struct {
	Name         string
	DefaultModel string
	DefaultURL   string
	KeyEnv       []string // checked in order
	URLEnv       string
	NeedsKey     bool
}

var providers = map[string]Provider{
	ProviderAnthropic: {
		Name:         ProviderAnthropic,
		DefaultModel: "claude-sonnet-4-5",
		KeyEnv:       []string{"ANTHROPIC_API_KEY"},
		NeedsKey:     true,
	},
	ProviderGemini: {
		Name:         ProviderGemini,
		DefaultModel: "gemini-2.5-flash",
		KeyEnv:       []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		NeedsKey:     true,
	},
	ProviderOllama: {
		Name:         ProviderOllama,
		DefaultModel: "gemma3:12b",
		DefaultURL:   "http://localhost:11434",
		URLEnv:       "OLLAMA_HOST",
	},
	ProviderRules: {
		Name: ProviderRules,
	},
}

// aliases accepted on the command line.
var providerAliases = map[string]string{
	"claude": ProviderAnthropic,
	"google": ProviderGemini,
	"local":  ProviderOllama,
}

// NormalizeProviderName lowercases and resolves aliases.
// e.g., " Claude " -> "anthropic"
func NormalizeProviderName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := providerAliases[name]; ok {
		return alias
	}
	return name
}

// LookupProvider returns the provider definition, normalizing the name first.
func LookupProvider(name string) (Provider, bool) {
	p, ok := providers[NormalizeProviderName(name)]
	return p, ok
}

// ProviderNames returns every known provider, sorted.
func ProviderNames() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
