package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/tripcost/internal/config"
	"github.com/theirongolddev/tripcost/internal/oracle"
	"github.com/theirongolddev/tripcost/internal/store"
)

// oracles is the assembled classification chain for one run.
type oracles struct {
	classifier oracle.CategoryClassifier
	columns    oracle.ColumnIdentifier
	name       string
	rules      int
}

// buildOracles wires rules, the provider, the cache and label normalisation:
//
//	Normalized(WithRules(rules, Cached(provider)))
//
// Column lookups try header heuristics before asking the provider.
// cache may be nil.
func buildOracles(ctx context.Context, cfg config.Config, location string, cache *store.Cache) (oracles, error) {
	var rules *oracle.Rules
	if cfg.Rules.File != "" {
		r, err := oracle.LoadRules(cfg.Rules.File)
		if err != nil {
			return oracles{}, err
		}
		rules = r
	}

	prompt := oracle.Prompt{Categories: cfg.Categories.Known, Location: location}
	model := config.GetModel(cfg)
	provider := config.NormalizeProviderName(cfg.Oracle.Provider)

	var llm *oracle.LLM
	switch provider {
	case config.ProviderAnthropic:
		c, err := oracle.NewClaude(oracle.ClaudeOptions{
			APIKey:  config.GetAPIKey(cfg),
			Model:   model,
			BaseURL: config.GetBaseURL(cfg),
			Prompt:  prompt,
		})
		if err != nil {
			return oracles{}, fmt.Errorf("anthropic: %w (set ANTHROPIC_API_KEY or run `tripcost setup`)", err)
		}
		llm = c
	case config.ProviderGemini:
		g, err := oracle.NewGemini(ctx, oracle.GeminiOptions{
			APIKey:  config.GetAPIKey(cfg),
			Model:   model,
			BaseURL: config.GetBaseURL(cfg),
			Prompt:  prompt,
		})
		if err != nil {
			return oracles{}, fmt.Errorf("gemini: %w (set GEMINI_API_KEY or run `tripcost setup`)", err)
		}
		llm = g
	case config.ProviderOllama:
		llm = oracle.NewOllama(oracle.OllamaOptions{
			BaseURL: config.GetBaseURL(cfg),
			Model:   model,
			Timeout: time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second,
			Prompt:  prompt,
		})
	case config.ProviderRules:
		if rules.Len() == 0 {
			return oracles{}, fmt.Errorf("provider %q needs a rules file ([rules] file in %s)", provider, config.ConfigPath())
		}
	default:
		return oracles{}, fmt.Errorf("unknown provider %q (want one of %v)", cfg.Oracle.Provider, config.ProviderNames())
	}

	normalizer := oracle.Normalizer{Known: cfg.Categories.Known, Fallback: cfg.Categories.Fallback}
	o := oracles{rules: rules.Len()}

	if llm == nil {
		o.classifier = oracle.Normalized{Inner: rules, Normalizer: normalizer}
		o.columns = oracle.HeuristicColumns{}
		o.name = provider
		return o, nil
	}

	var base oracle.CategoryClassifier = llm
	var columns oracle.ColumnIdentifier = llm
	if cache != nil {
		base = oracle.Cached{Inner: llm, Store: cache, Provider: llm.Provider(), Model: llm.Model()}
		columns = oracle.CachedColumns{Inner: llm, Store: cache}
	}
	o.classifier = oracle.Normalized{Inner: oracle.WithRules(rules, base), Normalizer: normalizer}
	o.columns = oracle.ColumnChain{oracle.HeuristicColumns{}, columns}
	o.name = llm.Name()
	return o, nil
}
