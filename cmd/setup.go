package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	provider := config.NormalizeProviderName(cfg.Oracle.Provider)
	providerOpts := make([]huh.Option[string], 0, len(config.ProviderNames()))
	for _, name := range config.ProviderNames() {
		providerOpts = append(providerOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tripcost!").
				Description("Transactions are categorized by an oracle: a hosted model,\na local Ollama model, or a YAML rules file."),
			huh.NewSelect[string]().
				Title("Oracle provider").
				Options(providerOpts...).
				Value(&provider),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup aborted: %w", err)
	}
	cfg.Oracle.Provider = provider

	p, _ := config.LookupProvider(provider)
	model := cfg.Oracle.Model
	if model == "" {
		model = p.DefaultModel
	}
	apiKey := ""
	baseURL := cfg.Oracle.BaseURL
	rulesFile := cfg.Rules.File
	advance := strconv.Itoa(cfg.General.AdvanceBookingMonths)

	var fields []huh.Field
	if provider != config.ProviderRules {
		fields = append(fields, huh.NewInput().
			Title("Model").
			Placeholder(p.DefaultModel).
			Value(&model))
	}
	if p.NeedsKey {
		desc := "Leave blank to keep the current key"
		if existing := config.GetAPIKey(cfg); existing != "" {
			desc += " (" + maskAPIKey(existing) + ")"
		}
		fields = append(fields, huh.NewInput().
			Title("API key").
			Description(desc).
			EchoMode(huh.EchoModePassword).
			Value(&apiKey))
	}
	if provider == config.ProviderOllama {
		fields = append(fields, huh.NewInput().
			Title("Ollama endpoint").
			Placeholder(p.DefaultURL).
			Value(&baseURL))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Rules file").
			Description("Optional YAML file of Category: [pattern, ...] rules tried before the model").
			Value(&rulesFile),
		huh.NewInput().
			Title("Advance booking months").
			Description("Airfare and accommodation booked this many months before the trip count").
			Value(&advance).
			Validate(func(s string) error {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil || n < 0 {
					return fmt.Errorf("enter a whole number of months, 0 or more")
				}
				return nil
			}),
	)

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("setup aborted: %w", err)
	}

	if strings.TrimSpace(model) == p.DefaultModel {
		model = ""
	}
	cfg.Oracle.Model = strings.TrimSpace(model)
	if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
		cfg.Oracle.APIKey = apiKey
	}
	cfg.Oracle.BaseURL = strings.TrimSpace(baseURL)
	cfg.Rules.File = strings.TrimSpace(rulesFile)
	cfg.General.AdvanceBookingMonths, _ = strconv.Atoi(strings.TrimSpace(advance))

	if provider == config.ProviderRules && cfg.Rules.File == "" {
		return fmt.Errorf("the rules provider needs a rules file")
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `tripcost setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
