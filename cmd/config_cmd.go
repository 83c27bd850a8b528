// Package cmd implements the tripcost CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/config"
	"github.com/theirongolddev/tripcost/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Advance booking months: %d\n", cfg.General.AdvanceBookingMonths)
	fmt.Printf("    Output format:          %s\n", cfg.General.OutputFormat)
	fmt.Printf("    Cache:                  %v (%s)\n", cfg.General.Cache, store.CachePath())
	fmt.Println()

	fmt.Println("  [Oracle]")
	fmt.Printf("    Provider:    %s\n", cfg.Oracle.Provider)
	if model := config.GetModel(cfg); model != "" {
		fmt.Printf("    Model:       %s\n", model)
	}
	if p, ok := config.LookupProvider(cfg.Oracle.Provider); ok && p.NeedsKey {
		if key := config.GetAPIKey(cfg); key != "" {
			fmt.Printf("    API key:     %s\n", maskAPIKey(key))
		} else {
			fmt.Printf("    API key:     not configured (%s)\n", strings.Join(p.KeyEnv, " or "))
		}
	}
	if u := config.GetBaseURL(cfg); u != "" {
		fmt.Printf("    Endpoint:    %s\n", u)
	}
	fmt.Printf("    Timeout:     %ds\n", cfg.Oracle.TimeoutSeconds)
	fmt.Printf("    Concurrency: %d\n", cfg.Oracle.Concurrency)
	fmt.Println()

	fmt.Println("  [Categories]")
	fmt.Printf("    Known:           %s\n", strings.Join(cfg.Categories.Known, ", "))
	fmt.Printf("    Fallback:        %s\n", cfg.Categories.Fallback)
	fmt.Printf("    Excluded:        %s\n", listOrNone(cfg.Categories.Excluded))
	fmt.Printf("    Advance booking: %s\n", listOrNone(cfg.Categories.AdvanceBooking))
	fmt.Printf("    Trailing day:    %s\n", listOrNone(cfg.Categories.TrailingDay))
	fmt.Println()

	c := cfg.Columns
	if c.Date != "" || c.Description != "" || c.Amount != "" {
		fmt.Println("  [Columns]")
		fmt.Printf("    Date:        %s\n", listOrNone([]string{c.Date}))
		fmt.Printf("    Description: %s\n", listOrNone([]string{c.Description}))
		fmt.Printf("    Amount:      %s\n", listOrNone([]string{c.Amount}))
		fmt.Println()
	}

	if cfg.Rules.File != "" {
		fmt.Println("  [Rules]")
		fmt.Printf("    File: %s\n", cfg.Rules.File)
		fmt.Println()
	}

	fmt.Println("  Run `tripcost setup` to reconfigure.")
	return nil
}

func listOrNone(items []string) string {
	var kept []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "(none)"
	}
	return strings.Join(kept, ", ")
}
