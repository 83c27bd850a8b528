package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/config"
	"github.com/theirongolddev/tripcost/internal/logger"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/source"
	"github.com/theirongolddev/tripcost/internal/store"
)

var (
	flagStartDate   string
	flagEndDate     string
	flagLocation    string
	flagFiles       []string
	flagOutput      string
	flagAdvance     int
	flagProvider    string
	flagModel       string
	flagConcurrency int
	flagTimeout     time.Duration
	flagNoCache     bool
	flagQuiet       bool
	flagLogLevel    string
	flagLogJSON     bool
	flagFormat      string
)

const examples = `  tripcost -s 2025-12-20 -e 2025-12-27 -l "New York" -f visa.csv,amex.csv -o nyc_trip
  tripcost -s 2025-12-20 -e 2025-12-27 -f statements/ -o nyc_trip --advance-months 2
  tripcost -s 2025-12-20 -e 2025-12-27 -f 'exports/*.csv' -o nyc.json --provider rules`

var rootCmd = &cobra.Command{
	Use:   "tripcost",
	Short: "Trip expense analyzer",
	Long: "Categorize bank and credit card transactions around a trip and total the trip's expenses.\n" +
		"Transactions during the trip are kept unless they are subscriptions or payments; airfare and\n" +
		"accommodation booked in advance and a few categories on the day after the trip are kept too.",
	Example:       examples,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagStartDate, "start-date", "s", "", "Trip start date (YYYY-MM-DD)")
	f.StringVarP(&flagEndDate, "end-date", "e", "", "Trip end date (YYYY-MM-DD)")
	f.StringVarP(&flagLocation, "location", "l", "", "Trip location, used in the report title and prompts")
	f.StringSliceVarP(&flagFiles, "files", "f", nil, "Statement CSV files, directories or globs (comma-separated, repeatable)")
	f.StringVarP(&flagOutput, "output-file", "o", "", "Report destination; the extension is added when missing")
	f.IntVar(&flagAdvance, "advance-months", -1, "Months before the trip in which airfare and accommodation count (default from config)")
	f.StringVar(&flagFormat, "format", "", "Report format: xlsx or json (default from output extension, then config)")
	f.IntVar(&flagConcurrency, "concurrency", 0, "Concurrent classification calls (default from config)")
	f.DurationVar(&flagTimeout, "timeout", 0, "Timeout per classification call (default from config)")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagProvider, "provider", "", "Oracle provider: "+strings.Join(config.ProviderNames(), ", "))
	pf.StringVarP(&flagModel, "model", "m", "", "Oracle model (default per provider)")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite classification cache")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress and console output")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Diagnostic log level: debug, info, warn, error, off")
	pf.BoolVar(&flagLogJSON, "log-json", false, "Write diagnostic logs as JSON lines")
}

// loadConfig reads the config file and applies the flags shared by every command.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagProvider != "" {
		cfg.Oracle.Provider = config.NormalizeProviderName(flagProvider)
	}
	if flagModel != "" {
		cfg.Oracle.Model = flagModel
	}
	if flagNoCache {
		cfg.General.Cache = false
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger from the logging flags.
func newLogger() zerolog.Logger {
	return logger.New(logger.Config{
		Level:  flagLogLevel,
		JSON:   flagLogJSON,
		Output: os.Stderr,
	})
}

// openCache opens the classification cache, or returns nil when it is
// disabled or unavailable.
func openCache(cfg config.Config, log zerolog.Logger) *store.Cache {
	if !cfg.General.Cache {
		return nil
	}
	cache, err := store.Open(store.CachePath())
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable, classifying without it")
		return nil
	}
	return cache
}

// parseTrip validates the date flags and builds the trip.
func parseTrip(advanceMonths int) (model.Trip, error) {
	if flagStartDate == "" || flagEndDate == "" {
		return model.Trip{}, fmt.Errorf("--start-date and --end-date are required")
	}
	start, err := source.ParseDate(flagStartDate)
	if err != nil {
		return model.Trip{}, fmt.Errorf("invalid --start-date: %w", err)
	}
	end, err := source.ParseDate(flagEndDate)
	if err != nil {
		return model.Trip{}, fmt.Errorf("invalid --end-date: %w", err)
	}
	return model.Trip{
		Start:         start,
		End:           end,
		Location:      strings.TrimSpace(flagLocation),
		AdvanceMonths: advanceMonths,
	}, nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
