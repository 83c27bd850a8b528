package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/logger"
	"github.com/theirongolddev/tripcost/internal/pipeline"
	"github.com/theirongolddev/tripcost/internal/report"
	"github.com/theirongolddev/tripcost/internal/source"
	"github.com/theirongolddev/tripcost/internal/txlog"
)

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if len(flagFiles) == 0 && flagStartDate == "" && flagEndDate == "" {
		return cmd.Help()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	advance := cfg.General.AdvanceBookingMonths
	if cmd.Flags().Changed("advance-months") {
		advance = flagAdvance
	}
	trip, err := parseTrip(advance)
	if err != nil {
		return err
	}
	if len(flagFiles) == 0 {
		return errors.New("--files is required")
	}
	if flagOutput == "" {
		return errors.New("--output-file is required")
	}

	format, err := reportFormat(flagFormat, flagOutput, cfg.General.OutputFormat)
	if err != nil {
		return err
	}

	log := newLogger()
	ctx := logger.WithContext(cmd.Context(), log)

	cache := openCache(cfg, log)
	if cache != nil {
		defer cache.Close()
	}

	orc, err := buildOracles(ctx, cfg, trip.Location, cache)
	if err != nil {
		return err
	}
	log.Debug().Str("oracle", orc.name).Int("rules", orc.rules).Bool("cache", cache != nil).Msg("oracle ready")

	concurrency := cfg.Oracle.Concurrency
	if flagConcurrency > 0 {
		concurrency = flagConcurrency
	}
	timeout := time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second
	if flagTimeout > 0 {
		timeout = flagTimeout
	}

	sinks := txlog.Multi{txlog.NewStructured(log)}
	writers := report.Multi{}
	var progress *cli.Progress
	if !flagQuiet {
		sinks = append(sinks, txlog.NewConsole(os.Stdout, true))
		writers = append(writers, report.Console{W: os.Stdout})
		progress = cli.NewProgress(os.Stderr, "Classifying", 30)
	}
	switch format {
	case "json":
		writers = append(writers, report.JSON{Out: os.Stdout})
	default:
		writers = append(writers, report.Excel{Out: os.Stdout})
	}

	engine := &pipeline.Engine{
		Classifier: orc.classifier,
		Columns:    orc.columns,
		Logger:     sinks,
		Writer:     writers,
		Progress:   progress.Update,
	}
	res, err := engine.Run(ctx, pipeline.RunConfig{
		Trip:   trip,
		Inputs: flagFiles,
		Output: flagOutput,
		Rules:  pipeline.RulesFromConfig(cfg.Categories),
		Columns: source.Columns{
			Date:        cfg.Columns.Date,
			Description: cfg.Columns.Description,
			Amount:      cfg.Columns.Amount,
		},
		Concurrency: concurrency,
		Timeout:     timeout,
	})
	if res != nil {
		printFailures(res)
	}
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\n  %d of %d in-scope transactions accepted, %d oracle calls (%s)\n",
			len(res.Accepted), len(res.Decisions), res.OracleCalls, orc.name)
	}
	return nil
}

// reportFormat picks the file format from the flag, then the destination
// extension, then the config default. A flag that contradicts a .xlsx or
// .json destination is an error.
func reportFormat(flag, dest, fallback string) (string, error) {
	fromExt := ""
	switch strings.ToLower(filepath.Ext(dest)) {
	case ".json":
		fromExt = "json"
	case ".xlsx":
		fromExt = "xlsx"
	}

	format := strings.ToLower(strings.TrimSpace(flag))
	switch {
	case format != "" && fromExt != "" && format != fromExt:
		return "", fmt.Errorf("--format %s conflicts with output file %s", format, dest)
	case format == "" && fromExt != "":
		format = fromExt
	case format == "":
		format = strings.ToLower(strings.TrimSpace(fallback))
	}

	switch format {
	case "xlsx", "json":
		return format, nil
	case "":
		return "xlsx", nil
	}
	return "", fmt.Errorf("unknown report format %q (want xlsx or json)", format)
}

// printFailures lists the files and rows that did not make it into the run.
func printFailures(res *pipeline.Result) {
	if len(res.FailedFiles) > 0 {
		fmt.Fprintf(os.Stderr, "\n  %s\n", cli.Error(fmt.Sprintf("%d of %d files could not be processed:", len(res.FailedFiles), res.Files)))
		for _, f := range res.FailedFiles {
			fmt.Fprintf(os.Stderr, "    %s: %v\n", f.Path, f.Err)
		}
	}
	if res.SkippedRows > 0 {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.Warn(fmt.Sprintf("%d rows skipped (unparseable date or amount)", res.SkippedRows)))
	}
	if res.ClassificationFailures > 0 {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.Warn(fmt.Sprintf("%d transactions could not be classified", res.ClassificationFailures)))
	}
}
