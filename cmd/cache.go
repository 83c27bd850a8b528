package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/store"
)

var flagCacheLimit int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show the classification cache",
	RunE:  runCache,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the classification cache",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.Flags().IntVarP(&flagCacheLimit, "limit", "n", 10, "Recent classifications to list")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCache(_ *cobra.Command, _ []string) error {
	cache, err := store.Open(store.CachePath())
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("reading cache stats: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CLASSIFICATION CACHE"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Path", stats.Path},
			{"Size", formatBytes(stats.SizeBytes)},
			{"---"},
			{"Classifications", cli.FormatNumber(int64(stats.Classifications))},
			{"Column mappings", cli.FormatNumber(int64(stats.Columns))},
		},
	}))

	if flagCacheLimit <= 0 || stats.Classifications == 0 {
		fmt.Println()
		return nil
	}

	recent, err := cache.ListClassifications(flagCacheLimit)
	if err != nil {
		return fmt.Errorf("listing classifications: %w", err)
	}
	rows := make([][]string, 0, len(recent))
	for _, c := range recent {
		rows = append(rows, []string{c.Description, c.Amount, c.Category, c.Provider + ":" + c.Model, c.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent",
		Headers: []string{"Description", "Amount", "Category", "Oracle", "Cached"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	path := store.CachePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("  Cache is already empty.")
		return nil
	}

	cache, err := store.Open(path)
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("reading cache stats: %w", err)
	}
	if err := cache.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	fmt.Printf("  Removed %d classifications and %d column mappings from %s\n",
		stats.Classifications, stats.Columns, path)
	return nil
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return strconv.FormatFloat(float64(n)/(1<<20), 'f', 1, 64) + " MB"
	case n >= 1<<10:
		return strconv.FormatFloat(float64(n)/(1<<10), 'f', 1, 64) + " KB"
	}
	return strconv.FormatInt(n, 10) + " B"
}
