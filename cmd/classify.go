package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/logger"
	"github.com/theirongolddev/tripcost/internal/source"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <description> <amount>",
	Short: "Categorize a single transaction with the configured oracle",
	Example: `  tripcost classify "UBER *TRIP" 18.40 --provider ollama --model gemma3:12b
  tripcost classify -- "DELTA AIR 0062345" -310.00`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	amount, err := source.ParseAmount(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger()
	ctx := logger.WithContext(cmd.Context(), log)

	cache := openCache(cfg, log)
	if cache != nil {
		defer cache.Close()
	}

	orc, err := buildOracles(ctx, cfg, "", cache)
	if err != nil {
		return err
	}

	category, err := orc.classifier.CategorizeExpense(ctx, args[0], amount)
	if err != nil {
		return err
	}

	fmt.Printf("  %s  %s  →  %s  %s\n",
		args[0], cli.FormatMoney(amount), cli.Category(category), cli.Muted("("+orc.name+")"))
	return nil
}
