package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crosscheck-ai/crosscheck/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crosscheck",
	Short: "Cross-provider fact verification for LLM answers",
	Long:  "Fans a query out to multiple search providers, extracts and reconciles typed facts, scores confidence, and emits an instruction telling the answering model how sure it may sound.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
