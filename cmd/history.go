package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crosscheck-ai/crosscheck/internal/model"
	"github.com/crosscheck-ai/crosscheck/internal/store"
)

var (
	historyDomain     string
	historyTier       string
	historyConfidence string
	historyLimit      int
	historyJSON       bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past verifications from the audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx, "verify")
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := e.Store.ListVerifications(ctx, store.VerificationFilter{
			Domain:     historyDomain,
			Tier:       model.Tier(historyTier),
			Confidence: model.ConfidenceLevel(historyConfidence),
			Limit:      historyLimit,
		})
		if err != nil {
			return err
		}

		if historyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		if len(records) == 0 {
			fmt.Println("no verifications recorded")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %-8s %-6s %.2f  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Tier, r.Confidence, r.ConfidenceScore, r.Query)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored verification in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx, "verify")
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.Store.GetVerification(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyDomain, "domain", "", "filter by domain tag")
	historyCmd.Flags().StringVar(&historyTier, "tier", "", "filter by tier (no_verify, standard, strict)")
	historyCmd.Flags().StringVar(&historyConfidence, "confidence", "", "filter by confidence (high, medium, low)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "emit records as JSON")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
}
