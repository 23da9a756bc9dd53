package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crosscheck-ai/crosscheck/internal/model"
	"github.com/crosscheck-ai/crosscheck/pkg/answer"
)

var (
	verifyDomain string
	verifyJSON   bool
	verifyAnswer bool
	verifyNoSave bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <query>",
	Short: "Cross-verify a query against all configured providers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		e, err := initEnv(ctx, "verify")
		if err != nil {
			return err
		}
		defer e.Close()

		tier := e.Pipeline.ClassifyTier(verifyDomain, query)
		results := e.Dispatcher.Dispatch(ctx, query, verifyDomain, tier)
		res := e.Pipeline.Verify(query, verifyDomain, results)

		if !verifyNoSave {
			rec, err := e.Store.SaveVerification(ctx, res)
			if err != nil {
				zap.L().Warn("audit save failed", zap.Error(err))
			} else {
				zap.L().Debug("verification saved", zap.String("id", rec.ID))
			}
		}

		var draft *answer.Response
		if verifyAnswer {
			if e.Drafter == nil {
				return eris.New("answer drafting requires anthropic.key")
			}
			draft, err = e.Drafter.Draft(ctx, answer.Request{
				Query:        query,
				VerifiedFact: res.VerifiedFact,
				Instruction:  res.LLMInstruction,
			})
			if err != nil {
				return err
			}
		}

		if verifyJSON {
			out := struct {
				*model.ConsistencyResult
				Answer string `json:"answer,omitempty"`
			}{ConsistencyResult: res}
			if draft != nil {
				out.Answer = draft.Text
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		printResult(res)
		if draft != nil {
			fmt.Printf("\nAnswer:\n%s\n", draft.Text)
		}
		return nil
	},
}

func printResult(res *model.ConsistencyResult) {
	fmt.Printf("Query:       %s\n", res.Query)
	if res.Domain != "" {
		fmt.Printf("Domain:      %s\n", res.Domain)
	}
	fmt.Printf("Tier:        %s\n", res.Tier)
	fmt.Printf("Confidence:  %s (%.2f)\n", res.Confidence, res.ConfidenceScore)
	fmt.Printf("Agreement:   %s\n", res.Agreement.Level)
	if res.Agreement.ConflictDescription != "" {
		fmt.Printf("Conflicts:   %s\n", res.Agreement.ConflictDescription)
	}
	fmt.Printf("Providers:   %d answered in %s\n", res.ProvidersUsed, res.Elapsed.Round(time.Millisecond))
	if res.VerifiedFact != "" {
		fmt.Printf("\n%s\n", res.VerifiedFact)
	}
	if res.LLMInstruction != "" {
		fmt.Printf("\nInstruction:\n%s\n", res.LLMInstruction)
	}
}

func init() {
	verifyCmd.Flags().StringVar(&verifyDomain, "domain", "", "domain tag (finance, health, sports, ...)")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "emit the full result as JSON")
	verifyCmd.Flags().BoolVar(&verifyAnswer, "answer", false, "draft a final answer via the Anthropic API")
	verifyCmd.Flags().BoolVar(&verifyNoSave, "no-save", false, "skip the audit trail")
	rootCmd.AddCommand(verifyCmd)
}
