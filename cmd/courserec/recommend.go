package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/courserec/config"
	"github.com/rushteam/courserec/engine"
)

func newRecommendCmd(flags *globalFlags) *cobra.Command {
	var (
		learnerID string
		topK      int
		format    string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend courses for a learner",
		Long: `Recommend courses for a learner from their activity history.

Examples:
  courserec recommend --data ./data --learner 42
  courserec recommend --sqlite courses.db --learner 42 --top-k 10
  courserec recommend --data ./data --redis localhost:6379 --learner 42 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if topK < 0 {
				return fmt.Errorf("--top-k must not be negative, got %d", topK)
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be table or json, got %q", format)
			}
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log := config.NewLogger(cfg.Log, os.Stderr)

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.engine.RecommendLearner(cmd.Context(), learnerID, topK)
			if err != nil {
				return fmt.Errorf("recommend: %w", err)
			}
			return printResult(cmd, res, format)
		},
	}
	cmd.Flags().StringVar(&learnerID, "learner", "", "Learner ID whose activity log is used")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Number of courses to return (0 uses recommend.default_top_k)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func printResult(cmd *cobra.Command, res *engine.Result, format string) error {
	out := cmd.OutOrStdout()
	if format == "json" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}

	if p := res.Profile; p != nil && p.HasPrimary {
		fmt.Fprintf(out, "Primary interest: %s\n", p.PrimaryCategory)
	}
	if res.Empty() {
		fmt.Fprintf(out, "No recommendations: %s\n", res.Reason)
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tCOURSE\tTITLE\tSCORE\tUSER\tCONTENT\tPOPULARITY")
	for i, it := range res.Items {
		fmt.Fprintf(w, "%d\t%d\t%s\t%.4f\t%.4f\t%.4f\t%.4f\n",
			i+1, it.CourseID, it.Title, it.Score, it.UserSimilarity, it.ContentSimilarity, it.Popularity)
	}
	return w.Flush()
}
