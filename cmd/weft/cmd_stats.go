package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/weft/internal/assemble"
	"github.com/user/weft/internal/stats"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <session-id|events.jsonl>",
	Short: "Show per-turn token usage for a transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		events, err := loadEvents(cmd.Context(), cfg.DataDir, args[0])
		if err != nil {
			return err
		}

		counter, err := stats.NewCounter(cfg.Stats.Model)
		if err != nil {
			return fmt.Errorf("create token counter: %w", err)
		}

		perTurn, total := counter.Turns(assemble.Assemble(events))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TURN\tEVENTS\tUSER\tTEXT\tTHINKING\tTOOLS\tRESULTS\tTOTAL")
		for _, s := range perTurn {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
				s.TurnID, s.Events, s.UserTokens, s.TextTokens,
				s.ThinkingTokens, s.ToolInputTokens, s.ResultTokens, s.Total,
			)
		}
		fmt.Fprintf(w, "total\t\t\t\t\t\t\t%d\n", total)
		return w.Flush()
	},
}
