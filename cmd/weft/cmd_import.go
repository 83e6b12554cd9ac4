package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/weft/internal/registry"
	"github.com/user/weft/internal/state"
	"github.com/user/weft/internal/sysmsg"
	"github.com/user/weft/internal/types"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("key", "", "session key (defaults to file:<path>)")
	importCmd.Flags().String("agent", "default", "agent name for the catalog entry")
}

var importCmd = &cobra.Command{
	Use:   "import <events.jsonl>",
	Short: "Import a transcript file into the local store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		events, err := readTranscriptFile(args[0])
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("no events in %s", args[0])
		}

		key, _ := cmd.Flags().GetString("key")
		if key == "" {
			key = string(types.NewSessionKey("file", args[0]))
		}
		agent, _ := cmd.Flags().GetString("agent")

		ctx := context.Background()
		catalog := state.NewCatalog(cfg.DataDir)
		store := state.NewTranscriptStore(cfg.DataDir)

		id, err := catalog.ResolveOrCreate(ctx, types.SessionKey(key), agent)
		if err != nil {
			return fmt.Errorf("resolve session: %w", err)
		}
		for _, ev := range events {
			if err := store.Append(ctx, id, ev); err != nil {
				return fmt.Errorf("append event: %w", err)
			}
		}
		if err := catalog.Touch(ctx, id, previewOf(events)); err != nil {
			return fmt.Errorf("update catalog: %w", err)
		}

		fmt.Printf("Imported %d events into session %s\n", len(events), id)
		return nil
	},
}

// previewOf returns the first genuine user message, truncated for catalog
// display.
func previewOf(events []*types.Event) string {
	for _, ev := range events {
		if ev.Kind != types.KindUserMessage {
			continue
		}
		if sysmsg.IsSystem(ev.Content) {
			continue
		}
		return registry.Truncate(ev.Content)
	}
	return ""
}
