package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/weft/internal/assemble"
	"github.com/user/weft/internal/render"
	"github.com/user/weft/internal/state"
	"github.com/user/weft/internal/types"
)

func init() {
	rootCmd.AddCommand(renderCmd)
}

// defaultRoles is the injected role table used for terminal rendering.
var defaultRoles = map[string]render.RoleConfig{
	"planner":  {Label: "Planner", Icon: "🧭"},
	"builder":  {Label: "Builder", Icon: "🔨"},
	"reviewer": {Label: "Reviewer", Icon: "🔍"},
	"tester":   {Label: "Tester", Icon: "🧪"},
}

var renderCmd = &cobra.Command{
	Use:   "render <session-id|events.jsonl>",
	Short: "Assemble a transcript into turns and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		events, err := loadEvents(cmd.Context(), cfg.DataDir, args[0])
		if err != nil {
			return err
		}

		dispatcher := render.NewDispatcher(defaultRoles)
		for _, turn := range assemble.Assemble(events) {
			for _, line := range dispatcher.Turn(turn) {
				fmt.Fprintln(os.Stdout, line)
			}
			fmt.Fprintln(os.Stdout)
		}
		return nil
	},
}

// loadEvents resolves the argument as a stored session id first, then as a
// path to a JSONL transcript file.
func loadEvents(ctx context.Context, dataDir, arg string) ([]*types.Event, error) {
	store := state.NewTranscriptStore(dataDir)
	events, err := store.Snapshot(ctx, types.SessionID(arg))
	if err == nil && len(events) > 0 {
		return events, nil
	}

	if _, statErr := os.Stat(arg); statErr != nil {
		return nil, fmt.Errorf("no session or transcript file %q", arg)
	}
	return readTranscriptFile(arg)
}

func readTranscriptFile(path string) ([]*types.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	var events []*types.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var ev types.Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		events = append(events, &ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return events, nil
}
