package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/weft/internal/feed"
	"github.com/user/weft/internal/notify"
	"github.com/user/weft/internal/render"
	"github.com/user/weft/internal/state"
	"github.com/user/weft/internal/types"
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("notify", false, "forward completions and endings to the configured channel")
}

var watchCmd = &cobra.Command{
	Use:   "watch <session-id>",
	Short: "Follow a session's transcript and print new turns as they arrive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		sessionID := types.SessionID(args[0])
		store := state.NewTranscriptStore(cfg.DataDir)
		follower := feed.NewFollower(store, time.Duration(cfg.PollInterval)*time.Millisecond, int64(cfg.MaxWatchers))
		dispatcher := render.NewDispatcher(defaultRoles)

		var notifier *notify.Notifier
		notifyKey := types.NewSessionKey("telegram", fmt.Sprint(cfg.Telegram.ChatID))
		if enabled, _ := cmd.Flags().GetBool("notify"); enabled {
			if cfg.Telegram.Token == "" {
				return fmt.Errorf("notify requested but no telegram token configured")
			}
			adapter, err := notify.NewTelegramAdapter(cfg.Telegram.Token)
			if err != nil {
				return fmt.Errorf("create telegram adapter: %w", err)
			}
			registry := notify.NewRegistry()
			registry.Register("telegram:", adapter.Handler())
			notifier = notify.NewNotifier(registry)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		// Print (and notify for) only turns not yet seen in a previous
		// recomputation. Turn counts only grow because the feed is
		// append-only.
		printed := 0
		err := follower.Watch(ctx, sessionID, func(_ types.SessionID, _ []*types.Event, turns []*types.Turn) {
			if len(turns) <= printed {
				return
			}
			fresh := turns[printed:]
			printed = len(turns)
			for _, turn := range fresh {
				for _, line := range dispatcher.Turn(turn) {
					fmt.Fprintln(os.Stdout, line)
				}
				fmt.Fprintln(os.Stdout)
			}
			if notifier != nil {
				if err := notifier.HandleTurns(notifyKey, fresh); err != nil {
					slog.Warn("notification delivery failed", "error", err)
				}
			}
		})
		if ctx.Err() != nil {
			return nil // clean shutdown
		}
		return err
	},
}
