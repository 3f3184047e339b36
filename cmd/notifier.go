/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/traduz/apiserver/config"
	"github.com/traduz/apiserver/internal/events"
)

// notifierCmd represents the notifier command. It consumes translation
// events published by the API server and logs them; a real sender
// (email, push) would hang off the same subscription.
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Consume translation events and emit notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bus, err := events.NewBusFromConfig(ctx, cfg.Events)
		if err != nil {
			return fmt.Errorf("init event bus: %w", err)
		}
		if bus == nil {
			return fmt.Errorf("EVENTS_BACKEND must be set for the notifier")
		}
		defer func() {
			_ = bus.Close()
		}()

		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		logger.Info("notifier started", "backend", cfg.Events.Backend)

		err = bus.Subscribe(ctx, events.TranslationsChannel, func(ctx context.Context, msg events.Message) error {
			var event events.TranslationEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				logger.Error("discarding malformed event", "id", msg.ID, "error", err)
				return nil
			}
			logger.Info("translation completed",
				"user_id", event.UserID,
				"translation_id", event.TranslationID,
				"source", event.SourceLanguage,
				"target", event.TargetLanguage,
			)
			return nil
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(notifierCmd)
}
