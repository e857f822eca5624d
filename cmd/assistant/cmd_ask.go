package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-assistant/internal/service"
	"github.com/spec-kit/ticket-assistant/internal/worker"
)

func init() {
	askCmd.Flags().String("user", "", "user id recorded as ticket creator")
	askCmd.Flags().String("org", "", "organization for created tickets")
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one chat message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx := context.Background()
		app, err := buildApplication(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		stopNotifications := worker.StartNotificationWorker(app.notifications, logger)
		defer stopNotifications(cfg.Notification.Timeout())
		app.knowledge.Seed(ctx)

		user, _ := cmd.Flags().GetString("user")
		org, _ := cmd.Flags().GetString("org")
		result, err := app.assistant.Chat(ctx, service.ChatInput{
			Message: strings.Join(args, " "),
			UserID:  user,
			Org:     org,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "[%s]\n%s\n", result.Intent, result.Response)
		if result.TicketID != "" {
			fmt.Fprintf(out, "ticket: %s\n", result.TicketID)
		}
		return nil
	},
}
