package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-assistant/internal/interpret"
)

func init() {
	rootCmd.AddCommand(interpretCmd)
}

var interpretCmd = &cobra.Command{
	Use:   "interpret <message>",
	Short: "Print the intent and ticket fields extracted from a message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx := context.Background()
		interpreter, err := newInterpreter(ctx, cfg, logger)
		if err != nil {
			return err
		}
		result := interpret.Interpret(ctx, interpreter, strings.Join(args, " "))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}
