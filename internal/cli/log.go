package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garnizeh/missiondeck/internal/mission"
)

func logCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record or list mission error logs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [mission-id] [message]",
		Short: "Record an error against a mission",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := strings.Join(args[1:], " ")
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				l, err := svc.AddErrorLog(ctx, args[0], opts.owner, msg)
				if err != nil {
					return fmt.Errorf("mission %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged error %s\n", l.ID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list [mission-id]",
		Short: "List a mission's error logs, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				logs, err := svc.ListErrorLogs(ctx, args[0], opts.owner)
				if err != nil {
					return fmt.Errorf("mission %s: %w", args[0], err)
				}
				printErrorLogs(cmd.OutOrStdout(), logs)
				return nil
			})
		},
	})

	return cmd
}
