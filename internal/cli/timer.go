package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/missiondeck/internal/mission"
)

func timerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start or stop a mission timer",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start [mission-id]",
		Short: "Start the mission timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				m, err := svc.StartTimer(ctx, args[0], opts.owner)
				if err != nil {
					return fmt.Errorf("mission %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Timer started for %s\n", m.ID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop [mission-id]",
		Short: "Stop the mission timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				m, err := svc.StopTimer(ctx, args[0], opts.owner)
				if err != nil {
					return fmt.Errorf("mission %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Timer stopped for %s after %s\n", m.ID, mission.FormatDuration(*m.Timer.Duration))
				return nil
			})
		},
	})

	return cmd
}
