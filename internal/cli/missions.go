package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/missiondeck/internal/mission"
)

func createCmd(opts *options) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				m, err := svc.Create(ctx, args[0], description, opts.owner)
				if err != nil {
					return fmt.Errorf("failed to create mission: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Created mission %s: %s\n", m.ID, m.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Mission description")
	return cmd
}

func listCmd(opts *options) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List missions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := mission.ParseFilter(status)
			if err != nil {
				return err
			}
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				missions, err := svc.List(ctx, opts.owner, f)
				if err != nil {
					return fmt.Errorf("failed to list missions: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(missions) == 0 {
					fmt.Fprintln(out, "No missions found")
					return nil
				}

				now := svc.Now()
				fmt.Fprintf(out, "%-36s %-10s %-18s %s\n", "ID", "STATUS", "TIMER", "TITLE")
				for i := range missions {
					m := &missions[i]
					fmt.Fprintf(out, "%-36s %-10s %-18s %s\n", m.ID, statusLabel(m.Status), timerLabel(m, now), m.Title)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "Filter by status: all, active or completed")
	return cmd
}

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [mission-id]",
		Short: "Show mission details and error logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				m, err := svc.Get(ctx, args[0], opts.owner)
				if err != nil {
					return fmt.Errorf("mission %s: %w", args[0], err)
				}
				logs, err := svc.ListErrorLogs(ctx, m.ID, opts.owner)
				if err != nil {
					return fmt.Errorf("mission %s: %w", args[0], err)
				}

				out := cmd.OutOrStdout()
				printMission(out, m, svc.Now())
				fmt.Fprintln(out)
				printErrorLogs(out, logs)
				return nil
			})
		},
	}
}

func toggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [mission-id]",
		Short: "Flip a mission between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				m, err := svc.ToggleStatus(ctx, args[0], opts.owner)
				if err != nil {
					return fmt.Errorf("mission %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Mission %s is now %s\n", m.ID, statusLabel(m.Status))
				return nil
			})
		},
	}
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [mission-id]",
		Short: "Delete a mission and its error logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				if err := svc.Delete(ctx, args[0], opts.owner); err != nil {
					return fmt.Errorf("mission %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted mission %s\n", args[0])
				return nil
			})
		},
	}
}

func summaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show mission counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *mission.Service) error {
				sum, err := svc.Summary(ctx, opts.owner)
				if err != nil {
					return fmt.Errorf("failed to summarize missions: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total:          %d\n", sum.Total)
				fmt.Fprintf(out, "Active:         %d\n", sum.Active)
				fmt.Fprintf(out, "Completed:      %d\n", sum.Completed)
				fmt.Fprintf(out, "Running timers: %d\n", sum.RunningTimers)
				return nil
			})
		},
	}
}
