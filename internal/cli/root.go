// Package cli implements missionctl, an operator tool that drives the mission
// service directly against the configured store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garnizeh/missiondeck/internal/config"
	"github.com/garnizeh/missiondeck/internal/mission"
	"github.com/garnizeh/missiondeck/internal/repository"
)

// ErrEphemeralStore is returned for the memory driver: every missionctl
// invocation would start from an empty store.
var ErrEphemeralStore = errors.New("the memory store does not persist between missionctl runs; configure store.driver: sqlite")

type options struct {
	configPath string
	owner      string
}

// NewRootCmd builds the missionctl command tree. Each call returns an
// independent tree with its own flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "missionctl",
		Short:         "Manage missions, timers and error logs",
		Long:          "Manage missions, timers and error logs in the configured sqlite store.\nThe memory driver is refused since nothing would persist between runs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config YAML file")
	root.PersistentFlags().StringVar(&opts.owner, "owner", defaultOwner(), "Owner id to act as")

	root.AddCommand(migrateCmd(opts))
	root.AddCommand(createCmd(opts))
	root.AddCommand(listCmd(opts))
	root.AddCommand(showCmd(opts))
	root.AddCommand(toggleCmd(opts))
	root.AddCommand(deleteCmd(opts))
	root.AddCommand(summaryCmd(opts))
	root.AddCommand(timerCmd(opts))
	root.AddCommand(logCmd(opts))

	return root
}

func defaultOwner() string {
	if v := os.Getenv("MISSIONDECK_OWNER"); v != "" {
		return v
	}
	return "local"
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// withService opens the configured store, runs fn and closes the store.
func (o *options) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *mission.Service) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	if cfg.Store.Driver == config.DriverMemory {
		return ErrEphemeralStore
	}

	ctx := cmd.Context()
	store, err := repository.Open(ctx, cfg.Store, nil)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	svc, err := mission.New(store, store)
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}
