package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/inspection/internal/model"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	cmd.AddCommand(newConfigShowCommand(rootOpts))
	return cmd
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.ConfigPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", path, err)
			}
			if err := model.SaveConfig(path, rootOpts.config); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.config
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file:         %s\n", rootOpts.ConfigPath)
			fmt.Fprintf(out, "api base url:        %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "api timeout:         %ds\n", cfg.API.TimeoutSec)
			fmt.Fprintf(out, "requests per second: %g\n", cfg.API.RequestsPerSecond)
			fmt.Fprintf(out, "session backend:     %s\n", cfg.Session.Backend)
			fmt.Fprintf(out, "language:            %s\n", cfg.Display.Language)
			fmt.Fprintf(out, "page size:           %d\n", cfg.Display.PageSize)
			fmt.Fprintf(out, "log file:            %s\n", cfg.Log.File)
			return nil
		},
	}
}
