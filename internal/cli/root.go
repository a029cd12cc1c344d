// Package cli is the inspect command line: the terminal UI by default,
// plus subcommands for scripted use.
package cli

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/app"
	"github.com/nhle/inspection/internal/keys"
	"github.com/nhle/inspection/internal/logging"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/session"
	"github.com/nhle/inspection/internal/ui"
	"github.com/nhle/inspection/internal/validate"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	config *model.AppConfig
	env    *ui.Env
}

// Env returns the dependencies built for the running command.
func (o *RootOptions) Env() *ui.Env { return o.env }

// setup loads configuration and wires the logger, session and API client.
func (o *RootOptions) setup() error {
	cfg, err := model.LoadConfig(o.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, o.Verbose)
	if err != nil {
		return err
	}

	o.config = cfg
	sess := session.Open(cfg.Session, model.ConfigDir(), logger)

	opts := []api.Option{
		api.WithLogger(logger),
		api.WithLimiter(api.NewLimiter(cfg.API.RequestsPerSecond)),
	}
	if cfg.API.TimeoutSec > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.API.TimeoutSec)*time.Second))
	}

	o.env = &ui.Env{
		Client:    api.NewClient(cfg.API.BaseURL, sess, opts...),
		Session:   sess,
		Validator: validate.New(cfg.Display.Language),
		Keys:      keys.DefaultKeyMap(),
		Logger:    logger,
		PageSize:  cfg.Display.PageSize,
		Now:       time.Now,
	}
	logger.Debug("configured",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("session_persistent", sess.Persistent()))
	return nil
}

// teardown closes the session backend and flushes the log.
func (o *RootOptions) teardown() error {
	if o.env == nil {
		return nil
	}
	err := o.env.Session.Close()
	_ = o.env.Logger.Sync()
	return err
}

// NewRootCommand creates the root command. Without a subcommand it runs
// the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "inspect",
		Short:         "Manage electrical installation safety tests",
		Long:          "Browse and edit installations, safety tests and tasks on the inspection API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", model.DefaultConfigPath(), "config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

func runUI(opts *RootOptions) error {
	p := tea.NewProgram(app.New(opts.env), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

// userError returns the message to print for err.
func userError(err error) error {
	var authErr *api.AuthenticationError
	var opErr *api.OperationFailed
	if errors.As(err, &authErr) || errors.As(err, &opErr) {
		return errors.New(api.UserMessage(err))
	}
	return err
}
