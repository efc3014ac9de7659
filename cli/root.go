package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/client"
	"github.com/chupakbra/mmgroups/internal/config"
	clierrors "github.com/chupakbra/mmgroups/internal/errors"
	"github.com/chupakbra/mmgroups/internal/logging"
	"github.com/chupakbra/mmgroups/internal/upgrade"
	"github.com/chupakbra/mmgroups/tui"
)

// version is set at build time via -X github.com/chupakbra/mmgroups/cli.version=<ver>.
var version = "0.3.0"

var (
	// global state resolved in initClient
	groupService    actions.GroupService
	resolvedInstURL string

	// global flags
	flagInstance string
	flagURL      string
	flagToken    string
	flagInsecure bool
	flagOutput   string
	flagTUI      bool
	flagUpgrade  bool
	flagDebug    bool
	flagLogFile  string
)

// newService builds the remote service for an instance. Tests replace it.
var newService = func(inst *config.InstanceConfig) (actions.GroupService, error) {
	c, err := client.New(inst, client.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	return actions.New(c), nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mmgroups",
		Version: version,
		Short:   "A CLI for managing custom user groups on a chat server",
		Long: `mmgroups manages custom user groups on a chat server speaking the
REST API v4: list groups, inspect members, add people and rename groups.

Configure a server with:
  mmgroups instance add work --url https://chat.example.com --token <access token>
  mmgroups instance use work`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagUpgrade {
				return upgrade.New(cmd.OutOrStdout()).Run(cmd.Context(), version)
			}
			if flagTUI {
				return runTUI()
			}
			return cmd.Help()
		},
	}
	rootCmd.SetVersionTemplate("mmgroups {{.Version}}\n")

	// Local flags (root command only)
	rootCmd.Flags().BoolVar(&flagTUI, "tui", false, "launch interactive terminal UI")
	rootCmd.Flags().BoolVar(&flagUpgrade, "upgrade", false, "upgrade mmgroups to the latest release")

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagInstance, "instance", "i", "", "named instance from config (overrides current-instance)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "server URL (e.g. https://chat.example.com), one-shot, no config needed")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "personal access token, used with --url")
	rootCmd.PersistentFlags().BoolVar(&flagInsecure, "insecure", false, "skip TLS certificate verification for --url")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "table", "output format: table or json")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log requests and debug details")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write logs to this file (the TUI logs nowhere otherwise)")

	rootCmd.AddCommand(instanceCmd())
	rootCmd.AddCommand(groupCmd())
	return rootCmd
}

// Execute wires the command tree and runs it.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var logCloser io.Closer

// setupLogging installs the default slog logger. CLI commands log to stderr;
// the TUI owns the terminal and only logs to a file.
func setupLogging(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{}
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if flagDebug {
		level = slog.LevelDebug
	}
	path := flagLogFile
	if path == "" {
		path = cfg.LogFile
	}

	switch {
	case path != "":
		l, closer, err := logging.OpenFile(path, level)
		if err != nil {
			return err
		}
		logCloser = closer
		slog.SetDefault(l)
	case flagTUI:
		slog.SetDefault(logging.Discard())
	default:
		slog.SetDefault(logging.New(stderr, level))
	}
	return nil
}

func runTUI() error {
	if logCloser != nil {
		defer logCloser.Close()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return tui.LaunchTUI(cfg)
}

// initClient is called by command RunE functions that need the remote
// service. It resolves the instance config and builds the service.
func initClient(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Inline flags take precedence over everything when --url is provided
	var inst *config.InstanceConfig
	if flagURL != "" {
		inst = &config.InstanceConfig{
			URL:       flagURL,
			Token:     flagToken,
			VerifyTLS: !flagInsecure,
		}
	} else {
		inst, _, err = cfg.Resolve(flagInstance)
		if err != nil {
			return err
		}
	}
	resolvedInstURL = inst.URL

	svc, err := newService(inst)
	if err != nil {
		return err
	}
	groupService = svc
	slog.Debug("using instance", "url", inst.URL)
	return nil
}

// handleErr maps an error through the error handler with the resolved URL for
// connection error messages. Commands call this in their RunE return.
func handleErr(err error) error {
	return clierrors.Handle(resolvedInstURL, err)
}
