package cmd

import (
	"log/slog"
	"os"
	"time"

	"ocicap/cmd/commands/audit"
	"ocicap/cmd/commands/provision"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var debug bool

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocicap",
		Short: "Provision OCI free-tier instances when capacity allows",
		Long: `ocicap makes single attempts to create an Oracle Cloud free-tier
compute instance, distinguishing transient capacity failures (worth
retrying) from fatal configuration or permission failures (worth
stopping and alerting on).

Each run performs exactly one attempt and exits with a code an
external scheduler can act on:

  0  instance created, or one already exists
  1  capacity or rate-limit issue - retry later
  2  fatal error - fix the configuration before retrying

Quick start:
  ocicap provision run                 # one attempt, using ./oci.env
  ocicap provision run --env-file prod.env
  ocicap audit list                    # review past attempts`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(provision.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

func setupLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
	})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		// Anything that surfaces here failed before or outside an
		// attempt, which is fatal under the exit contract.
		os.Exit(2)
	}
}
