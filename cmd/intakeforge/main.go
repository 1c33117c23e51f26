package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrsinham/intakeforge/internal/config"
	"github.com/mrsinham/intakeforge/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via -ldflags
var version = "dev"

var (
	cfgFile string
	cfg     *config.Config
	logger  = zerolog.Nop()
	logSink io.Closer

	rootCmd = &cobra.Command{
		Use:   "intakeforge",
		Short: "Point-of-care DME intake station",
		Long: `intakeforge runs a patient intake station for durable medical equipment
events: document capture, a seven step intake form, on-screen signatures and a
printable claim packet. The session in progress is saved after every change and
can be resumed after a crash or restart.`,
		PersistentPreRunE:  initConfig,
		PersistentPostRunE: closeLog,
		SilenceUsage:       true,
		RunE:               runWizard,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/intakeforge/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the saved session, packets and log")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().Bool("offline", false, "show the station as offline")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("offline", rootCmd.PersistentFlags().Lookup("offline"))

	addRunFlags(rootCmd)

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	return setupLogging(cmd)
}

// setupLogging logs to the log file while the wizard owns the terminal and
// to stderr otherwise.
func setupLogging(cmd *cobra.Command) error {
	var w io.Writer = os.Stderr
	if ownsTerminal(cmd) {
		f, err := logging.OpenFile(cfg.Logging.File)
		if err != nil {
			return err
		}
		logSink = f
		w = f
	}

	l, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	logger = l.With().Str("version", version).Logger()
	return nil
}

// ownsTerminal reports whether cmd starts the wizard: the root command or run.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "run"
}

func closeLog(_ *cobra.Command, _ []string) error {
	if logSink == nil {
		return nil
	}
	err := logSink.Close()
	logSink = nil
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "intakeforge %s\n", version)
		},
	}
}
