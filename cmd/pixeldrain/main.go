package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/pixeldrain"
	"github.com/adamwoolhether/pixeldrain/client"
	"github.com/adamwoolhether/pixeldrain/internal/config"
)

// app carries what every command needs once flags are parsed.
type app struct {
	configPath  string
	apiKey      string
	progress    string
	concurrency int
	verbose     bool

	cfg    *config.Config
	logger *slog.Logger
	pd     *pixeldrain.Client

	// outMu serializes output lines from concurrent transfers.
	outMu sync.Mutex
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	defaultConfigPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultConfigPath = "./config.toml"
	}

	rootCmd := &cobra.Command{
		Use:           "pixeldrain",
		Short:         "pixeldrain file hosting client",
		Long:          "Upload, download and manage files and lists on pixeldrain.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", defaultConfigPath, "Path to config file")
	flags.StringVar(&a.apiKey, "key", "", "API key (overrides config and "+config.EnvAPIKey+")")
	flags.StringVar(&a.progress, "progress", "bar", "Progress display: bar, log or none")
	flags.IntVar(&a.concurrency, "concurrency", 0, "Concurrent transfers (defaults to config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log every request")

	rootCmd.AddCommand(
		newUploadCmd(a),
		newDownloadCmd(a),
		newInfoCmd(a),
		newRenameCmd(a),
		newRemoveCmd(a),
		newListFilesCmd(a),
		newListCmd(a),
		newWhoamiCmd(a),
		newLoginCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.apiKey != "" {
		cfg.APIKey = a.apiKey
	}
	if a.concurrency != 0 {
		cfg.Concurrency = a.concurrency
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch a.progress {
	case progressBar, progressLog, progressNone:
	default:
		return fmt.Errorf("unknown progress mode %q", a.progress)
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	opts := cfg.ClientOptions(a.logger)
	if a.verbose {
		opts = append(opts, client.WithRequestLogging())
	}

	a.pd, err = pixeldrain.New(opts...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	return nil
}

func (a *app) printf(cmd *cobra.Command, format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()

	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pixeldrain version %s\n", pixeldrain.Version)
		},
	}
}
