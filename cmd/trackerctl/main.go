// Command trackerctl is the operator CLI for the time tracking bot.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"time-tracking-bot/config"
	"time-tracking-bot/internal/app"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Operate the time tracking bot: migrations, summaries, sweeps, calendar auth",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default: search ./config, ., /etc/app)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(migrateCmd(flags))
	rootCmd.AddCommand(summaryCmd(flags))
	rootCmd.AddCommand(sweepCmd(flags))
	rootCmd.AddCommand(calendarAuthCmd(flags))

	return rootCmd
}

func (f *rootFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Keep command output readable
	cfg.Logger.Level = "warn"
	if f.verbose {
		cfg.Logger.Level = "debug"
	}
	return cfg, nil
}

func (f *rootFlags) openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, app.NewLogger(cfg))
}
