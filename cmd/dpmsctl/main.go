// Command dpmsctl powers displays off after a period of user inactivity and
// back on when the user returns or audio starts playing.
package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/dpmsctl/internal/config"
	"codeberg.org/mutker/dpmsctl/internal/errors"
	"codeberg.org/mutker/dpmsctl/internal/logger"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfg         config.Provider
	configPath  string
	autostarted bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dpmsctl",
		Short: "Power displays off when the user is idle",
		Long: `dpmsctl watches keyboard/mouse idle time and audio output. Displays are
powered off once the user has been idle longer than the timeout with no audio
playing, and powered back on as soon as input resumes or audio starts.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE:              runMonitor,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to the config file")
	config.RegisterFlags(flags)

	// Registered autostart entries launch the binary with --autostart.
	flags.BoolVar(&autostarted, "autostart", false, "Launched at login")
	_ = flags.MarkHidden("autostart")

	addRunFlags(root)
	root.AddCommand(newRunCmd(), newProbeCmd(), newAutostartCmd())

	return root
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(config.WithConfigFile(configPath), config.WithFlags(cmd.Flags()))
	if err != nil {
		return err
	}
	cfg = loaded

	logger.Init(logger.ParseLevel(cfg.GetLogLevel()), logger.IsService() || autostarted)
	logger.Debug().
		Int("timeout", cfg.GetTimeout()).
		Str("log_level", cfg.GetLogLevel()).
		Bool("metrics", cfg.IsMetricsEnabled()).
		Msg("Config loaded")

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// The logger discards until setup has run, so always tell stderr.
		fmt.Fprintln(os.Stderr, "Error:", err)

		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.FatalWithCode(appErr).Msg("Exiting")
		}
		logger.Fatal().Err(err).Msg("Exiting")
		os.Exit(1)
	}
}
