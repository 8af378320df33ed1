package main

import (
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/dpmsctl/internal/audio"
	"codeberg.org/mutker/dpmsctl/internal/display"
	"codeberg.org/mutker/dpmsctl/internal/errors"
	"codeberg.org/mutker/dpmsctl/internal/idle"
	"codeberg.org/mutker/dpmsctl/internal/logger"
	"codeberg.org/mutker/dpmsctl/internal/metrics"
	"codeberg.org/mutker/dpmsctl/internal/monitor"
	"codeberg.org/mutker/dpmsctl/internal/pid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var interactive bool

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"Read start/stop/status/quit commands from stdin")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monitor until interrupted (default)",
		RunE:  runMonitor,
	}
	addRunFlags(cmd)
	return cmd
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	errFactory := errors.New()

	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsCfg := metrics.DefaultConfig(cfg.GetMetricsDBPath())
	metricsCfg.Enabled = cfg.IsMetricsEnabled()
	collector, err := metrics.NewService(metricsCfg, logger.New("metrics"))
	if err != nil {
		return errFactory.Wrap(errors.ErrInitMetrics, err)
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close metrics")
		}
	}()

	idleSource := idle.New(logger.New("idle"))
	defer idleSource.Close()

	sink := display.New(logger.New("display"))
	defer sink.Close()

	m := monitor.New(
		idleSource,
		audio.New(ctx, monitor.DefaultAudioThreshold, logger.New("audio")),
		sink,
		monitor.WithLogger(logger.New("monitor")),
		monitor.WithObserver(metrics.Observer(ctx, collector, logger.New("metrics"))),
	)

	g, gctx := errgroup.WithContext(ctx)

	m.Start(gctx, cfg.GetTimeout())

	if interactive {
		g.Go(func() error {
			return control(gctx, m, os.Stdin, cmd.OutOrStdout())
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		m.Stop()
		return nil
	})

	err = g.Wait()
	if errors.Is(err, errQuit) {
		err = nil
	}

	status := m.Status()
	logger.Info().
		Str("state", status.State.String()).
		Msg("Exiting...")

	return err
}
