package main

import (
	"fmt"

	"codeberg.org/mutker/dpmsctl/internal/audio"
	"codeberg.org/mutker/dpmsctl/internal/display"
	"codeberg.org/mutker/dpmsctl/internal/idle"
	"codeberg.org/mutker/dpmsctl/internal/logger"
	"codeberg.org/mutker/dpmsctl/internal/monitor"
	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Print one idle and audio reading and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			source := idle.New(logger.New("idle"))
			defer source.Close()
			raw, err := source.Probe().IdleTime(ctx)
			if err != nil {
				fmt.Fprintf(out, "idle:    %s failed: %v (treated as 0)\n", source.Probe().Name(), err)
			} else {
				fmt.Fprintf(out, "idle:    %s (%s)\n", raw, source.Probe().Name())
			}

			detector := audio.New(ctx, monitor.DefaultAudioThreshold, logger.New("audio"))
			device := detector.Device()
			if device == "" {
				device = "none"
			}
			fmt.Fprintf(out, "audio:   %t (device %s)\n", detector.Query(ctx), device)

			sink := display.New(logger.New("display"))
			defer sink.Close()
			fmt.Fprintf(out, "display: %s\n", sink.Controller().Name())

			return nil
		},
	}
}
