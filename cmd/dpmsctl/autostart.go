package main

import (
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/mutker/dpmsctl/internal/autostart"
	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/spf13/cobra"
)

func newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launch at login",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Launch dpmsctl at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := autostart.New()
				if err != nil {
					return err
				}
				path, err := executable()
				if err != nil {
					return err
				}
				if err := m.Enable(cfg.GetAppName(), path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "autostart enabled for %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop launching dpmsctl at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := autostart.New()
				if err != nil {
					return err
				}
				if err := m.Disable(cfg.GetAppName()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether launch at login is enabled",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := autostart.New()
				if err != nil {
					return err
				}
				state := "disabled"
				if m.IsEnabled(cfg.GetAppName()) {
					state = "enabled"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "autostart %s\n", state)
				return nil
			},
		},
	)

	return cmd
}

func executable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", errors.New().Wrap(errors.ErrResourceNotFound, err)
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return path, nil
}
