package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/five82/drymix/internal/config"
	"github.com/five82/drymix/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that ffmpeg, ffprobe and the output directories are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(cmd.Context(), deps.ToolRequirements(cfg.Tools.FFmpeg, cfg.Tools.FFprobe))
			var rows [][]string
			for _, s := range statuses {
				detail := s.Version
				if !s.Available {
					detail = s.Detail
				}
				rows = append(rows, []string{s.Name, s.Command, passLabel(s.Available), detail})
			}

			outDir, err := filepath.Abs(filepath.Dir(cfg.Output.Path))
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}
			dirs := []deps.Result{deps.CheckDirectoryAccess("Output directory", outDir)}
			if !cfg.Logging.Disabled {
				logDir, err := config.ExpandPath(cfg.Logging.Dir)
				if err != nil {
					return fmt.Errorf("resolve log directory: %w", err)
				}
				dirs = append(dirs, deps.CheckDirectoryAccess("Log directory", logDir))
			}
			for _, d := range dirs {
				rows = append(rows, []string{d.Name, "", passLabel(d.Passed), d.Detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "Command", "Status", "Detail"}, rows, nil))

			if err := deps.Require(statuses); err != nil {
				return err
			}
			for _, d := range dirs {
				if !d.Passed {
					return errors.New(d.Name + " is not usable: " + d.Detail)
				}
			}
			return nil
		},
	}
}

func passLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "missing"
}
