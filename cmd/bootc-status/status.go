package main

import (
	"fmt"
	"strings"

	"github.com/onkernel/bootc-status/lib/logger"
	"github.com/onkernel/bootc-status/lib/status"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var (
		format        string
		formatVersion uint32
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Display the staged, booted and rollback deployments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := status.Options{JSON: jsonOutput}
			if cmd.Flags().Changed("format") {
				f, err := status.ParseOutputFormat(format)
				if err != nil {
					return err
				}
				opts.Format = &f
			}
			if cmd.Flags().Changed("format-version") {
				opts.FormatVersion = &formatVersion
			}

			app, cleanup, err := initializeApp()
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			defer cleanup()

			ctx := logger.AddToContext(cmd.Context(), app.Logger)
			return app.Reporter.Status(ctx, opts, cmd.OutOrStdout())
		},
	}

	formats := lo.Map(status.OutputFormats, func(f status.OutputFormat, _ int) string { return string(f) })
	cmd.Flags().StringVar(&format, "format", "", "output format: "+strings.Join(formats, ", "))
	cmd.Flags().Uint32Var(&formatVersion, "format-version", 0, "report format version; only 0 is supported")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format when --format is not given")
	return cmd
}
