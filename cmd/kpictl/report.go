package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workforce/internal/domain/reports/export"
)

func newReportCmd() *cobra.Command {
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "report <inputs.yaml>",
		Short: "Compose a report and render it as pdf, xlsx, md or json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			report, err := composeFile(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := export.Render(f, report.Downloadable())
			if err != nil {
				return err
			}
			if outPath == "" {
				if f == export.FormatPDF || f == export.FormatXLSX {
					outPath = export.Filename(report.Downloadable(), f)
				} else {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "md", "output format: pdf, xlsx, md, json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout for md and json when empty)")
	return cmd
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before.yaml> <after.yaml>",
		Short: "Show a unified diff between the reports of two input files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := composeFile(cmd, args[0])
			if err != nil {
				return err
			}
			after, err := composeFile(cmd, args[1])
			if err != nil {
				return err
			}
			// Pin the timestamp so only content changes show up.
			after.GeneratedAt = before.GeneratedAt
			diff, err := export.Diff(before.Downloadable(), after.Downloadable(), args[0], args[1])
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "reports are identical")
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), diff)
			return err
		},
	}
}
