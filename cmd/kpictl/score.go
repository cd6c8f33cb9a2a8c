package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"workforce/internal/domain/kpi"
)

func newScoreCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "score <inputs.yaml>",
		Short: "Calculate and grade every KPI for an input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := engineFor(cmd)
			if err != nil {
				return err
			}
			_, inputs, err := readInput(args[0])
			if err != nil {
				return err
			}
			results := engine.CalculateAll(inputs)
			scores := engine.GenerateScores(results)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"results": results, "scores": scores})
			}
			return writeScoreTable(cmd, results, scores)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results and scores as JSON")
	return cmd
}

func writeScoreTable(cmd *cobra.Command, results kpi.Results, scores kpi.ScoreReport) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tVALUE\tSCORE\tGRADE\tSTATUS")
	for _, s := range scores.Ordered() {
		value := results[s.Code].Formatted
		if !s.Calculated() {
			value = s.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.Code, value, s.Score, s.Grade, s.Status)
	}
	fmt.Fprintf(tw, "OVERALL\t\t%d\t%s\t%s\n", scores.OverallScore, scores.OverallGrade, scores.Status)
	return tw.Flush()
}
