package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/grade"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <file>",
	Short: "Print the grade label resolved from an extracted-text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		res, ok := grade.Resolve(string(data))
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "unresolved")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n", res.Grade, res.Rule)
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <report.json>",
	Short: "Store a report, resolving its grade and composing its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var r model.Report
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("%w: %v", model.ErrMalformedInput, err)
		}

		e, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := e.Ingest(background(cmd), &r)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate [id]",
	Short: "Regenerate the summary of one report, or of every report with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("report id is required unless --all is set")
		}

		e, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		if all {
			res, err := e.RegenerateAll(background(cmd))
			if err != nil {
				return err
			}
			return printBatch(cmd, res)
		}
		s, err := e.RegenerateSummary(background(cmd), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), s)
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill-grades",
	Short: "Re-resolve the grade of every stored report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := e.BackfillGrades(background(cmd))
		if err != nil {
			return err
		}
		return printBatch(cmd, res)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <id>",
	Short: "Print recommendations, venues and parent actions for a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, _ := cmd.Flags().GetString("address")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		current, _ := cmd.Flags().GetStringSlice("current")

		req := engine.RecommendRequest{
			Anchor:            model.Anchor{Address: strings.TrimSpace(address)},
			CurrentActivities: current,
		}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			req.Anchor.Coordinates = &model.Coordinates{Lat: lat, Lng: lng}
		}

		e, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := e.Recommend(background(cmd), args[0], req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func printBatch(cmd *cobra.Command, res *engine.BatchResult) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "total=%d succeeded=%d failed=%d", res.Total, res.Succeeded, res.Failed)
	if res.Updated > 0 {
		fmt.Fprintf(w, " updated=%d", res.Updated)
	}
	fmt.Fprintln(w)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  %s: %v\n", e.ReportID, e.Err)
	}
	return nil
}

func init() {
	regenerateCmd.Flags().Bool("all", false, "regenerate every stored report")

	recommendCmd.Flags().String("address", "", "anchor address for venue matching")
	recommendCmd.Flags().Float64("lat", 0, "anchor latitude")
	recommendCmd.Flags().Float64("lng", 0, "anchor longitude")
	recommendCmd.Flags().StringSlice("current", nil, "activities already underway")

	rootCmd.AddCommand(gradeCmd, ingestCmd, regenerateCmd, backfillCmd, recommendCmd)
}
