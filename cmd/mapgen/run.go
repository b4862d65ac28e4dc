package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/mapgen/pkg/graph"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Evaluate a script and report the graph",
	Long: `Evaluates the script, then prints every node with its type, validity,
source wiring and parameters, followed by the graph validation report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		res, err := app.EvaluateFile(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, r := range app.Report(res) {
			state := "valid"
			if !r.Valid {
				state = "invalid"
			}
			marker := " "
			if r.Name == res.Output {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %-16s %-16s %-8s", marker, r.Name, r.Type, state)
			if len(r.Sources) > 0 {
				fmt.Fprintf(w, " <- [%s]", strings.Join(r.Sources, ", "))
			}
			if r.Params != "" {
				fmt.Fprintf(w, " %s", r.Params)
			}
			fmt.Fprintln(w)
		}

		findings := res.Registry.Validate()
		for _, f := range findings {
			fmt.Fprintln(w, f.Error())
		}

		if withMetrics, _ := cmd.Flags().GetBool("metrics"); withMetrics {
			samples, err := app.Metrics()
			if err != nil {
				return err
			}
			for _, s := range samples {
				fmt.Fprintf(w, "%s %g\n", s.Name, s.Value)
			}
		}

		if graph.HasErrors(findings) {
			return fmt.Errorf("graph has %d finding(s)", len(findings))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("metrics", false, "Print collected metrics after the report")
	rootCmd.AddCommand(runCmd)
}
