package main

import (
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample <script>",
	Short: "Print the output node's heightmap as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if w, _ := cmd.Flags().GetInt("width"); w > 0 {
			app.cfg.Sample.Width = w
		}
		if h, _ := cmd.Flags().GetInt("height"); h > 0 {
			app.cfg.Sample.Height = h
		}
		res, err := app.EvaluateFile(args[0])
		if err != nil {
			return err
		}
		s, err := app.Sample(res)
		if err != nil {
			return err
		}
		app.logger.Info("sampled", "node", res.Output, "min", s.Min, "max", s.Max)
		return s.WriteCSV(cmd.OutOrStdout())
	},
}

func init() {
	sampleCmd.Flags().Int("width", 0, "Override the configured grid width")
	sampleCmd.Flags().Int("height", 0, "Override the configured grid height")
	rootCmd.AddCommand(sampleCmd)
}
