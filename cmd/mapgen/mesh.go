package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var meshCmd = &cobra.Command{
	Use:   "mesh <script>",
	Short: "Mesh the output node to binary STL",
	Long: `Extracts the region where the output node is at or above the iso level
inside the configured bounds and writes it as binary STL. With --terrain the
output is instead treated as a heightfield over the sampling rectangle.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			return fmt.Errorf("--output is required")
		}
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if cells, _ := cmd.Flags().GetInt("cells"); cells > 0 {
			app.cfg.Mesh.Cells = cells
		}
		if cmd.Flags().Changed("iso") {
			app.cfg.Mesh.Iso, _ = cmd.Flags().GetFloat64("iso")
		}
		terrain, _ := cmd.Flags().GetFloat64("terrain")

		res, err := app.EvaluateFile(args[0])
		if err != nil {
			return err
		}
		return app.WriteSTL(res, terrain, out)
	},
}

func init() {
	meshCmd.Flags().StringP("output", "o", "", "STL file to write")
	meshCmd.Flags().Int("cells", 0, "Override the marching cubes resolution")
	meshCmd.Flags().Float64("iso", 0, "Override the iso level")
	meshCmd.Flags().Float64("terrain", 0, "Mesh as a heightfield with this amplitude")
	rootCmd.AddCommand(meshCmd)
}
