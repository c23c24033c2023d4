package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/league-scheduler-api/internal/app"
)

func newGridCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Render division schedule grids",
	}

	var format, output string
	exportCmd := &cobra.Command{
		Use:          "export <divisionId>",
		Short:        "Write a division grid as csv, pdf or xlsx",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				file, err := a.Schedule.ExportGrid(cmd.Context(), args[0], format)
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = file.Filename
				}
				if err := os.WriteFile(path, file.Body, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Printf("wrote %s (%d bytes)\n", path, len(file.Body))
				return nil
			})
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv, pdf or xlsx")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: schedule-<divisionId>.<ext>)")

	cmd.AddCommand(exportCmd)
	return cmd
}
