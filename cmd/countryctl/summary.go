package main

import (
	"github.com/spf13/cobra"

	"country-currency-api/pkg/container"
)

// summaryCmd render lại summary image mà không refresh
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Render the summary image",
	Long: `Render the 800x600 summary PNG from the rows currently stored and write it
to SUMMARY_IMAGE_PATH (mirrored to MinIO when enabled).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := container.NewContainer()
		if err != nil {
			return err
		}
		defer c.Cleanup()

		path, err := c.SummaryService.Generate(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd, map[string]string{"image_path": path}, "✓ Summary written to "+path)
	},
}
