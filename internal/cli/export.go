package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/overtrack/overtrack/pkg/report"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newExportCommand(configPath *string) *cobra.Command {
	var format string
	var output string
	var offset int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the weekly breakdown as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(format)
			if err != nil {
				return err
			}

			deps, err := openTracker(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer closeTracker(deps)

			ws, err := deps.Projector.WorksheetAt(offset)
			if err != nil {
				return err
			}
			data, err := renderer.Render(ws)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = report.Filename(ws, renderer)
			} else if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
				output = filepath.Join(output, report.Filename(ws, renderer))
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			log.Infof("Exported week %s to %s", ws.Week.Key(), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory, - for stdout (default overtime-<week>.<format>)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Week offset from today")
	return cmd
}

func rendererFor(format string) (report.Renderer, error) {
	switch format {
	case "csv":
		return report.NewCsvRenderer(), nil
	case "xlsx":
		return report.NewXlsxRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown export format '%s': must be csv or xlsx", format)
	}
}
