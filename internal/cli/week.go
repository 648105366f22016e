package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/overtrack/overtrack/pkg/worksheet"
	"github.com/spf13/cobra"
)

func newWeekCommand(configPath *string) *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the pacing and supervisor breakdown of a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := openTracker(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer closeTracker(deps)

			ws, err := deps.Projector.WorksheetAt(offset)
			if err != nil {
				return err
			}
			return PrintWorksheet(cmd.OutOrStdout(), ws)
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Week offset from today")
	return cmd
}

// PrintWorksheet writes a plain text rendering of ws.
func PrintWorksheet(out io.Writer, ws worksheet.Worksheet) error {
	p := ws.Pacing
	fmt.Fprintf(out, "Week %s (%s)\n", ws.Week.Key(), ws.Week.Range())
	if ws.HasBudget {
		fmt.Fprintf(out, "Annual budget  %s\n", p.Annual.StringFixed(2))
	} else {
		fmt.Fprintln(out, "Annual budget  not set")
	}
	fmt.Fprintf(out, "Spent in year  %s\n", p.SpentInYear.StringFixed(2))
	fmt.Fprintf(out, "Weekly target  %s\n", p.WeeklyTarget.StringFixed(2))
	fmt.Fprintf(out, "Week actual    %s\n", p.WeekActual.StringFixed(2))
	status := "under target"
	if p.OverTarget() {
		status = "over target"
	}
	fmt.Fprintf(out, "Variance       %s (%s)\n", p.Variance.StringFixed(2), status)

	if len(ws.Groups) == 0 {
		_, err := fmt.Fprintln(out, "\nNo entries this week.")
		return err
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MANAGER\tSUPERVISOR\tEMPLOYEE\tHOURS\tCOST")
	for _, g := range ws.Groups {
		supervisor := g.SupervisorName
		if g.Detached {
			supervisor += " (removed)"
		}
		fmt.Fprintf(tw, "%s\t%s\t\t%s\t%s\n", g.ManagerName, supervisor, g.Hours.String(), g.Cost.StringFixed(2))
		for _, l := range g.Lines {
			fmt.Fprintf(tw, "\t\t%s\t%s\t%s\n", l.Entry.Attribution.EmployeeName, l.Entry.Hours.Total().String(), l.Entry.Cost.StringFixed(2))
		}
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\t%s\n", ws.Totals.Hours.String(), ws.Totals.Cost.StringFixed(2))
	return tw.Flush()
}
