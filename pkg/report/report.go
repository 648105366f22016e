// Package report renders a worksheet as a downloadable weekly breakdown.
package report

import (
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/worksheet"
	"github.com/shopspring/decimal"
)

type Renderer interface {
	ContentType() string
	Extension() string
	Render(ws worksheet.Worksheet) ([]byte, error)
}

// Filename is the download name of the worksheet's week, e.g. overtime-2026-W03.csv.
func Filename(ws worksheet.Worksheet, r Renderer) string {
	return "overtime-" + ws.Week.Key() + "." + r.Extension()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func summary(ws worksheet.Worksheet) [][]string {
	return [][]string{
		{"Week", ws.Week.Key(), ws.Week.Start.Format(fiscal.DateLayout), ws.Week.End.Format(fiscal.DateLayout)},
		{"Annual budget", money(ws.Pacing.Annual)},
		{"Spent in year", money(ws.Pacing.SpentInYear)},
		{"Weekly target", money(ws.Pacing.WeeklyTarget)},
		{"Week actual", money(ws.Pacing.WeekActual)},
		{"Variance", money(ws.Pacing.Variance)},
	}
}

func header(ws worksheet.Worksheet) []string {
	row := []string{"Manager", "Supervisor", "Employee", "Program", "Location", "Reason"}
	for _, d := range ws.Week.Days() {
		row = append(row, d.Format("Mon 02/01"))
	}
	return append(row, "Hours", "Cost")
}

// breakdown lists each supervisor group followed by its entries, then the week total.
// Group rows leave the employee columns empty.
func breakdown(ws worksheet.Worksheet) [][]string {
	rows := make([][]string, 0)
	for _, g := range ws.Groups {
		row := []string{g.ManagerName, g.SupervisorName, "", "", "", ""}
		for _, h := range g.PerDay {
			row = append(row, h.String())
		}
		rows = append(rows, append(row, g.Hours.String(), money(g.Cost)))

		for _, l := range g.Lines {
			e := l.Entry
			row := []string{e.Attribution.ManagerName, e.Attribution.SupervisorName, e.Attribution.EmployeeName,
				e.Metadata.Program, e.Metadata.Location, e.Metadata.Reason}
			for _, h := range e.Hours {
				row = append(row, h.String())
			}
			rows = append(rows, append(row, e.Hours.Total().String(), money(e.Cost)))
		}
	}

	total := []string{"Total", "", "", "", "", ""}
	for _, h := range ws.Totals.PerDay {
		total = append(total, h.String())
	}
	return append(rows, append(total, ws.Totals.Hours.String(), money(ws.Totals.Cost)))
}
