package report

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/overtrack/overtrack/pkg/budget"
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/ledger"
	"github.com/overtrack/overtrack/pkg/worksheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var weekStart = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func fortyHours() ledger.Hours {
	var h ledger.Hours
	for i := range h {
		h[i] = decimal.Zero
		if i < 5 {
			h[i] = decimal.NewFromInt(8)
		}
	}
	return h
}

func sampleWorksheet() worksheet.Worksheet {
	hours := fortyHours()
	cost := decimal.NewFromInt(3300)
	entry := ledger.Entry{
		WeekKey: "2026-W03",
		Attribution: ledger.Attribution{
			ManagerName:    "Damian Off",
			SupervisorName: "Rick Adamo",
			EmployeeName:   "John Doe",
		},
		Metadata: ledger.Metadata{Program: "Launch", Location: "N/A", Reason: "N/A"},
		Hours:    hours,
		Cost:     cost,
	}
	return worksheet.Worksheet{
		Week: fiscal.Week{
			Number: fiscal.WeekNumber{Year: 2026, Week: 3},
			Start:  weekStart,
			End:    weekStart.AddDate(0, 0, 6),
		},
		WeeksInYear: 53,
		Pacing:      budget.ComputePacing(3, decimal.NewFromInt(1_000_000), decimal.NewFromInt(4413), cost),
		HasBudget:   true,
		Totals:      ledger.WeekTotals{PerDay: hours, Hours: decimal.NewFromInt(40), Cost: cost},
		Groups: []worksheet.Group{{
			ManagerName:    "Damian Off",
			SupervisorName: "Rick Adamo",
			PerDay:         hours,
			Hours:          decimal.NewFromInt(40),
			Cost:           cost,
			Lines:          []worksheet.Line{{Position: 0, Entry: entry}},
		}},
	}
}

func TestCsvRendererImpl_Render(t *testing.T) {
	tests := []struct {
		name string
		ws   worksheet.Worksheet
		want string
	}{
		{
			name: "week with one supervisor",
			ws:   sampleWorksheet(),
			want: "Week,2026-W03,2026-01-15,2026-01-21\n" +
				"Annual budget,1000000.00\n" +
				"Spent in year,4413.00\n" +
				"Weekly target,19911.74\n" +
				"Week actual,3300.00\n" +
				"Variance,16611.74\n" +
				"\n" +
				"Manager,Supervisor,Employee,Program,Location,Reason,Thu 15/01,Fri 16/01,Sat 17/01,Sun 18/01,Mon 19/01,Tue 20/01,Wed 21/01,Hours,Cost\n" +
				"Damian Off,Rick Adamo,,,,,8,8,8,8,8,0,0,40,3300.00\n" +
				"Damian Off,Rick Adamo,John Doe,Launch,N/A,N/A,8,8,8,8,8,0,0,40,3300.00\n" +
				"Total,,,,,,8,8,8,8,8,0,0,40,3300.00\n",
		},
		{
			name: "empty week",
			ws: worksheet.Worksheet{
				Week:   fiscal.Week{Number: fiscal.WeekNumber{Year: 2026, Week: 3}, Start: weekStart, End: weekStart.AddDate(0, 0, 6)},
				Pacing: budget.ComputePacing(3, decimal.Zero, decimal.Zero, decimal.Zero),
			},
			want: "Week,2026-W03,2026-01-15,2026-01-21\n" +
				"Annual budget,0.00\n" +
				"Spent in year,0.00\n" +
				"Weekly target,0.00\n" +
				"Week actual,0.00\n" +
				"Variance,0.00\n" +
				"\n" +
				"Manager,Supervisor,Employee,Program,Location,Reason,Thu 15/01,Fri 16/01,Sat 17/01,Sun 18/01,Mon 19/01,Tue 20/01,Wed 21/01,Hours,Cost\n" +
				"Total,,,,,,0,0,0,0,0,0,0,0,0.00\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCsvRenderer().Render(tt.ws)

			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestXlsxRendererImpl_Render(t *testing.T) {
	// given
	renderer := NewXlsxRenderer()

	// when
	data, err := renderer.Render(sampleWorksheet())

	// then
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, "2026-W03", rows[0][1])
	assert.Equal(t, "19911.74", rows[3][1])
	assert.Equal(t, "Manager", rows[7][0])
	assert.Equal(t, "John Doe", rows[9][2])
	assert.Equal(t, "40", rows[9][13])
	assert.Equal(t, "3300", rows[10][14])
}

type stubSource struct {
	ws worksheet.Worksheet
}

func (s stubSource) Worksheet() (worksheet.Worksheet, error) {
	return s.ws, nil
}

func (s stubSource) WorksheetAt(offset int) (worksheet.Worksheet, error) {
	return s.ws, nil
}

func TestHandler_Export(t *testing.T) {
	handler := NewHandler(stubSource{ws: sampleWorksheet()}, NewCsvRenderer(), NewXlsxRenderer())

	t.Run("should download csv", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.ExportCSV(w, httptest.NewRequest(http.MethodGet, "/api/export/week.csv", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="overtime-2026-W03.csv"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "John Doe")
	})

	t.Run("should download xlsx", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.ExportXLSX(w, httptest.NewRequest(http.MethodGet, "/api/export/week.xlsx?offset=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="overtime-2026-W03.xlsx"`, w.Header().Get("Content-Disposition"))
		assert.NotEmpty(t, w.Body.Bytes())
	})
}
