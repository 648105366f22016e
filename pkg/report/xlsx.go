package report

import (
	"fmt"
	"strconv"

	"github.com/overtrack/overtrack/pkg/worksheet"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Overtime"

type XlsxRendererImpl struct {
}

func NewXlsxRenderer() *XlsxRendererImpl {
	return &XlsxRendererImpl{}
}

func (r *XlsxRendererImpl) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XlsxRendererImpl) Extension() string {
	return "xlsx"
}

// Render lays out the same rows as the CSV export on one sheet. Numeric cells are
// written as numbers. Header, group and total rows are bold.
func (r *XlsxRendererImpl) Render(ws worksheet.Worksheet) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("failed to close workbook: %v", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	row := 1
	for _, values := range summary(ws) {
		if err := writeRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}
	row++

	headerRow := header(ws)
	if err := writeRow(f, row, headerRow); err != nil {
		return nil, err
	}
	if err := styleRow(f, row, len(headerRow), bold); err != nil {
		return nil, err
	}
	row++

	for _, values := range breakdown(ws) {
		if err := writeRow(f, row, values); err != nil {
			return nil, err
		}
		if values[2] == "" {
			if err := styleRow(f, row, len(values), bold); err != nil {
				return nil, err
			}
		}
		row++
	}

	if err := f.SetColWidth(sheetName, "A", "F", 18); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Errorf("Error writing xlsx: %v", err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, 0, len(values))
	for _, v := range values {
		cells = append(cells, cellValue(v))
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func styleRow(f *excelize.File, row, columns int, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, from, to, style)
}

func cellValue(v string) any {
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	return v
}
