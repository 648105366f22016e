package report

import (
	"fmt"
	"net/http"

	"github.com/overtrack/overtrack/pkg/worksheet"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	source worksheet.Source
	csv    Renderer
	xlsx   Renderer
}

func NewHandler(source worksheet.Source, csv Renderer, xlsx Renderer) *Handler {
	return &Handler{source: source, csv: csv, xlsx: xlsx}
}

// ExportCSV godoc
// @Summary Export the week as CSV
// @Tags Export
// @Produce text/csv
// @Param offset query int false "Week offset from today"
// @Success 200 {string} string "CSV file"
// @Router /api/export/week.csv [get]
func (handler *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting week as csv")
	handler.export(w, r, handler.csv)
}

// ExportXLSX godoc
// @Summary Export the week as an Excel workbook
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param offset query int false "Week offset from today"
// @Success 200 {file} file "XLSX file"
// @Router /api/export/week.xlsx [get]
func (handler *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting week as xlsx")
	handler.export(w, r, handler.xlsx)
}

func (handler *Handler) export(w http.ResponseWriter, r *http.Request, renderer Renderer) {
	ws, ok := worksheet.Resolve(w, r, handler.source)
	if !ok {
		return
	}
	data, err := renderer.Render(ws)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(ws, renderer)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Errorf("failed to write export: %v", err)
	}
}
