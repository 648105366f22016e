package report

import (
	"bytes"
	"encoding/csv"

	"github.com/overtrack/overtrack/pkg/worksheet"
	log "github.com/sirupsen/logrus"
)

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

func (r *CsvRendererImpl) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (r *CsvRendererImpl) Extension() string {
	return "csv"
}

// Render writes the pacing summary, an empty line, then the breakdown table.
func (r *CsvRendererImpl) Render(ws worksheet.Worksheet) ([]byte, error) {
	data := summary(ws)
	data = append(data, []string{})
	data = append(data, header(ws))
	data = append(data, breakdown(ws)...)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return nil, err
	}

	return b.Bytes(), nil
}
