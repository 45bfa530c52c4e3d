package zoneio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// EmploymentOptions names the columns of the employment table.
type EmploymentOptions struct {
	IDColumn         string // default "zone_id"
	EmploymentColumn string // default "employment"
}

func (o EmploymentOptions) withDefaults() EmploymentOptions {
	if o.IDColumn == "" {
		o.IDColumn = "zone_id"
	}
	if o.EmploymentColumn == "" {
		o.EmploymentColumn = "employment"
	}
	return o
}

// ReadEmploymentCSV parses a headered CSV employment table into a zone id →
// employment map. A missing id or employment column is the fatal
// data-validation failure, not a skippable condition.
func ReadEmploymentCSV(r io.Reader, opts EmploymentOptions) (map[string]float64, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "zoneio: read employment header")
	}
	idIdx, empIdx, err := columnIndexes(header, opts)
	if err != nil {
		return nil, err
	}

	employment := make(map[string]float64)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "zoneio: read employment row")
		}
		if err := addRecord(employment, record, idIdx, empIdx); err != nil {
			return nil, err
		}
	}
	return employment, nil
}

// ReadEmploymentXLSX parses the first sheet of an XLSX workbook the same way
// ReadEmploymentCSV parses a CSV file.
func ReadEmploymentXLSX(path string, opts EmploymentOptions) (map[string]float64, error) {
	opts = opts.withDefaults()

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "zoneio: open workbook %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("zoneio: workbook %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("zoneio: workbook %s is empty", path)
	}

	header := rowToStrings(sheet.Rows[0])
	idIdx, empIdx, err := columnIndexes(header, opts)
	if err != nil {
		return nil, err
	}

	employment := make(map[string]float64)
	for _, row := range sheet.Rows[1:] {
		if err := addRecord(employment, rowToStrings(row), idIdx, empIdx); err != nil {
			return nil, err
		}
	}
	return employment, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func columnIndexes(header []string, opts EmploymentOptions) (idIdx, empIdx int, err error) {
	idIdx, empIdx = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case strings.ToLower(opts.IDColumn):
			idIdx = i
		case strings.ToLower(opts.EmploymentColumn):
			empIdx = i
		}
	}
	if idIdx < 0 {
		return 0, 0, eris.Errorf("zoneio: id column %q not found", opts.IDColumn)
	}
	if empIdx < 0 {
		return 0, 0, eris.Errorf("zoneio: employment column %q not found", opts.EmploymentColumn)
	}
	return idIdx, empIdx, nil
}

func addRecord(employment map[string]float64, record []string, idIdx, empIdx int) error {
	if idIdx >= len(record) || empIdx >= len(record) {
		return nil // ragged trailing row
	}
	id := strings.TrimSpace(record[idIdx])
	if id == "" {
		return nil
	}
	raw := strings.TrimSpace(record[empIdx])
	if raw == "" {
		employment[id] = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return eris.Wrapf(err, "zoneio: bad employment value %q for zone %s", raw, id)
	}
	employment[id] = v
	return nil
}
