// internal/adapters/spreadsheet/csv.go
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

// CSVCodec reads and writes a single table as comma-separated values
type CSVCodec struct{}

var _ ports.TableCodec = CSVCodec{}

func (CSVCodec) ContentType() string { return "text/csv" }
func (CSVCodec) Extension() string   { return ".csv" }

// Encode writes the first table. Other tables are ignored.
func (CSVCodec) Encode(w io.Writer, tables []domain.Table) error {
	if len(tables) == 0 {
		return errors.New("no table to encode")
	}
	t := tables[0]

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads one table. The first record is the header.
func (CSVCodec) Decode(r io.Reader) ([]domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "has no header row"}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	return []domain.Table{{Header: header, Rows: records[1:]}}, nil
}
