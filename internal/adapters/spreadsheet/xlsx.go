// internal/adapters/spreadsheet/xlsx.go
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

// XLSXCodec reads and writes workbooks with one sheet per table
type XLSXCodec struct{}

var _ ports.TableCodec = XLSXCodec{}

func (XLSXCodec) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXCodec) Extension() string { return ".xlsx" }

// Encode writes every table as a sheet named after it
func (XLSXCodec) Encode(w io.Writer, tables []domain.Table) error {
	if len(tables) == 0 {
		return errors.New("no table to encode")
	}

	file := xlsx.NewFile()
	for i, t := range tables {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		sheet, err := file.AddSheet(name)
		if err != nil {
			return fmt.Errorf("failed to add worksheet %s: %w", name, err)
		}

		headerRow := sheet.AddRow()
		for _, h := range t.Header {
			cell := headerRow.AddCell()
			cell.SetString(h)
			cell.GetStyle().Font.Bold = true
		}

		for _, row := range t.Rows {
			dataRow := sheet.AddRow()
			for _, v := range row {
				dataRow.AddCell().SetString(v)
			}
		}

		for c := 1; c <= len(t.Header); c++ {
			sheet.SetColWidth(c, c, 15)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Decode reads every sheet. The first row of each sheet is its header.
func (XLSXCodec) Decode(r io.Reader) ([]domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	tables := make([]domain.Table, 0, len(file.Sheets))
	for _, sheet := range file.Sheets {
		t, err := readSheet(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func readSheet(sheet *xlsx.Sheet) (domain.Table, error) {
	t := domain.Table{Name: sheet.Name}
	width := sheet.MaxCol

	err := sheet.ForEachRow(func(r *xlsx.Row) error {
		values := make([]string, width)
		for i := 0; i < width; i++ {
			if c := r.GetCell(i); c != nil {
				values[i] = strings.TrimSpace(c.String())
			}
		}

		if t.Header == nil {
			for len(values) > 0 && values[len(values)-1] == "" {
				values = values[:len(values)-1]
			}
			t.Header = values
			return nil
		}
		t.Rows = append(t.Rows, values)
		return nil
	})
	if err != nil {
		return domain.Table{}, err
	}
	return t, nil
}
