package spreadsheet_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/partsdesk/internal/adapters/spreadsheet"
	"github.com/ammerola/partsdesk/internal/core/domain"
)

func productsTable() domain.Table {
	return domain.Table{
		Name:   "Products",
		Header: []string{"id", "partNumber", "name", "price", "notes"},
		Rows: [][]string{
			{"1", "BRK-123", "Brake Pad Set", "35", ""},
			{"2", "FLT-456", "Oil Filter, \"premium\"", "9.5", "line one\nline two"},
		},
	}
}

func TestCSVCodec_RoundTrip(t *testing.T) {
	codec := spreadsheet.CSVCodec{}

	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, []domain.Table{productsTable()}))

	tables, err := codec.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	want := productsTable()
	assert.Equal(t, want.Header, tables[0].Header)
	assert.Equal(t, want.Rows, tables[0].Rows)
}

func TestCSVCodec_Decode(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader []string
		wantRows   int
		wantErr    bool
	}{
		{
			name:       "strips_byte_order_mark",
			input:      "\ufeffpartNumber,name\nBRK-123,Brake Pad Set\n",
			wantHeader: []string{"partNumber", "name"},
			wantRows:   1,
		},
		{
			name:       "ragged_rows",
			input:      "partNumber,name,stock\nBRK-123,Brake Pad Set\nFLT-456,Oil Filter,50,extra\n",
			wantHeader: []string{"partNumber", "name", "stock"},
			wantRows:   2,
		},
		{
			name:       "header_only",
			input:      "partNumber,name\n",
			wantHeader: []string{"partNumber", "name"},
			wantRows:   0,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "bad_quote",
			input:   "partNumber\n\"BRK-123\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := spreadsheet.CSVCodec{}.Decode(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, tables, 1)
			assert.Equal(t, tt.wantHeader, tables[0].Header)
			assert.Len(t, tables[0].Rows, tt.wantRows)
		})
	}
}

func TestCSVCodec_EncodeWritesFirstTableOnly(t *testing.T) {
	var buf bytes.Buffer
	second := domain.Table{Name: "Other", Header: []string{"x"}, Rows: [][]string{{"y"}}}

	require.NoError(t, spreadsheet.CSVCodec{}.Encode(&buf, []domain.Table{productsTable(), second}))
	assert.NotContains(t, buf.String(), "Other")
	assert.True(t, strings.HasPrefix(buf.String(), "id,partNumber,name,price,notes\n"))

	assert.Error(t, spreadsheet.CSVCodec{}.Encode(&buf, nil))
}

func TestXLSXCodec_RoundTrip(t *testing.T) {
	codec := spreadsheet.XLSXCodec{}
	items := domain.Table{
		Name:   "InvoiceItems",
		Header: []string{"id", "invoiceId", "qty"},
		Rows:   [][]string{{"1", "1", "2"}},
	}

	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, []domain.Table{productsTable(), items}))

	tables, err := codec.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, "Products", tables[0].Name)
	assert.Equal(t, productsTable().Header, tables[0].Header)
	require.Len(t, tables[0].Rows, 2)
	assert.Equal(t, "Brake Pad Set", tables[0].Rows[0][2])
	assert.Equal(t, "9.5", tables[0].Rows[1][3])

	assert.Equal(t, "InvoiceItems", tables[1].Name)
	assert.Equal(t, [][]string{{"1", "1", "2"}}, tables[1].Rows)
}

func TestXLSXCodec_DecodeRejectsGarbage(t *testing.T) {
	_, err := spreadsheet.XLSXCodec{}.Decode(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}

func TestCodecs_Metadata(t *testing.T) {
	assert.Equal(t, ".csv", spreadsheet.CSVCodec{}.Extension())
	assert.Equal(t, "text/csv", spreadsheet.CSVCodec{}.ContentType())
	assert.Equal(t, ".xlsx", spreadsheet.XLSXCodec{}.Extension())
	assert.Contains(t, spreadsheet.XLSXCodec{}.ContentType(), "spreadsheetml")
}
