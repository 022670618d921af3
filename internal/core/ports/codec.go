// internal/core/ports/codec.go
package ports

import (
	"io"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

// TableCodec reads and writes tables in one file format.
// Formats holding a single grid encode only the first table.
type TableCodec interface {
	Encode(w io.Writer, tables []domain.Table) error
	Decode(r io.Reader) ([]domain.Table, error)
	ContentType() string
	Extension() string
}
