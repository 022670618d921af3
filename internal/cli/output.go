// internal/cli/output.go
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

// Exit codes by error kind
const (
	ExitError        = 1
	ExitValidation   = 2
	ExitNotFound     = 3
	ExitConstraint   = 4
	ExitInsufficient = 5
	ExitStorage      = 6
)

// ExitCode maps err onto a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmptyInvoice):
		return ExitValidation
	case errors.Is(err, domain.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, domain.ErrConstraintViolation):
		return ExitConstraint
	case errors.Is(err, domain.ErrInsufficientStock):
		return ExitInsufficient
	case errors.Is(err, domain.ErrStorage):
		return ExitStorage
	default:
		return ExitError
	}
}

// FriendlyError renders err for the terminal. Typed errors print their own
// message without the wrapping chain.
func FriendlyError(err error) string {
	var (
		validation *domain.ValidationError
		constraint *domain.ConstraintError
		stock      *domain.InsufficientStockError
		storage    *domain.StorageError
	)

	switch {
	case errors.As(err, &validation):
		return "invalid input: " + validation.Error()
	case errors.As(err, &constraint):
		return constraint.Error()
	case errors.As(err, &stock):
		return stock.Error()
	case errors.Is(err, domain.ErrEmptyInvoice):
		return "the invoice has no lines"
	case errors.As(err, &storage):
		return "the database could not complete the request, nothing was changed (" + storage.Op + ")"
	case errors.Is(err, domain.ErrNotFound):
		return "not found: " + err.Error()
	default:
		return err.Error()
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table prints tab-aligned rows
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	t.row(header...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

func optionalInt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

// parseRef splits a command argument into an id or a free-text key
func parseRef(s string) (int64, string) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return id, ""
	}
	return 0, s
}
