package store

import (
	"context"
	"fmt"
)

// ErrSheetNotFound is returned when a named sheet does not exist in the
// spreadsheet. Callers use it for control flow (e.g. to trigger ledger
// provisioning), so it must be matched with errors.Is.
var ErrSheetNotFound = fmt.Errorf("sheet not found")

// Store is the tabular store the ledger engine runs against. Rows and
// columns are 1-based. Values returns a full row-major snapshot; the
// engine re-reads before every write decision, so implementations must
// not serve stale data from a write-through cache.
type Store interface {
	// Sheets returns the titles of all sheets, left to right.
	Sheets(ctx context.Context) ([]string, error)

	// Values returns every populated cell of the named sheet as strings.
	// Trailing empty cells and rows may be absent from the snapshot.
	Values(ctx context.Context, sheet string) ([][]string, error)

	// UpdateCell overwrites a single cell.
	UpdateCell(ctx context.Context, sheet string, row, col int, value string) error

	// UpdateRow overwrites cells starting at column A of the given row.
	UpdateRow(ctx context.Context, sheet string, row int, values []string) error

	// InsertRow shifts rows at and below the given index down by one and
	// writes values into the freed row.
	InsertRow(ctx context.Context, sheet string, row int, values []string) error

	// AppendRow writes values into the first row after the populated range.
	AppendRow(ctx context.Context, sheet string, values []string) error

	// DuplicateSheet copies source into a new sheet with the given title at
	// the given position (0-based; len(Sheets()) inserts rightmost).
	DuplicateSheet(ctx context.Context, source, newName string, index int) error

	// DeleteSheet removes the named sheet.
	DeleteSheet(ctx context.Context, sheet string) error

	// DeleteRow removes one row, shifting the rows below it up.
	DeleteRow(ctx context.Context, sheet string, row int) error
}
