// Package export defines the outbound port for mirroring committed
// transactions to an external spreadsheet, with Google Sheets and in-memory
// implementations in subpackages.
package export

import "context"

// Row is one exported transaction, already formatted for display.
type Row struct {
	Date        string
	Description string
	Kind        string
	Category    string
	Account     string
	Amount      string
}

// RowWriter appends rows to the export target. The returned ref identifies
// where the row landed (a range for sheets, a synthetic id for memory).
type RowWriter interface {
	Append(ctx context.Context, row Row) (ref string, err error)
}
