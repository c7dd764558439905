// Package memory is an in-process export target used by tests and local
// development runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"moneta/internal/export"
)

type Writer struct {
	mu   sync.Mutex
	rows []export.Row
}

var _ export.RowWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Append(_ context.Context, row export.Row) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, row)
	return fmt.Sprintf("mem:%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []export.Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]export.Row, len(w.rows))
	copy(out, w.rows)
	return out
}
