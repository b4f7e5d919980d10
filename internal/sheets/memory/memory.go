package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"budgetbot/internal/core"
	"budgetbot/internal/sheets"
)

var _ sheets.Table = (*Store)(nil)

// Store is an in-process expense table. Row 1 (the header) is implicit, so
// the first appended row is reported as row 2, like the remote sheet.
type Store struct {
	mu   sync.Mutex
	rows []core.Row

	// ReadErr and AppendErr, when set, are returned by the matching call.
	ReadErr   error
	AppendErr error
}

func New(rows ...core.Row) *Store {
	return &Store{rows: append([]core.Row(nil), rows...)}
}

// NewFromFile seeds the store from a tab-separated file with the table's
// column order. Blank lines and lines starting with "#" are skipped; a
// missing file yields an empty store.
func NewFromFile(path string) *Store {
	return New(readRows(path)...)
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return "", s.AppendErr
	}
	s.rows = append(s.rows, e.Row())
	return fmt.Sprintf("mem:%d", len(s.rows)+1), nil
}

// ReadRows returns a copy of every stored row.
func (s *Store) ReadRows(_ context.Context) ([]core.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return append([]core.Row(nil), s.rows...), nil
}

// AppendRow adds a raw row, bypassing validation. Useful for seeding
// malformed data.
func (s *Store) AppendRow(r core.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, r)
}

func readRows(path string) []core.Row {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Row
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, core.RowFromCells(strings.Split(line, "\t")))
	}
	return out
}
