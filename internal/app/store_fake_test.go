package app

import (
	"context"
	"sync"

	"attendance_ledger_bot/internal/domain/store"
)

// fakeStore is an in-memory store.Store used to exercise the ledger
// engine and the roster repository without a spreadsheet backend.
type fakeStore struct {
	mu     sync.Mutex
	titles []string
	data   map[string][][]string
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][][]string)}
}

func (f *fakeStore) addSheet(title string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, title)
	f.data[title] = copyRows(rows)
}

func (f *fakeStore) Sheets(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.titles...), nil
}

func (f *fakeStore) Values(ctx context.Context, sheet string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.data[sheet]
	if !ok {
		return nil, store.ErrSheetNotFound
	}
	return copyRows(rows), nil
}

func (f *fakeStore) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[sheet]; !ok {
		return store.ErrSheetNotFound
	}
	f.grow(sheet, row, col)
	f.data[sheet][row-1][col-1] = value
	return nil
}

func (f *fakeStore) UpdateRow(ctx context.Context, sheet string, row int, values []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[sheet]; !ok {
		return store.ErrSheetNotFound
	}
	f.grow(sheet, row, len(values))
	copy(f.data[sheet][row-1], values)
	return nil
}

func (f *fakeStore) InsertRow(ctx context.Context, sheet string, row int, values []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.data[sheet]
	if !ok {
		return store.ErrSheetNotFound
	}
	for len(rows) < row-1 {
		rows = append(rows, []string{})
	}
	rows = append(rows[:row-1], append([][]string{append([]string(nil), values...)}, rows[row-1:]...)...)
	f.data[sheet] = rows
	return nil
}

func (f *fakeStore) AppendRow(ctx context.Context, sheet string, values []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.data[sheet]
	if !ok {
		return store.ErrSheetNotFound
	}
	f.data[sheet] = append(rows, append([]string(nil), values...))
	return nil
}

func (f *fakeStore) DuplicateSheet(ctx context.Context, source, newName string, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.data[source]
	if !ok {
		return store.ErrSheetNotFound
	}
	if index < 0 || index > len(f.titles) {
		index = len(f.titles)
	}
	f.titles = append(f.titles[:index], append([]string{newName}, f.titles[index:]...)...)
	f.data[newName] = copyRows(rows)
	return nil
}

func (f *fakeStore) DeleteSheet(ctx context.Context, sheet string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[sheet]; !ok {
		return store.ErrSheetNotFound
	}
	delete(f.data, sheet)
	for i, t := range f.titles {
		if t == sheet {
			f.titles = append(f.titles[:i], f.titles[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) DeleteRow(ctx context.Context, sheet string, row int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.data[sheet]
	if !ok {
		return store.ErrSheetNotFound
	}
	if row >= 1 && row <= len(rows) {
		f.data[sheet] = append(rows[:row-1], rows[row:]...)
	}
	return nil
}

// cell returns the value at (row, col), empty when out of range.
func (f *fakeStore) cell(sheet string, row, col int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.data[sheet]
	if row > len(rows) || col > len(rows[row-1]) {
		return ""
	}
	return rows[row-1][col-1]
}

func (f *fakeStore) rowCount(sheet string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data[sheet])
}

func (f *fakeStore) grow(sheet string, row, col int) {
	rows := f.data[sheet]
	for len(rows) < row {
		rows = append(rows, []string{})
	}
	for len(rows[row-1]) < col {
		rows[row-1] = append(rows[row-1], "")
	}
	f.data[sheet] = rows
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
