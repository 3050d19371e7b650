package ledger

import (
	"strings"
	"time"
)

// CompositeKey builds the column-A row key for a student from name,
// class and subject, joined by single spaces with empty fields omitted
// entirely. Two real students sharing name, class and subject collapse
// into one key; the ledger treats them as the same entry. This is a
// known limitation of the key, not something the engine tries to detect.
func CompositeKey(studentName, class, subject string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{studentName, class, subject} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// DateColumn returns the 1-based column of the date header row holding
// targetDate. Exact string match wins; failing that, every header cell
// that parses as DD.MM.YYYY is compared to the parsed target by
// calendar date, so "1.9.2025" finds a header cell "01.09.2025".
// Cells that fail to parse are skipped. The second return is false when
// the snapshot has no date header row or no column matches.
func (l Layout) DateColumn(values [][]string, targetDate string) (int, bool) {
	if len(values) < l.DateHeaderRow {
		return 0, false
	}
	dateRow := values[l.DateHeaderRow-1]
	for i, cell := range dateRow {
		if cell == targetDate {
			return i + 1, true
		}
	}
	target, err := time.Parse(dateParseFormat, targetDate)
	if err != nil {
		return 0, false
	}
	for i, cell := range dateRow {
		if cell == "" || !strings.Contains(cell, ".") {
			continue
		}
		parsed, err := time.Parse(dateParseFormat, cell)
		if err != nil {
			continue
		}
		if parsed.Equal(target) {
			return i + 1, true
		}
	}
	return 0, false
}

// StudentRow returns the 1-based row whose key column equals key
// (trimmed, case-sensitive), scanning from the student start row. A
// false second return is not an error: it tells the caller to take the
// insert path.
func (l Layout) StudentRow(values [][]string, key string) (int, bool) {
	key = strings.TrimSpace(key)
	for i := l.StudentStartRow - 1; i < len(values); i++ {
		row := values[i]
		if len(row) >= l.KeyColumn && strings.TrimSpace(row[l.KeyColumn-1]) == key {
			return i + 1, true
		}
	}
	return 0, false
}

// FirstInsertionRow returns the first row at or after the student start
// row whose key column is empty, or one past the last populated row
// when every slot is taken. Only meaningful after StudentRow reported
// the key absent.
func (l Layout) FirstInsertionRow(values [][]string) int {
	row := l.StudentStartRow
	for i := l.StudentStartRow - 1; i < len(values); i++ {
		if len(values[i]) < l.KeyColumn || strings.TrimSpace(values[i][l.KeyColumn-1]) == "" {
			return i + 1
		}
		row = i + 2
	}
	return row
}
