package ledger

import "testing"

func TestCompositeKey(t *testing.T) {
	cases := []struct {
		name, class, subject string
		want                 string
	}{
		{"Петров Петр", "5", "математика", "Петров Петр 5 математика"},
		{"Петров Петр", "5", "", "Петров Петр 5"},
		{"Петров Петр", "", "математика", "Петров Петр математика"},
		{"Петров Петр", "", "", "Петров Петр"},
		{"  Петров Петр  ", " 5 ", "", "Петров Петр 5"},
	}
	for _, c := range cases {
		if got := CompositeKey(c.name, c.class, c.subject); got != c.want {
			t.Fatalf("CompositeKey(%q, %q, %q) = %q, want %q", c.name, c.class, c.subject, got, c.want)
		}
	}
}

func headerValues(dateRow []string) [][]string {
	return [][]string{
		{"Журнал занятий"},
		{"ФИО:", "Иванов Иван Иванович"},
		{"Телефон:", "+79991234567"},
		{},
		{},
		{},
		dateRow,
	}
}

func TestDateColumnExactMatch(t *testing.T) {
	values := headerValues([]string{"", "", "", "", "", "", "01.09.2025", "02.09.2025"})

	col, ok := Default.DateColumn(values, "02.09.2025")
	if !ok {
		t.Fatal("expected date column to be found")
	}
	if col != 8 {
		t.Fatalf("expected column 8, got %d", col)
	}
}

func TestDateColumnParsedFallback(t *testing.T) {
	values := headerValues([]string{"", "", "", "", "", "", "01.09.2025", "02.09.2025"})

	// Non-padded input matches the padded header cell by calendar date.
	col, ok := Default.DateColumn(values, "1.9.2025")
	if !ok {
		t.Fatal("expected non-padded date to match padded header")
	}
	if col != 7 {
		t.Fatalf("expected column 7, got %d", col)
	}
}

func TestDateColumnSkipsUnparsableCells(t *testing.T) {
	values := headerValues([]string{"Ученик", "", "", "", "", "итого", "1.09.2025"})

	col, ok := Default.DateColumn(values, "01.09.2025")
	if !ok {
		t.Fatal("expected date column to be found past unparsable cells")
	}
	if col != 7 {
		t.Fatalf("expected column 7, got %d", col)
	}
}

func TestDateColumnNotFound(t *testing.T) {
	values := headerValues([]string{"", "", "", "", "", "", "01.09.2025"})

	if _, ok := Default.DateColumn(values, "05.05.2030"); ok {
		t.Fatal("expected missing date to report not found")
	}
	if _, ok := Default.DateColumn(values, "не дата"); ok {
		t.Fatal("expected unparsable target to report not found")
	}
}

func TestDateColumnHeaderRowAbsent(t *testing.T) {
	values := [][]string{{"Журнал занятий"}, {}, {}}

	if _, ok := Default.DateColumn(values, "01.09.2025"); ok {
		t.Fatal("expected truncated sheet to report not found")
	}
}

func TestStudentRow(t *testing.T) {
	values := headerValues([]string{"", "", "", "", "", "", "01.09.2025"})
	values = append(values,
		[]string{"Петров Петр 5 математика"},
		[]string{"Иванова Анна 7"},
	)

	row, ok := Default.StudentRow(values, "Иванова Анна 7")
	if !ok || row != 9 {
		t.Fatalf("expected row 9, got %d (found=%v)", row, ok)
	}

	// Case-sensitive: a different case is a different key.
	if _, ok := Default.StudentRow(values, "иванова анна 7"); ok {
		t.Fatal("expected case-sensitive lookup to miss")
	}

	if _, ok := Default.StudentRow(values, "Сидоров Иван"); ok {
		t.Fatal("expected absent key to report not found")
	}

	// Rows above the student range never match, even with equal text.
	headerKeyed := headerValues([]string{"", "", "", "", "", "", "01.09.2025"})
	headerKeyed[0] = []string{"Петров Петр 5"}
	if _, ok := Default.StudentRow(headerKeyed, "Петров Петр 5"); ok {
		t.Fatal("expected header rows to be skipped")
	}
}

func TestFirstInsertionRow(t *testing.T) {
	base := headerValues([]string{"", "", "", "", "", "", "01.09.2025"})

	// Empty ledger: first student slot.
	if row := Default.FirstInsertionRow(base); row != 8 {
		t.Fatalf("expected row 8 on empty ledger, got %d", row)
	}

	// Dense run: one past the last populated row.
	dense := append(copyValues(base), []string{"Петров Петр 5"}, []string{"Иванова Анна 7"})
	if row := Default.FirstInsertionRow(dense); row != 10 {
		t.Fatalf("expected row 10 after dense run, got %d", row)
	}

	// A gap wins over the end of the run.
	gapped := append(copyValues(base), []string{"Петров Петр 5"}, []string{""}, []string{"Иванова Анна 7"})
	if row := Default.FirstInsertionRow(gapped); row != 9 {
		t.Fatalf("expected row 9 at the gap, got %d", row)
	}
}

func copyValues(values [][]string) [][]string {
	out := make([][]string, len(values))
	for i, r := range values {
		out[i] = append([]string(nil), r...)
	}
	return out
}
