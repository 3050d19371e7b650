package sheets

import "testing"

func TestColumnName(t *testing.T) {
	cases := map[int]string{
		1:   "A",
		2:   "B",
		6:   "F",
		26:  "Z",
		27:  "AA",
		28:  "AB",
		52:  "AZ",
		53:  "BA",
		702: "ZZ",
		703: "AAA",
	}
	for col, want := range cases {
		if got := columnName(col); got != want {
			t.Fatalf("columnName(%d) = %q, want %q", col, got, want)
		}
	}
}

func TestQuoteTitle(t *testing.T) {
	if got := quoteTitle("Иванов Иван Иванович"); got != "'Иванов Иван Иванович'" {
		t.Fatalf("unexpected quoted title %q", got)
	}
}
