package ledger

// PresentMark is written into a date cell when a lesson is recorded
// without a note.
const PresentMark = "да"

// DateFormat is the canonical date format of the date header row and of
// all dates shown to users.
const DateFormat = "02.01.2006"

// dateParseFormat additionally accepts non-padded day and month
// components ("1.9.2025"), used when comparing header cells by calendar
// date rather than by exact string.
const dateParseFormat = "2.1.2006"

// Layout is the fixed cell geometry of a teacher's ledger sheet. Rows
// and columns are 1-based. All positional knowledge of the ledger lives
// here; a template change is a one-place edit.
type Layout struct {
	NameRow  int // cell holding the teacher's full name
	NameCol  int
	PhoneRow int // cell holding the teacher's phone
	PhoneCol int

	DateHeaderRow   int // row carrying one date per attendance column
	StudentStartRow int // first student entry row
	KeyColumn       int // student composite key (column A)
	NoteColumn      int // most recent note, regardless of date (column F)
}

// Default matches the template sheet the ledgers are cloned from:
// name at B2, phone at B3, dates in row 7, students from row 8.
var Default = Layout{
	NameRow:         2,
	NameCol:         2,
	PhoneRow:        3,
	PhoneCol:        2,
	DateHeaderRow:   7,
	StudentStartRow: 8,
	KeyColumn:       1,
	NoteColumn:      6,
}
