package teacher

// Profile is one row of the roster sheet. All fields are stored as the
// sheet stores them: strings, with RegisteredAt in DD.MM.YYYY form.
// Profiles are written once at registration and never mutated here.
type Profile struct {
	FullName     string // unique, compared case-insensitively
	Phone        string
	TelegramID   int64 // unique
	Username     string
	Subject      string
	ClassGroup   string // "начальные", "средние" or "старшие"
	RegisteredAt string
}

// RosterLayout is the fixed geometry of the roster sheet: a title and
// header block above a dense run of profile rows.
type RosterLayout struct {
	HeaderRow    int // column headers
	DataStartRow int // first profile row
}

// DefaultRosterLayout matches the shared roster sheet: headers in row 3,
// profiles from row 4.
var DefaultRosterLayout = RosterLayout{
	HeaderRow:    3,
	DataStartRow: 4,
}
