package audit

import "time"

// Event is one successful attendance write. The ledger sheet keeps no
// history (a later note overwrites an earlier one in place), so the
// audit trail is the only record of overwritten marks.
type Event struct {
	ID          int64
	TeacherName string
	StudentKey  string
	LessonDate  string // DD.MM.YYYY, as written to the date header column
	Value       string // the cell value written: presence mark or note text
	RecordedAt  time.Time
}
