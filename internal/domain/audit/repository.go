package audit

import "context"

// Repository persists attendance audit events, append-only.
type Repository interface {
	Record(ctx context.Context, event *Event) error
	ListByTeacher(ctx context.Context, teacherName string, limit int) ([]*Event, error)
}
