package database

import (
	"context"
	"database/sql"
	"fmt"

	"attendance_ledger_bot/internal/domain/audit"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresAuditRepository persists attendance audit events. The table
// is append-only: the ledger sheet overwrites marks in place, so these
// rows are the only history of what a cell held before.
type PostgresAuditRepository struct {
	db *sql.DB
}

var _ audit.Repository = (*PostgresAuditRepository)(nil)

func NewPostgresAuditRepository(db *sql.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

// EnsureSchema creates the audit table when it does not exist yet.
func (r *PostgresAuditRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS attendance_events (
                id BIGSERIAL PRIMARY KEY,
                teacher_name TEXT NOT NULL,
                student_key TEXT NOT NULL,
                lesson_date TEXT NOT NULL,
                value TEXT NOT NULL,
                recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
              )`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("error creating attendance_events table: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepository) Record(ctx context.Context, e *audit.Event) error {
	query := `INSERT INTO attendance_events (teacher_name, student_key, lesson_date, value)
               VALUES ($1, $2, $3, $4)
               RETURNING id, recorded_at`

	err := r.db.QueryRowContext(ctx, query, e.TeacherName, e.StudentKey, e.LessonDate, e.Value).
		Scan(&e.ID, &e.RecordedAt)
	if err != nil {
		return fmt.Errorf("error recording attendance event: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepository) ListByTeacher(ctx context.Context, teacherName string, limit int) ([]*audit.Event, error) {
	query := `SELECT id, teacher_name, student_key, lesson_date, value, recorded_at
               FROM attendance_events
               WHERE teacher_name = $1
               ORDER BY recorded_at DESC
               LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, teacherName, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance events: %w", err)
	}
	defer rows.Close()

	events := make([]*audit.Event, 0)
	for rows.Next() {
		e := &audit.Event{}
		if err := rows.Scan(&e.ID, &e.TeacherName, &e.StudentKey, &e.LessonDate, &e.Value, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance event: %w", err)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance events: %w", err)
	}
	return events, nil
}
