package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"attendance_ledger_bot/internal/domain/store"
	"attendance_ledger_bot/internal/domain/teacher"
)

// ErrProfileNotFound is returned when no roster row matches the lookup.
var ErrProfileNotFound = fmt.Errorf("teacher profile not found")

// Roster sheet columns, 1-based.
const (
	colFullName = 1
	colPhone    = 2
	colTelegram = 3
	colUsername = 4
	colSubject  = 5
	colClasses  = 6
	colDate     = 7
)

// RosterRepository implements teacher.Directory against the shared
// roster sheet. Every lookup re-reads the full sheet; nothing is cached
// between calls.
type RosterRepository struct {
	store     store.Store
	sheetName string
	layout    teacher.RosterLayout
}

var _ teacher.Directory = (*RosterRepository)(nil)

func NewRosterRepository(s store.Store, sheetName string, layout teacher.RosterLayout) *RosterRepository {
	return &RosterRepository{store: s, sheetName: sheetName, layout: layout}
}

// GetByTelegramID matches the Telegram ID column as a trimmed string,
// never numerically, so formatting drift in the sheet cannot produce
// false results.
func (r *RosterRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*teacher.Profile, error) {
	values, err := r.store.Values(ctx, r.sheetName)
	if err != nil {
		return nil, fmt.Errorf("error reading roster sheet: %w", err)
	}
	want := strconv.FormatInt(telegramID, 10)
	for i := r.layout.DataStartRow - 1; i < len(values); i++ {
		if strings.TrimSpace(cellAt(values[i], colTelegram)) == want {
			return profileFromRow(values[i]), nil
		}
	}
	return nil, ErrProfileNotFound
}

func (r *RosterRepository) GetByName(ctx context.Context, fullName string) (*teacher.Profile, error) {
	values, err := r.store.Values(ctx, r.sheetName)
	if err != nil {
		return nil, fmt.Errorf("error reading roster sheet: %w", err)
	}
	want := strings.ToLower(strings.TrimSpace(fullName))
	for i := r.layout.DataStartRow - 1; i < len(values); i++ {
		name := strings.ToLower(strings.TrimSpace(cellAt(values[i], colFullName)))
		if name != "" && name == want {
			return profileFromRow(values[i]), nil
		}
	}
	return nil, ErrProfileNotFound
}

func (r *RosterRepository) ListAll(ctx context.Context) ([]*teacher.Profile, error) {
	values, err := r.store.Values(ctx, r.sheetName)
	if err != nil {
		return nil, fmt.Errorf("error reading roster sheet: %w", err)
	}
	profiles := make([]*teacher.Profile, 0)
	for i := r.layout.DataStartRow - 1; i < len(values); i++ {
		if strings.TrimSpace(cellAt(values[i], colFullName)) == "" {
			continue
		}
		profiles = append(profiles, profileFromRow(values[i]))
	}
	return profiles, nil
}

// Create writes the profile into the first roster row with an empty
// name column at or after the data start row. A free slot before the
// current last row is filled with a row insert, keeping the data run
// gapless; otherwise the profile is appended after the populated range.
func (r *RosterRepository) Create(ctx context.Context, p *teacher.Profile) error {
	values, err := r.store.Values(ctx, r.sheetName)
	if err != nil {
		return fmt.Errorf("error reading roster sheet: %w", err)
	}

	row := len(values) + 1
	if row < r.layout.DataStartRow {
		row = r.layout.DataStartRow
	}
	for i := r.layout.DataStartRow - 1; i < len(values); i++ {
		if strings.TrimSpace(cellAt(values[i], colFullName)) == "" {
			row = i + 1
			break
		}
	}

	rowValues := []string{
		p.FullName,
		p.Phone,
		strconv.FormatInt(p.TelegramID, 10),
		p.Username,
		p.Subject,
		p.ClassGroup,
		p.RegisteredAt,
	}

	if row <= len(values) {
		err = r.store.InsertRow(ctx, r.sheetName, row, rowValues)
	} else {
		err = r.store.AppendRow(ctx, r.sheetName, rowValues)
	}
	if err != nil {
		return fmt.Errorf("error writing roster row %d: %w", row, err)
	}
	return nil
}

func profileFromRow(row []string) *teacher.Profile {
	// The Telegram ID column is free text in the sheet; a cell that does
	// not parse yields a zero ID, which never matches a real lookup.
	id, _ := strconv.ParseInt(strings.TrimSpace(cellAt(row, colTelegram)), 10, 64)
	return &teacher.Profile{
		FullName:     strings.TrimSpace(cellAt(row, colFullName)),
		Phone:        strings.TrimSpace(cellAt(row, colPhone)),
		TelegramID:   id,
		Username:     strings.TrimSpace(cellAt(row, colUsername)),
		Subject:      strings.TrimSpace(cellAt(row, colSubject)),
		ClassGroup:   strings.TrimSpace(cellAt(row, colClasses)),
		RegisteredAt: strings.TrimSpace(cellAt(row, colDate)),
	}
}

func cellAt(row []string, col int) string {
	if col > len(row) {
		return ""
	}
	return row[col-1]
}
