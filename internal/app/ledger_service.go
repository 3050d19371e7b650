package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"attendance_ledger_bot/internal/domain/ledger"
	"attendance_ledger_bot/internal/domain/store"
	"attendance_ledger_bot/internal/domain/teacher"
	isheets "attendance_ledger_bot/internal/infra/sheets"

	"github.com/sirupsen/logrus"
)

// Application-level errors for the ledger engine.
var ErrLedgerUnavailable = fmt.Errorf("teacher ledger could not be resolved or provisioned")
var ErrDateColumnMissing = fmt.Errorf("ledger has no column for the requested date")

// LedgerService records attendance into per-teacher ledger sheets. It
// re-reads the full sheet before every write decision; the store is the
// sole point of truth, nothing is cached between calls. Upserts for the
// same teacher are serialized in-process by a per-ledger mutex, so two
// concurrent inserts cannot both claim the same free row. Races with
// writers outside this process remain possible.
type LedgerService struct {
	store        store.Store
	directory    teacher.Directory
	templateName string
	layout       ledger.Layout
	logger       *logrus.Entry

	mu      sync.Mutex
	ledgers map[string]*sync.Mutex
}

func NewLedgerService(
	s store.Store,
	d teacher.Directory,
	templateName string,
	layout ledger.Layout,
	logger *logrus.Entry,
) *LedgerService {
	return &LedgerService{
		store:        s,
		directory:    d,
		templateName: templateName,
		layout:       layout,
		logger:       logger,
		ledgers:      make(map[string]*sync.Mutex),
	}
}

func (s *LedgerService) ledgerLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.ledgers[name]
	if !ok {
		lock = &sync.Mutex{}
		s.ledgers[name] = lock
	}
	return lock
}

// GetOrCreateLedger returns the name of the teacher's ledger sheet,
// cloning it from the template on first use. The sheet is named exactly
// after the teacher's full name. A missing roster profile or a rejected
// clone surfaces as ErrLedgerUnavailable.
func (s *LedgerService) GetOrCreateLedger(ctx context.Context, fullName string) (string, error) {
	titles, err := s.store.Sheets(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: listing sheets: %v", ErrLedgerUnavailable, err)
	}
	for _, title := range titles {
		if title == fullName {
			return title, nil
		}
	}

	// No ledger yet: the header cells are seeded from the roster, so the
	// profile has to exist before the clone.
	profile, err := s.directory.GetByName(ctx, fullName)
	if err != nil {
		if errors.Is(err, isheets.ErrProfileNotFound) {
			return "", fmt.Errorf("%w: no roster profile for %q", ErrLedgerUnavailable, fullName)
		}
		return "", fmt.Errorf("%w: roster lookup for %q: %v", ErrLedgerUnavailable, fullName, err)
	}

	s.logger.WithField("teacher", fullName).Info("Provisioning new ledger sheet from template")
	if err := s.store.DuplicateSheet(ctx, s.templateName, profile.FullName, len(titles)); err != nil {
		return "", fmt.Errorf("%w: cloning template for %q: %v", ErrLedgerUnavailable, fullName, err)
	}
	if err := s.store.UpdateCell(ctx, profile.FullName, s.layout.NameRow, s.layout.NameCol, profile.FullName); err != nil {
		return "", fmt.Errorf("%w: seeding name header for %q: %v", ErrLedgerUnavailable, fullName, err)
	}
	if err := s.store.UpdateCell(ctx, profile.FullName, s.layout.PhoneRow, s.layout.PhoneCol, profile.Phone); err != nil {
		return "", fmt.Errorf("%w: seeding phone header for %q: %v", ErrLedgerUnavailable, fullName, err)
	}
	return profile.FullName, nil
}

// RecordAttendance upserts one attendance mark: the cell at (student
// row, date column) receives the note text when present, the presence
// mark otherwise, and the note column always reflects the latest note.
// The call is idempotent per (student key, date): repeating it changes
// cell values, never the row count, and a later note overwrites an
// earlier one. The value written to the date cell is returned.
func (s *LedgerService) RecordAttendance(ctx context.Context, teacherName, studentName, class, subject, date, note string) (string, error) {
	lock := s.ledgerLock(teacherName)
	lock.Lock()
	defer lock.Unlock()

	sheetName, err := s.GetOrCreateLedger(ctx, teacherName)
	if err != nil {
		return "", err
	}

	values, err := s.store.Values(ctx, sheetName)
	if err != nil {
		return "", fmt.Errorf("error reading ledger %q: %w", sheetName, err)
	}

	dateCol, ok := s.layout.DateColumn(values, date)
	if !ok {
		return "", fmt.Errorf("%w: %s in ledger %q", ErrDateColumnMissing, date, sheetName)
	}

	key := ledger.CompositeKey(studentName, class, subject)
	cellValue := ledger.PresentMark
	if note != "" {
		cellValue = note
	}

	logCtx := s.logger.WithFields(logrus.Fields{
		"ledger":      sheetName,
		"student_key": key,
		"date":        date,
	})

	if row, found := s.layout.StudentRow(values, key); found {
		if err := s.store.UpdateCell(ctx, sheetName, row, dateCol, cellValue); err != nil {
			return "", fmt.Errorf("error updating attendance cell: %w", err)
		}
		if note != "" {
			if err := s.store.UpdateCell(ctx, sheetName, row, s.layout.NoteColumn, note); err != nil {
				return "", fmt.Errorf("error updating note cell: %w", err)
			}
		}
		logCtx.WithField("row", row).Info("Attendance mark updated")
		return cellValue, nil
	}

	insertRow := s.layout.FirstInsertionRow(values)
	newRow := make([]string, rowWidth(values, s.layout, dateCol))
	newRow[s.layout.KeyColumn-1] = key
	newRow[dateCol-1] = cellValue
	if note != "" {
		newRow[s.layout.NoteColumn-1] = note
	}
	if err := s.store.UpdateRow(ctx, sheetName, insertRow, newRow); err != nil {
		return "", fmt.Errorf("error writing student row: %w", err)
	}
	logCtx.WithField("row", insertRow).Info("Student row added")
	return cellValue, nil
}

// rowWidth sizes a full-width blank row. The date header row spans all
// attendance columns, so its length bounds the sheet's usable width.
func rowWidth(values [][]string, l ledger.Layout, dateCol int) int {
	width := l.NoteColumn
	if dateCol > width {
		width = dateCol
	}
	if len(values) >= l.DateHeaderRow && len(values[l.DateHeaderRow-1]) > width {
		width = len(values[l.DateHeaderRow-1])
	}
	return width
}
