package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"attendance_ledger_bot/internal/domain/audit"
	"attendance_ledger_bot/internal/domain/ledger"

	"github.com/sirupsen/logrus"
)

const lessonFormatHint = "❌ Неверный формат. Нужно: Фамилия Имя [класс цифрой] [предмет] / примечание\n\nПримеры:\n• Петров Петр 5\n• Иванова Анна 7 математика / хорошо подготовилась"

// lessonInput is the parsed form of a teacher's free-text lesson
// message: "Фамилия Имя [класс] [предмет] / примечание".
type lessonInput struct {
	StudentName string
	Class       string
	Subject     string
	Note        string
}

// parseLessonMessage splits a lesson message into its fields. The
// second return is a ready-to-send user-facing error string; it is
// empty when parsing succeeded.
func parseLessonMessage(text string) (*lessonInput, string) {
	studentInfo := strings.TrimSpace(text)
	note := ""
	if idx := strings.Index(text, "/"); idx >= 0 {
		studentInfo = strings.TrimSpace(text[:idx])
		note = strings.TrimSpace(text[idx+1:])
	}

	parts := strings.Fields(studentInfo)
	if len(parts) < 2 {
		return nil, lessonFormatHint
	}

	in := &lessonInput{
		StudentName: parts[0] + " " + parts[1],
		Note:        note,
	}
	if len(parts) > 2 {
		in.Class = parts[2]
	}
	if len(parts) > 3 {
		in.Subject = strings.Join(parts[3:], " ")
	}

	if in.Class != "" {
		n, err := strconv.Atoi(in.Class)
		if err != nil {
			return nil, "❌ Класс должен быть указан цифрой (например: 5, 7, 11)"
		}
		if n < 1 || n > 11 {
			return nil, "❌ Класс должен быть от 1 до 11"
		}
	}
	return in, ""
}

// LessonService turns free-text lesson messages into ledger upserts and
// renders the outcome as a message for the teacher. All internal errors
// stay in the log; users only ever see short result strings.
type LessonService struct {
	ledgers  *LedgerService
	auditLog audit.Repository // nil when the audit trail is disabled
	logger   *logrus.Entry
	now      func() time.Time
}

func NewLessonService(ls *LedgerService, auditLog audit.Repository, logger *logrus.Entry) *LessonService {
	return &LessonService{ledgers: ls, auditLog: auditLog, logger: logger, now: time.Now}
}

// ProcessLessonMessage records one lesson for today's date and returns
// the text to send back to the teacher.
func (s *LessonService) ProcessLessonMessage(ctx context.Context, teacherName, text string) string {
	in, errMsg := parseLessonMessage(text)
	if errMsg != "" {
		return errMsg
	}

	date := s.now().Format(ledger.DateFormat)

	value, err := s.ledgers.RecordAttendance(ctx, teacherName, in.StudentName, in.Class, in.Subject, date, in.Note)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"teacher": teacherName,
			"student": in.StudentName,
			"date":    date,
		}).Error("Failed to record attendance")
		if errors.Is(err, ErrDateColumnMissing) {
			return fmt.Sprintf("❌ В таблице нет колонки для даты %s. Обратитесь к администратору.", date)
		}
		return "❌ Ошибка при добавлении записи. Попробуйте еще раз."
	}

	if s.auditLog != nil {
		event := &audit.Event{
			TeacherName: teacherName,
			StudentKey:  ledger.CompositeKey(in.StudentName, in.Class, in.Subject),
			LessonDate:  date,
			Value:       value,
		}
		if err := s.auditLog.Record(ctx, event); err != nil {
			// The sheet write already succeeded; a missing audit row is
			// not worth failing the teacher's message over.
			s.logger.WithError(err).Warn("Failed to record audit event")
		}
	}

	var b strings.Builder
	b.WriteString("✅ Запись добавлена:\n")
	b.WriteString(fmt.Sprintf("👤 Ученик: %s\n", in.StudentName))
	if in.Class != "" {
		b.WriteString(fmt.Sprintf("📚 Класс: %s\n", in.Class))
	}
	if in.Subject != "" {
		b.WriteString(fmt.Sprintf("📖 Предмет: %s\n", in.Subject))
	}
	b.WriteString(fmt.Sprintf("📅 Дата: %s", date))
	if in.Note != "" {
		b.WriteString(fmt.Sprintf("\n📝 Примечание: %s", in.Note))
	}
	return b.String()
}
