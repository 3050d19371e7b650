package scheduler

import (
	"context"
	"time"

	"attendance_ledger_bot/internal/domain/teacher"
	domainTelegram "attendance_ledger_bot/internal/domain/telegram"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reminderText = "Напоминание: не забудьте отметить сегодняшние занятия. Отправьте сообщение в формате: Фамилия Имя Класс Предмет / примечания"

// ReminderScheduler sends registered teachers a daily reminder to
// record their lessons.
type ReminderScheduler struct {
	cronEngine     *cron.Cron
	directory      teacher.Directory
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
	cronSpec       string
}

func NewReminderScheduler(
	d teacher.Directory,
	tc domainTelegram.Client,
	logger *logrus.Entry,
	cronSpec string, // e.g. "0 18 * * *" (18:00 daily)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:     cron.New(cron.WithLocation(time.Local)),
		directory:      d,
		telegramClient: tc,
		logger:         logger,
		cronSpec:       cronSpec,
	}
}

func (s *ReminderScheduler) Start() {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for daily lesson reminder.")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.sendReminders(ctx)
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add daily reminder cron job")
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Reminder scheduler started.")
}

func (s *ReminderScheduler) sendReminders(ctx context.Context) {
	profiles, err := s.directory.ListAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list teachers for reminders")
		return
	}
	if len(profiles) == 0 {
		s.logger.Info("No registered teachers, no reminders to send.")
		return
	}

	sent := 0
	for _, p := range profiles {
		if p.TelegramID == 0 {
			continue
		}
		if err := s.telegramClient.SendMessage(p.TelegramID, reminderText, nil); err != nil {
			s.logger.WithError(err).WithField("teacher", p.FullName).Warn("Failed to send reminder")
			continue
		}
		sent++
	}
	s.logger.WithFields(logrus.Fields{"teachers": len(profiles), "sent": sent}).Info("Daily reminders sent.")
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // waits for running jobs
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
