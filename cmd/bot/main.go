package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance_ledger_bot/internal/app"
	"attendance_ledger_bot/internal/domain/audit"
	"attendance_ledger_bot/internal/domain/ledger"
	"attendance_ledger_bot/internal/domain/teacher"
	"attendance_ledger_bot/internal/infra/config"
	idb "attendance_ledger_bot/internal/infra/database"
	"attendance_ledger_bot/internal/infra/logger"
	"attendance_ledger_bot/internal/infra/scheduler"
	isheets "attendance_ledger_bot/internal/infra/sheets"
	itelegram "attendance_ledger_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.WithField("environment", cfg.Environment).Info("Attendance ledger bot starting...")

	ctx := context.Background()

	// Tabular store: one Google spreadsheet holds the roster and every
	// teacher's ledger sheet.
	sheetStore, err := isheets.NewClient(ctx, cfg.GoogleCredentials, cfg.SpreadsheetID)
	if err != nil {
		log.WithError(err).Fatal("Could not open spreadsheet")
	}
	log.Info("Spreadsheet connection established.")

	roster := isheets.NewRosterRepository(sheetStore, cfg.RosterSheetName, teacher.DefaultRosterLayout)

	ledgerService := app.NewLedgerService(
		sheetStore,
		roster,
		cfg.TemplateSheetName,
		ledger.Default,
		log.WithField("component", "ledger_service"),
	)
	registrationService := app.NewRegistrationService(
		roster,
		ledgerService,
		log.WithField("component", "registration_service"),
	)

	// The audit trail is optional: without DATABASE_URL the bot runs
	// sheet-only and keeps no history of overwritten marks.
	var auditRepo audit.Repository
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("Could not connect to database")
		}
		defer db.Close()
		repo := idb.NewPostgresAuditRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("Could not prepare audit schema")
		}
		auditRepo = repo
		log.Info("Attendance audit trail enabled.")
	} else {
		log.Info("DATABASE_URL not set, attendance audit trail disabled.")
	}

	lessonService := app.NewLessonService(
		ledgerService,
		auditRepo,
		log.WithField("component", "lesson_service"),
	)

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := log.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(map[string]interface{}{
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Telebot handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.WithError(err).Fatal("Could not create Telegram bot")
	}

	itelegram.RegisterHandlers(
		ctx,
		bot,
		registrationService,
		lessonService,
		cfg.AuthorizedChatID,
		log.WithField("component", "telegram_handlers"),
	)
	log.Info("Bot handlers registered.")

	reminderScheduler := scheduler.NewReminderScheduler(
		roster,
		itelegram.NewTelebotAdapter(bot),
		log.WithField("component", "reminder_scheduler"),
		cfg.CronSpecReminder,
	)
	reminderScheduler.Start()

	log.Info("Application setup complete. Bot and scheduler are starting...")
	go bot.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	reminderScheduler.Stop()
	bot.Stop()
	log.Info("Application shut down gracefully.")
}
