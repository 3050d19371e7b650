package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"attendance_ledger_bot/internal/domain/ledger"
	"attendance_ledger_bot/internal/domain/teacher"
	isheets "attendance_ledger_bot/internal/infra/sheets"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the registration service.
var ErrAlreadyRegistered = fmt.Errorf("teacher with this Telegram ID is already registered")
var ErrInvalidProfile = fmt.Errorf("profile is missing required fields")

// RegistrationService validates and appends teacher profiles to the
// roster and triggers ledger provisioning for new teachers.
type RegistrationService struct {
	directory teacher.Directory
	ledgers   *LedgerService
	logger    *logrus.Entry
}

func NewRegistrationService(d teacher.Directory, ls *LedgerService, logger *logrus.Entry) *RegistrationService {
	return &RegistrationService{directory: d, ledgers: ls, logger: logger}
}

func (s *RegistrationService) IsRegistered(ctx context.Context, telegramID int64) (bool, error) {
	_, err := s.directory.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, isheets.ErrProfileNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check registration: %w", err)
}

// ProfileNameFor returns the registered full name for a Telegram ID.
// The not-found case propagates sheets.ErrProfileNotFound.
func (s *RegistrationService) ProfileNameFor(ctx context.Context, telegramID int64) (string, error) {
	profile, err := s.directory.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return "", err
	}
	return profile.FullName, nil
}

// Register writes the profile into the roster and provisions the
// teacher's ledger. A provisioning failure does not roll the roster row
// back: the teacher stays registered and the next attendance write
// re-attempts the ledger clone.
func (s *RegistrationService) Register(ctx context.Context, profile *teacher.Profile) error {
	if strings.TrimSpace(profile.FullName) == "" || strings.TrimSpace(profile.Phone) == "" || profile.TelegramID == 0 {
		return ErrInvalidProfile
	}

	_, err := s.directory.GetByTelegramID(ctx, profile.TelegramID)
	if err == nil {
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, isheets.ErrProfileNotFound) {
		return fmt.Errorf("failed to check existing registration: %w", err)
	}

	if profile.RegisteredAt == "" {
		profile.RegisteredAt = time.Now().Format(ledger.DateFormat)
	}

	if err := s.directory.Create(ctx, profile); err != nil {
		return fmt.Errorf("failed to create roster row: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"teacher":     profile.FullName,
		"telegram_id": profile.TelegramID,
	}).Info("Teacher registered in roster")

	if _, err := s.ledgers.GetOrCreateLedger(ctx, profile.FullName); err != nil {
		// Registration already succeeded; the teacher just has no ledger
		// until the first attendance write re-creates it.
		s.logger.WithError(err).WithField("teacher", profile.FullName).
			Error("Ledger provisioning failed after registration")
	}
	return nil
}
