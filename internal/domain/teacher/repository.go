package teacher

import (
	"context"
)

// Directory defines the operations for looking up and registering
// teacher profiles in the roster.
type Directory interface {
	// Create writes the profile into the first free roster row. It does
	// not check for duplicates; callers look the Telegram ID up first.
	Create(ctx context.Context, profile *Profile) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*Profile, error)
	// GetByName matches the full name case-insensitively, trimmed.
	GetByName(ctx context.Context, fullName string) (*Profile, error)
	ListAll(ctx context.Context) ([]*Profile, error)
}
