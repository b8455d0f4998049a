package repositories

import (
	"context"
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// ShiftReader defines read operations for shifts
type ShiftReader interface {
	// FindShiftByID returns apperrors.ErrNotFound when the shift does not exist.
	FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error)

	// FindActiveShiftByCashier returns apperrors.ErrNotFound when the cashier has no open shift.
	FindActiveShiftByCashier(ctx context.Context, cashierID string) (*domain.Shift, error)
}

// ShiftWriter defines write operations for shifts
type ShiftWriter interface {
	// CreateShift inserts an active shift. The store's unique index on open shifts per
	// cashier turns a second open shift into apperrors.ErrDuplicate.
	CreateShift(ctx context.Context, shift domain.Shift) error

	// EndShift sets end_time on an open shift in one conditional update.
	// Returns apperrors.ErrNotFound for an unknown shift and apperrors.ErrConflict
	// for a shift that has already ended.
	EndShift(ctx context.Context, shiftID string, endedAt time.Time) (*domain.Shift, error)

	// LockActiveShift locks an open shift row for the rest of the transaction.
	// Same errors as EndShift.
	LockActiveShift(ctx context.Context, shiftID string) (*domain.Shift, error)
}

// ShiftRepositoryFacade combines all shift-related repository interfaces
type ShiftRepositoryFacade interface {
	ShiftReader
	ShiftWriter
}
