package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
)

type shiftRepository struct {
	q dbtx
}

var _ portsrepo.ShiftRepositoryFacade = (*shiftRepository)(nil)

const shiftColumns = `shift_id, cashier_id, start_time, end_time, float_amount`

func scanShift(row rowScanner) (*domain.Shift, error) {
	var (
		s         domain.Shift
		startTime string
		endTime   sql.NullString
	)
	if err := row.Scan(&s.ShiftID, &s.CashierID, &startTime, &endTime, &s.FloatAmount); err != nil {
		return nil, err
	}
	var err error
	if s.StartTime, err = parseTime(startTime); err != nil {
		return nil, err
	}
	if s.EndTime, err = parseNullTime(endTime); err != nil {
		return nil, err
	}
	s.Status = domain.ShiftActive
	if s.EndTime != nil {
		s.Status = domain.ShiftEnded
	}
	return &s, nil
}

func (r *shiftRepository) findOne(ctx context.Context, what, query string, args ...any) (*domain.Shift, error) {
	shift, err := scanShift(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("shift", what)
		}
		return nil, fmt.Errorf("failed to load shift %s: %w", what, err)
	}
	return shift, nil
}

func (r *shiftRepository) FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	return r.findOne(ctx, shiftID,
		`SELECT `+shiftColumns+` FROM shifts WHERE shift_id = ?`, shiftID)
}

func (r *shiftRepository) FindActiveShiftByCashier(ctx context.Context, cashierID string) (*domain.Shift, error) {
	return r.findOne(ctx, "for cashier "+cashierID,
		`SELECT `+shiftColumns+` FROM shifts WHERE cashier_id = ? AND end_time IS NULL`, cashierID)
}

func (r *shiftRepository) CreateShift(ctx context.Context, shift domain.Shift) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO shifts (shift_id, cashier_id, start_time, end_time, float_amount) VALUES (?, ?, ?, NULL, ?)`,
		shift.ShiftID, shift.CashierID, formatTime(shift.StartTime), shift.FloatAmount)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cashier %s already has an open shift", apperrors.ErrDuplicate, shift.CashierID)
		}
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

func (r *shiftRepository) EndShift(ctx context.Context, shiftID string, endedAt time.Time) (*domain.Shift, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE shifts SET end_time = ? WHERE shift_id = ? AND end_time IS NULL`,
		formatTime(endedAt), shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to end shift: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := r.FindShiftByID(ctx, shiftID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: shift %s has already ended", apperrors.ErrConflict, shiftID)
	}
	return r.FindShiftByID(ctx, shiftID)
}

// LockActiveShift relies on the single connection: inside a transaction nothing
// else can write until it finishes.
func (r *shiftRepository) LockActiveShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	shift, err := r.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsActive() {
		return nil, fmt.Errorf("%w: shift %s has ended", apperrors.ErrConflict, shiftID)
	}
	return shift, nil
}
