package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxShiftRepository struct {
	BaseRepository
}

var _ portsrepo.ShiftRepositoryFacade = (*PgxShiftRepository)(nil)

const shiftColumns = `shift_id::text, cashier_id, start_time, end_time, float_amount`

func scanShift(row pgx.Row) (*domain.Shift, error) {
	var s domain.Shift
	if err := row.Scan(&s.ShiftID, &s.CashierID, &s.StartTime, &s.EndTime, &s.FloatAmount); err != nil {
		return nil, err
	}
	s.Status = domain.ShiftActive
	if s.EndTime != nil {
		s.Status = domain.ShiftEnded
	}
	return &s, nil
}

func (r *PgxShiftRepository) findOne(ctx context.Context, what, query string, args ...any) (*domain.Shift, error) {
	shift, err := scanShift(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRow(err) {
			return nil, apperrors.NewNotFoundError("shift", what)
		}
		return nil, fmt.Errorf("failed to load shift %s: %w", what, err)
	}
	return shift, nil
}

func (r *PgxShiftRepository) FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	return r.findOne(ctx, shiftID,
		`SELECT `+shiftColumns+` FROM shifts WHERE shift_id = $1`, shiftID)
}

func (r *PgxShiftRepository) FindActiveShiftByCashier(ctx context.Context, cashierID string) (*domain.Shift, error) {
	return r.findOne(ctx, "for cashier "+cashierID,
		`SELECT `+shiftColumns+` FROM shifts WHERE cashier_id = $1 AND end_time IS NULL`, cashierID)
}

// CreateShift leaves the one-open-shift rule to idx_shifts_one_open.
func (r *PgxShiftRepository) CreateShift(ctx context.Context, shift domain.Shift) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO shifts (shift_id, cashier_id, start_time, end_time, float_amount) VALUES ($1, $2, $3, NULL, $4)`,
		shift.ShiftID, shift.CashierID, shift.StartTime, shift.FloatAmount)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cashier %s already has an open shift", apperrors.ErrDuplicate, shift.CashierID)
		}
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

func (r *PgxShiftRepository) EndShift(ctx context.Context, shiftID string, endedAt time.Time) (*domain.Shift, error) {
	shift, err := scanShift(r.q.QueryRow(ctx,
		`UPDATE shifts SET end_time = $2 WHERE shift_id = $1 AND end_time IS NULL RETURNING `+shiftColumns,
		shiftID, endedAt))
	if err == nil {
		return shift, nil
	}
	if !isNoRow(err) {
		return nil, fmt.Errorf("failed to end shift: %w", err)
	}
	if _, err := r.FindShiftByID(ctx, shiftID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: shift %s has already ended", apperrors.ErrConflict, shiftID)
}

// LockActiveShift takes a row lock that EndShift and the cash append's FOR SHARE
// check wait on until the surrounding transaction ends.
func (r *PgxShiftRepository) LockActiveShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	shift, err := r.findOne(ctx, shiftID,
		`SELECT `+shiftColumns+` FROM shifts WHERE shift_id = $1 FOR UPDATE`, shiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsActive() {
		return nil, fmt.Errorf("%w: shift %s has ended", apperrors.ErrConflict, shiftID)
	}
	return shift, nil
}
