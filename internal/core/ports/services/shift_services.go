package services

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ShiftReaderSvc defines read operations for shifts
type ShiftReaderSvc interface {
	GetShift(ctx context.Context, shiftID string) (*domain.Shift, error)
	GetActiveShift(ctx context.Context, cashierID string) (*domain.Shift, error)
}

// ShiftWriterSvc defines the shift lifecycle: none -> active -> ended.
type ShiftWriterSvc interface {
	StartShift(ctx context.Context, cashierID string, floatAmount decimal.Decimal) (*domain.Shift, error)
	EndShift(ctx context.Context, shiftID string, actorID string) (*domain.Shift, error)
}

// ShiftSvcFacade combines all shift service interfaces
type ShiftSvcFacade interface {
	ShiftReaderSvc
	ShiftWriterSvc
}
