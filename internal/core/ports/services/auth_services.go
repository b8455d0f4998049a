package services

import (
	"context"
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// AuthSvcFacade resolves a cashier's identity at the till.
type AuthSvcFacade interface {
	Login(ctx context.Context, cashierID, pin string) (string, time.Time, error)
	RegisterCashier(ctx context.Context, cashierID, name, pin string) (*domain.Cashier, error)
}
