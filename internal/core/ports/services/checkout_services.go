package services

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/dto"
)

// CheckoutSvcFacade completes sales.
type CheckoutSvcFacade interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (*domain.CheckoutResult, error)
}
