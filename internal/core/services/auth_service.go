package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/platform/config"
	"github.com/Africall/sote-minimart/internal/utils"
)

const (
	minPINLength = 4
	maxPINLength = 12
)

// authService issues till tokens against cashier PINs.
type authService struct {
	BaseService
	cfg         *config.Config
	cashierRepo portsrepo.CashierRepositoryFacade
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, cashierRepo portsrepo.CashierRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{
		cfg:         cfg,
		cashierRepo: cashierRepo,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login checks the PIN and returns a signed access token and its expiry.
// Unknown cashiers, inactive cashiers and wrong PINs all fail the same way.
func (s *authService) Login(ctx context.Context, cashierID, pin string) (string, time.Time, error) {
	logger := s.GetLogger(ctx).With(slog.String("cashier_id", cashierID))

	cashier, err := s.cashierRepo.FindCashierByID(ctx, cashierID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login for unknown cashier")
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, fmt.Errorf("failed to load cashier: %w", err)
	}
	if !cashier.IsActive || !utils.PINMatches(pin, cashier.PINHash) {
		logger.Warn("Login rejected")
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.IssueTillToken(cashier.CashierID, s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTExpiryDuration, time.Now())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	logger.Info("Cashier logged in")
	return token, expiresAt, nil
}

// RegisterCashier stores a new cashier with a bcrypt hash of the PIN.
func (s *authService) RegisterCashier(ctx context.Context, cashierID, name, pin string) (*domain.Cashier, error) {
	cashierID = strings.TrimSpace(cashierID)
	name = strings.TrimSpace(name)
	if cashierID == "" || name == "" {
		return nil, apperrors.NewValidationError("cashier ID and name are required")
	}
	if err := validatePIN(pin); err != nil {
		return nil, err
	}

	hash, err := utils.HashPIN(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}
	cashier := domain.Cashier{
		CashierID: cashierID,
		Name:      name,
		PINHash:   hash,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.cashierRepo.SaveCashier(ctx, cashier); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Cashier registered", slog.String("cashier_id", cashierID))
	return &cashier, nil
}

func validatePIN(pin string) error {
	if len(pin) < minPINLength || len(pin) > maxPINLength {
		return apperrors.NewValidationError("PIN must be %d to %d digits", minPINLength, maxPINLength)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return apperrors.NewValidationError("PIN must contain digits only")
		}
	}
	return nil
}
