package services

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// GetAccountsByCodes returns the accounts found, keyed by code; missing
	// codes are absent, not an error.
	GetAccountsByCodes(ctx context.Context, companyID string, codes []string) (map[string]domain.Account, error)

	ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error)
	ListControlAccounts(ctx context.Context, companyID string, controlType domain.SubledgerType) ([]domain.Account, error)

	// ListLegacyPartyAccounts returns the old-regime per-party ledger
	// accounts, optionally filtered by party type.
	ListLegacyPartyAccounts(ctx context.Context, companyID string, partyType domain.SubledgerType) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, companyID, accountID, actor string) error
}
