package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
)

var (
	// ErrControlTypeRequired rejects control accounts without a party type.
	ErrControlTypeRequired = errors.New("control accounts require a control account type")

	// ErrLegacyPartyFields rejects legacy party accounts missing their party
	// identity.
	ErrLegacyPartyFields = errors.New("legacy party accounts require party type and party id")
)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates and persists a new chart-of-accounts row. The
// normal balance defaults by account type when not supplied; an account
// cannot be both a control account and a legacy party account.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.IsControlAccount && req.IsLegacyParty {
		return nil, fmt.Errorf("%w: account cannot be both control and legacy party", apperrors.ErrValidation)
	}
	if req.IsControlAccount && req.ControlAccountType == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrControlTypeRequired)
	}
	if req.IsLegacyParty && (req.PartyType == "" || req.PartyID == "") {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrLegacyPartyFields)
	}

	normalBalance := domain.DefaultNormalBalance(req.AccountType)
	if req.NormalBalance != nil {
		normalBalance = *req.NormalBalance
	}

	depth := 0
	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("parent account lookup failed: %w", err)
		}
		if parent.CompanyID != companyID {
			return nil, fmt.Errorf("%w: parent account belongs to another company", apperrors.ErrValidation)
		}
		depth = parent.Depth + 1
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:          uuid.NewString(),
		CompanyID:          companyID,
		Code:               req.Code,
		Name:               req.Name,
		AccountType:        req.AccountType,
		SubType:            req.SubType,
		NormalBalance:      normalBalance,
		IsControlAccount:   req.IsControlAccount,
		ControlAccountType: req.ControlAccountType,
		IsLegacyParty:      req.IsLegacyParty,
		PartyType:          req.PartyType,
		PartyID:            req.PartyID,
		IsContra:           req.IsContra,
		OpeningBalance:     req.OpeningBalance,
		CurrentBalance:     req.OpeningBalance,
		ParentAccountID:    req.ParentAccountID,
		Depth:              depth,
		IsActive:           true,
		AuditFields:        domain.NewAuditFields(actor, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves an account, verifying company ownership.
func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountByCode retrieves an account by ledger code.
func (s *accountService) GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, companyID, code)
}

// GetAccountsByCodes retrieves accounts keyed by code; missing codes are
// absent from the result, not an error.
func (s *accountService) GetAccountsByCodes(ctx context.Context, companyID string, codes []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByCodes(ctx, companyID, codes)
}

// ListAccounts retrieves the chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, companyID, includeInactive)
}

// ListControlAccounts retrieves control accounts, optionally filtered by type.
func (s *accountService) ListControlAccounts(ctx context.Context, companyID string, controlType domain.SubledgerType) ([]domain.Account, error) {
	return s.accountRepo.ListControlAccounts(ctx, companyID, controlType)
}

// ListLegacyPartyAccounts retrieves old-regime per-party ledger accounts,
// optionally filtered by party type.
func (s *accountService) ListLegacyPartyAccounts(ctx context.Context, companyID string, partyType domain.SubledgerType) ([]domain.Account, error) {
	return s.accountRepo.ListLegacyPartyAccounts(ctx, companyID, partyType)
}

// UpdateAccount applies the mutable fields. Code, type and regime flags are
// immutable once the account exists; corrections go through a new account.
func (s *accountService) UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.SubType != nil {
		account.SubType = *req.SubType
		updated = true
	}
	if req.IsContra != nil {
		account.IsContra = *req.IsContra
		updated = true
	}
	if !updated {
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actor
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount soft-deletes an account. Historical entries keep
// referencing it; it just stops accepting new lines.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID, accountID, actor string) error {
	if _, err := s.GetAccountByID(ctx, companyID, accountID); err != nil {
		return err
	}
	return s.accountRepo.DeactivateAccount(ctx, accountID, actor, time.Now().UTC())
}
