package dto

import (
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest creates a new chart-of-accounts row.
type CreateAccountRequest struct {
	Code               string                `json:"code" binding:"required"`
	Name               string                `json:"name" binding:"required"`
	AccountType        domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	SubType            string                `json:"subType"`
	NormalBalance      *domain.NormalBalance `json:"normalBalance,omitempty" binding:"omitempty,oneof=DEBIT CREDIT"`
	IsControlAccount   bool                  `json:"isControlAccount"`
	ControlAccountType domain.SubledgerType  `json:"controlAccountType,omitempty" binding:"omitempty,oneof=VENDOR CUSTOMER"`
	IsLegacyParty      bool                  `json:"isLegacyParty"`
	PartyType          domain.SubledgerType  `json:"partyType,omitempty" binding:"omitempty,oneof=VENDOR CUSTOMER"`
	PartyID            string                `json:"partyID,omitempty"`
	IsContra           bool                  `json:"isContra"`
	OpeningBalance     decimal.Decimal       `json:"openingBalance"`
	ParentAccountID    *string               `json:"parentAccountID,omitempty"`
}

// UpdateAccountRequest updates mutable account details.
type UpdateAccountRequest struct {
	Name     *string `json:"name,omitempty"`
	SubType  *string `json:"subType,omitempty"`
	IsContra *bool   `json:"isContra,omitempty"`
}

// AccountResponse is the API shape of one account.
type AccountResponse struct {
	AccountID          string               `json:"accountID"`
	CompanyID          string               `json:"companyID"`
	Code               string               `json:"code"`
	Name               string               `json:"name"`
	AccountType        domain.AccountType   `json:"accountType"`
	SubType            string               `json:"subType,omitempty"`
	NormalBalance      domain.NormalBalance `json:"normalBalance"`
	IsControlAccount   bool                 `json:"isControlAccount"`
	ControlAccountType domain.SubledgerType `json:"controlAccountType,omitempty"`
	IsLegacyParty      bool                 `json:"isLegacyParty"`
	PartyType          domain.SubledgerType `json:"partyType,omitempty"`
	PartyID            string               `json:"partyID,omitempty"`
	IsContra           bool                 `json:"isContra"`
	OpeningBalance     decimal.Decimal      `json:"openingBalance"`
	CurrentBalance     decimal.Decimal      `json:"currentBalance"`
	ParentAccountID    *string              `json:"parentAccountID,omitempty"`
	IsActive           bool                 `json:"isActive"`
}

// ToAccountResponse converts a domain account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          a.AccountID,
		CompanyID:          a.CompanyID,
		Code:               a.Code,
		Name:               a.Name,
		AccountType:        a.AccountType,
		SubType:            a.SubType,
		NormalBalance:      a.NormalBalance,
		IsControlAccount:   a.IsControlAccount,
		ControlAccountType: a.ControlAccountType,
		IsLegacyParty:      a.IsLegacyParty,
		PartyType:          a.PartyType,
		PartyID:            a.PartyID,
		IsContra:           a.IsContra,
		OpeningBalance:     a.OpeningBalance,
		CurrentBalance:     a.CurrentBalance,
		ParentAccountID:    a.ParentAccountID,
		IsActive:           a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
