package mapping

import (
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		CompanyID:          d.CompanyID,
		Code:               d.Code,
		Name:               d.Name,
		AccountType:        string(d.AccountType),
		SubType:            d.SubType,
		NormalBalance:      string(d.NormalBalance),
		IsControlAccount:   d.IsControlAccount,
		ControlAccountType: string(d.ControlAccountType),
		IsLegacyParty:      d.IsLegacyParty,
		PartyType:          string(d.PartyType),
		PartyID:            d.PartyID,
		IsContra:           d.IsContra,
		OpeningBalance:     d.OpeningBalance,
		CurrentBalance:     d.CurrentBalance,
		ParentAccountID:    d.ParentAccountID,
		Depth:              d.Depth,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		CompanyID:          m.CompanyID,
		Code:               m.Code,
		Name:               m.Name,
		AccountType:        domain.AccountType(m.AccountType),
		SubType:            m.SubType,
		NormalBalance:      domain.NormalBalance(m.NormalBalance),
		IsControlAccount:   m.IsControlAccount,
		ControlAccountType: domain.SubledgerType(m.ControlAccountType),
		IsLegacyParty:      m.IsLegacyParty,
		PartyType:          domain.SubledgerType(m.PartyType),
		PartyID:            m.PartyID,
		IsContra:           m.IsContra,
		OpeningBalance:     m.OpeningBalance,
		CurrentBalance:     m.CurrentBalance,
		ParentAccountID:    m.ParentAccountID,
		Depth:              m.Depth,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
