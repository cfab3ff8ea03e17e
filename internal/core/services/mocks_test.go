package services_test

import (
	"context"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, companyID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListControlAccounts(ctx context.Context, companyID string, controlType domain.SubledgerType) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, controlType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListLegacyPartyAccounts(ctx context.Context, companyID string, partyType domain.SubledgerType) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, partyType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, actor string, now time.Time) error {
	args := m.Called(ctx, accountID, actor, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, actor string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, actor, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindEntryBySource(ctx context.Context, companyID, sourceType, sourceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) HasPostedFor(ctx context.Context, companyID, sourceType, sourceID string) (bool, error) {
	args := m.Called(ctx, companyID, sourceType, sourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		t := args.Get(1).(string)
		token = &t
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, usage *domain.PostingRuleUsageLog) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, balanceChanges, usage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveReversalEntry(ctx context.Context, reversal domain.JournalEntry, originalEntryID string, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	args := m.Called(ctx, reversal, originalEntryID, balanceChanges)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) MarkEntryPosted(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal, actor string, now time.Time) error {
	args := m.Called(ctx, entryID, balanceChanges, actor, now)
	return args.Error(0)
}

// --- Mock RuleRepository ---

type MockRuleRepository struct {
	mock.Mock
}

var _ portsrepo.RuleRepositoryFacade = (*MockRuleRepository)(nil)

func (m *MockRuleRepository) ListActiveRules(ctx context.Context, companyID, sourceType, triggerEvent, financialYear string) ([]domain.PostingRule, error) {
	args := m.Called(ctx, companyID, sourceType, triggerEvent, financialYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingRule), args.Error(1)
}

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.PostingRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRule), args.Error(1)
}

func (m *MockRuleRepository) ListRules(ctx context.Context, companyID string, sourceType string) ([]domain.PostingRule, error) {
	args := m.Called(ctx, companyID, sourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingRule), args.Error(1)
}

func (m *MockRuleRepository) ListUsageLogsByRule(ctx context.Context, ruleID string, limit int) ([]domain.PostingRuleUsageLog, error) {
	args := m.Called(ctx, ruleID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingRuleUsageLog), args.Error(1)
}

func (m *MockRuleRepository) FindUsageLogsBySource(ctx context.Context, sourceType, sourceID string) ([]domain.PostingRuleUsageLog, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingRuleUsageLog), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetActivityTotalsAsOf(ctx context.Context, companyID string, asOf time.Time) (map[string]domain.ActivityTotal, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ActivityTotal), args.Error(1)
}

func (m *MockReportingRepository) GetActivityTotalsBetween(ctx context.Context, companyID string, from, to time.Time) (map[string]domain.ActivityTotal, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ActivityTotal), args.Error(1)
}

func (m *MockReportingRepository) GetActivityTotalBefore(ctx context.Context, companyID, accountID string, before time.Time) (domain.ActivityTotal, error) {
	args := m.Called(ctx, companyID, accountID, before)
	return args.Get(0).(domain.ActivityTotal), args.Error(1)
}

func (m *MockReportingRepository) GetAccountLedgerLines(ctx context.Context, companyID, accountID string, from, to time.Time) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, companyID, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockReportingRepository) GetSubledgerLines(ctx context.Context, companyID string, partyType domain.SubledgerType, asOf time.Time) ([]domain.SubledgerLine, error) {
	args := m.Called(ctx, companyID, partyType, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubledgerLine), args.Error(1)
}

func (m *MockReportingRepository) GetPartyLedgerLines(ctx context.Context, companyID string, partyType domain.SubledgerType, partyID string, from, to time.Time) ([]domain.SubledgerLine, error) {
	args := m.Called(ctx, companyID, partyType, partyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubledgerLine), args.Error(1)
}

// --- Mock RuleSelector ---

type MockRuleSelector struct {
	mock.Mock
}

var _ portssvc.RuleSelector = (*MockRuleSelector)(nil)

func (m *MockRuleSelector) SelectRule(ctx context.Context, companyID, sourceType, triggerEvent string, eventData domain.EventData, date time.Time) (*domain.PostingRule, error) {
	args := m.Called(ctx, companyID, sourceType, triggerEvent, eventData, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRule), args.Error(1)
}

// --- Mock TemplateResolver ---

type MockTemplateResolver struct {
	mock.Mock
}

var _ portssvc.TemplateResolver = (*MockTemplateResolver)(nil)

func (m *MockTemplateResolver) Resolve(ctx context.Context, template domain.PostingTemplate, eventData domain.EventData) []domain.ResolvedLine {
	args := m.Called(ctx, template, eventData)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.ResolvedLine)
}

func (m *MockTemplateResolver) ResolveNarration(template string, eventData domain.EventData) string {
	args := m.Called(template, eventData)
	return args.String(0)
}

// --- Mock EntryBuilder ---

type MockEntryBuilder struct {
	mock.Mock
}

var _ portssvc.EntryBuilder = (*MockEntryBuilder)(nil)

func (m *MockEntryBuilder) Build(ctx context.Context, params portssvc.BuildParams) (*domain.JournalEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
