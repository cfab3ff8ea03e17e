package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/core/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockSelector    *MockRuleSelector
	mockResolver    *MockTemplateResolver
	mockBuilder     *MockEntryBuilder
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.PostingSvcFacade
	companyID       string
	actor           string
	rule            domain.PostingRule
	req             dto.PostEventRequest
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockSelector = new(MockRuleSelector)
	suite.mockResolver = new(MockTemplateResolver)
	suite.mockBuilder = new(MockEntryBuilder)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewPostingService(
		suite.mockSelector, suite.mockResolver, suite.mockBuilder,
		suite.mockJournalRepo, suite.mockAccountRepo,
	)

	suite.companyID = uuid.NewString()
	suite.actor = uuid.NewString()
	suite.rule = domain.PostingRule{
		RuleID:   uuid.NewString(),
		RuleCode: "SALES_GST_V1",
		Template: domain.PostingTemplate{NarrationTemplate: "Sales {invoiceNumber}"},
	}
	suite.req = dto.PostEventRequest{
		SourceType:   "sales_invoice",
		SourceID:     "inv-1001",
		TriggerEvent: "on_submit",
		EventDate:    time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC),
		EventData: domain.EventData{
			"invoiceNumber": domain.StringValue("INV-1001"),
			"grandTotal":    domain.NumberFromFloat(11800),
		},
	}
}

func (suite *PostingServiceTestSuite) builtEntry() *domain.JournalEntry {
	debtorsID := uuid.NewString()
	salesID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID:    uuid.NewString(),
		CompanyID:  suite.companyID,
		Status:     domain.Posted,
		TotalDebit: decimal.NewFromInt(11800),
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), AccountID: debtorsID, DebitAmount: decimal.NewFromInt(11800)},
			{LineID: uuid.NewString(), AccountID: salesID, CreditAmount: decimal.NewFromInt(11800)},
		},
	}
}

func accountsByIDFor(entry *domain.JournalEntry) map[string]domain.Account {
	out := make(map[string]domain.Account)
	for i, line := range entry.Lines {
		nb := domain.NormalDebit
		if i%2 == 1 {
			nb = domain.NormalCredit
		}
		out[line.AccountID] = domain.Account{AccountID: line.AccountID, NormalBalance: nb}
	}
	return out
}

func (suite *PostingServiceTestSuite) TestPostEvent_Success() {
	ctx := context.Background()
	entry := suite.builtEntry()
	resolved := []domain.ResolvedLine{{AccountCode: "1200", DebitAmount: decimal.NewFromInt(11800)}}

	suite.mockJournalRepo.On("HasPostedFor", ctx, suite.companyID, "sales_invoice", "inv-1001").Return(false, nil).Once()
	suite.mockSelector.On("SelectRule", ctx, suite.companyID, "sales_invoice", "on_submit", suite.req.EventData, suite.req.EventDate).
		Return(&suite.rule, nil).Once()
	suite.mockResolver.On("Resolve", ctx, suite.rule.Template, suite.req.EventData).Return(resolved).Once()
	suite.mockResolver.On("ResolveNarration", suite.rule.Template.NarrationTemplate, suite.req.EventData).
		Return("Sales INV-1001").Once()
	suite.mockBuilder.On("Build", ctx, mock.MatchedBy(func(p portssvc.BuildParams) bool {
		return p.CompanyID == suite.companyID &&
			p.SourceType == "sales_invoice" &&
			p.SourceID != nil && *p.SourceID == "inv-1001" &&
			p.EntryType == domain.EntryAutoPost &&
			p.AutoPost
	})).Return(entry, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(accountsByIDFor(entry), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, *entry, mock.AnythingOfType("map[string]decimal.Decimal"), mock.AnythingOfType("*domain.PostingRuleUsageLog")).
		Return(entry, nil).Once()

	stored, outcome, err := suite.service.PostEvent(ctx, suite.companyID, suite.req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomePosted, outcome)
	suite.Equal(entry.EntryID, stored.EntryID)

	// The usage log links the rule to the entry it produced.
	saveCall := suite.mockJournalRepo.Calls[len(suite.mockJournalRepo.Calls)-1]
	usage := saveCall.Arguments.Get(3).(*domain.PostingRuleUsageLog)
	suite.Equal(suite.rule.RuleID, usage.RuleID)
	suite.Equal(entry.EntryID, usage.EntryID)
	suite.Equal("inv-1001", usage.SourceID)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockSelector.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostEvent_AlreadyPosted() {
	ctx := context.Background()
	existing := suite.builtEntry()

	suite.mockJournalRepo.On("HasPostedFor", ctx, suite.companyID, "sales_invoice", "inv-1001").Return(true, nil).Once()
	suite.mockJournalRepo.On("FindEntryBySource", ctx, suite.companyID, "sales_invoice", "inv-1001").Return(existing, nil).Once()

	stored, outcome, err := suite.service.PostEvent(ctx, suite.companyID, suite.req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeAlreadyPosted, outcome)
	suite.Equal(existing.EntryID, stored.EntryID)
	suite.mockSelector.AssertNotCalled(suite.T(), "SelectRule")
}

func (suite *PostingServiceTestSuite) TestPostEvent_NoMatchingRule() {
	ctx := context.Background()

	suite.mockJournalRepo.On("HasPostedFor", ctx, suite.companyID, "sales_invoice", "inv-1001").Return(false, nil).Once()
	suite.mockSelector.On("SelectRule", ctx, suite.companyID, "sales_invoice", "on_submit", suite.req.EventData, suite.req.EventDate).
		Return(nil, nil).Once()

	stored, outcome, err := suite.service.PostEvent(ctx, suite.companyID, suite.req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeNoRule, outcome)
	suite.Nil(stored)
	suite.mockBuilder.AssertNotCalled(suite.T(), "Build")
}

func (suite *PostingServiceTestSuite) TestPostEvent_ConcurrentDuplicateIsNoOp() {
	ctx := context.Background()
	entry := suite.builtEntry()
	winner := suite.builtEntry()
	resolved := []domain.ResolvedLine{{AccountCode: "1200", DebitAmount: decimal.NewFromInt(11800)}}

	// The pre-check sees nothing, but a concurrent post wins the insert race.
	suite.mockJournalRepo.On("HasPostedFor", ctx, suite.companyID, "sales_invoice", "inv-1001").Return(false, nil).Once()
	suite.mockSelector.On("SelectRule", ctx, suite.companyID, "sales_invoice", "on_submit", suite.req.EventData, suite.req.EventDate).
		Return(&suite.rule, nil).Once()
	suite.mockResolver.On("Resolve", ctx, suite.rule.Template, suite.req.EventData).Return(resolved).Once()
	suite.mockResolver.On("ResolveNarration", suite.rule.Template.NarrationTemplate, suite.req.EventData).Return("n").Once()
	suite.mockBuilder.On("Build", ctx, mock.AnythingOfType("services.BuildParams")).Return(entry, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(accountsByIDFor(entry), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, *entry, mock.AnythingOfType("map[string]decimal.Decimal"), mock.AnythingOfType("*domain.PostingRuleUsageLog")).
		Return(nil, apperrors.ErrDuplicate).Once()
	suite.mockJournalRepo.On("FindEntryBySource", ctx, suite.companyID, "sales_invoice", "inv-1001").Return(winner, nil).Once()

	stored, outcome, err := suite.service.PostEvent(ctx, suite.companyID, suite.req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeAlreadyPosted, outcome)
	suite.Equal(winner.EntryID, stored.EntryID)
}

func (suite *PostingServiceTestSuite) TestPostEvent_MissingSourceRejected() {
	ctx := context.Background()

	req := suite.req
	req.SourceID = ""
	_, _, err := suite.service.PostEvent(ctx, suite.companyID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "HasPostedFor")
}

func (suite *PostingServiceTestSuite) TestPostEvent_UnbalancedBuildRejected() {
	ctx := context.Background()
	resolved := []domain.ResolvedLine{{AccountCode: "1200", DebitAmount: decimal.NewFromInt(11800)}}

	suite.mockJournalRepo.On("HasPostedFor", ctx, suite.companyID, "sales_invoice", "inv-1001").Return(false, nil).Once()
	suite.mockSelector.On("SelectRule", ctx, suite.companyID, "sales_invoice", "on_submit", suite.req.EventData, suite.req.EventDate).
		Return(&suite.rule, nil).Once()
	suite.mockResolver.On("Resolve", ctx, suite.rule.Template, suite.req.EventData).Return(resolved).Once()
	suite.mockResolver.On("ResolveNarration", suite.rule.Template.NarrationTemplate, suite.req.EventData).Return("n").Once()
	suite.mockBuilder.On("Build", ctx, mock.AnythingOfType("services.BuildParams")).
		Return(nil, services.ErrEntryUnbalanced).Once()

	stored, _, err := suite.service.PostEvent(ctx, suite.companyID, suite.req, suite.actor)

	suite.Nil(stored)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry")
}

func (suite *PostingServiceTestSuite) TestPostEventBestEffort_SwallowsErrors() {
	ctx := context.Background()

	req := suite.req
	req.SourceType = ""

	// Must not panic or propagate; the primary business action goes on.
	suite.service.PostEventBestEffort(ctx, suite.companyID, req, suite.actor)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
