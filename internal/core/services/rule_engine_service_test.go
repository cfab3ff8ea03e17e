package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type RuleEngineTestSuite struct {
	suite.Suite
	mockRuleRepo *MockRuleRepository
	selector     portssvc.RuleSelector
	companyID    string
	eventDate    time.Time
}

func (suite *RuleEngineTestSuite) SetupTest() {
	suite.mockRuleRepo = new(MockRuleRepository)
	suite.selector = services.NewRuleEngineService(suite.mockRuleRepo)
	suite.companyID = uuid.NewString()
	suite.eventDate = time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)
}

func (suite *RuleEngineTestSuite) newRule(code string, priority int, conditions ...domain.RuleCondition) domain.PostingRule {
	return domain.PostingRule{
		RuleID:        uuid.NewString(),
		CompanyID:     suite.companyID,
		RuleCode:      code,
		SourceType:    "sales_invoice",
		TriggerEvent:  "on_submit",
		Conditions:    conditions,
		Priority:      priority,
		FinancialYear: "2025-26",
		EffectiveFrom: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
}

func (suite *RuleEngineTestSuite) TestSelectRule_MostSpecificWins() {
	ctx := context.Background()

	generic := suite.newRule("SALES_GENERIC", 10)
	specific := suite.newRule("SALES_GST", 5,
		domain.RuleCondition{Field: "taxable", Operator: domain.OpTruthy},
	)

	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID, "sales_invoice", "on_submit", "2025-26").
		Return([]domain.PostingRule{generic, specific}, nil).Once()

	eventData := domain.EventData{"taxable": domain.BoolValue(true)}
	rule, err := suite.selector.SelectRule(ctx, suite.companyID, "sales_invoice", "on_submit", eventData, suite.eventDate)

	suite.Require().NoError(err)
	suite.Require().NotNil(rule)
	// One matched condition beats zero, despite the lower priority.
	suite.Equal("SALES_GST", rule.RuleCode)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleEngineTestSuite) TestSelectRule_PriorityBreaksTies() {
	ctx := context.Background()

	low := suite.newRule("SALES_LOW", 1)
	high := suite.newRule("SALES_HIGH", 9)

	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID, "sales_invoice", "on_submit", "2025-26").
		Return([]domain.PostingRule{low, high}, nil).Once()

	rule, err := suite.selector.SelectRule(ctx, suite.companyID, "sales_invoice", "on_submit", domain.EventData{}, suite.eventDate)

	suite.Require().NoError(err)
	suite.Require().NotNil(rule)
	suite.Equal("SALES_HIGH", rule.RuleCode)
}

func (suite *RuleEngineTestSuite) TestSelectRule_EffectiveFromExcludesFutureRules() {
	ctx := context.Background()

	future := suite.newRule("SALES_FUTURE", 10)
	future.EffectiveFrom = time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID, "sales_invoice", "on_submit", "2025-26").
		Return([]domain.PostingRule{future}, nil).Once()

	rule, err := suite.selector.SelectRule(ctx, suite.companyID, "sales_invoice", "on_submit", domain.EventData{}, suite.eventDate)

	suite.Require().NoError(err)
	suite.Nil(rule)
}

func (suite *RuleEngineTestSuite) TestSelectRule_NoRulesIsNormal() {
	ctx := context.Background()

	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID, "sales_invoice", "on_submit", "2025-26").
		Return([]domain.PostingRule{}, nil).Once()

	rule, err := suite.selector.SelectRule(ctx, suite.companyID, "sales_invoice", "on_submit", domain.EventData{}, suite.eventDate)

	suite.NoError(err)
	suite.Nil(rule)
}

func (suite *RuleEngineTestSuite) TestSelectRule_ConditionsFilterCandidates() {
	ctx := context.Background()

	gst := suite.newRule("SALES_GST", 5,
		domain.RuleCondition{Field: "taxType", Operator: domain.OpEquals, Value: domain.StringValue("gst")},
	)

	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID, "sales_invoice", "on_submit", "2025-26").
		Return([]domain.PostingRule{gst}, nil).Once()

	eventData := domain.EventData{"taxType": domain.StringValue("vat")}
	rule, err := suite.selector.SelectRule(ctx, suite.companyID, "sales_invoice", "on_submit", eventData, suite.eventDate)

	suite.NoError(err)
	suite.Nil(rule)
}

func (suite *RuleEngineTestSuite) TestSelectRule_FinancialYearScoping() {
	ctx := context.Background()

	// A posting date in February 2026 still falls in FY 2025-26.
	febDate := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)

	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID, "sales_invoice", "on_submit", "2025-26").
		Return([]domain.PostingRule{}, nil).Once()

	_, err := suite.selector.SelectRule(ctx, suite.companyID, "sales_invoice", "on_submit", domain.EventData{}, febDate)

	suite.NoError(err)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func TestRuleEngineTestSuite(t *testing.T) {
	suite.Run(t, new(RuleEngineTestSuite))
}
