package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/core/services"
)

type RuleServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRuleRepository
	service  portssvc.RuleSvcFacade
	ctx      context.Context
}

func (suite *RuleServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRuleRepository)
	suite.service = services.NewRuleService(suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *RuleServiceTestSuite) TestGetRuleByID_CrossCompanyHidden() {
	rule := &domain.PostingRule{RuleID: "rule-1", CompanyID: "comp-other", RuleCode: "SALES_GST_V1"}
	suite.mockRepo.On("FindRuleByID", suite.ctx, "rule-1").Return(rule, nil).Once()

	result, err := suite.service.GetRuleByID(suite.ctx, "comp-1", "rule-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(result)
}

func (suite *RuleServiceTestSuite) TestListRuleUsage_DefaultLimit() {
	rule := &domain.PostingRule{RuleID: "rule-1", CompanyID: "comp-1", RuleCode: "SALES_GST_V1"}
	logs := []domain.PostingRuleUsageLog{{LogID: "log-1", RuleID: "rule-1"}}
	suite.mockRepo.On("FindRuleByID", suite.ctx, "rule-1").Return(rule, nil).Once()
	suite.mockRepo.On("ListUsageLogsByRule", suite.ctx, "rule-1", 50).Return(logs, nil).Once()

	result, err := suite.service.ListRuleUsage(suite.ctx, "comp-1", "rule-1", 0)

	suite.NoError(err)
	suite.Len(result, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestListRuleUsage_OwnershipCheckedFirst() {
	rule := &domain.PostingRule{RuleID: "rule-1", CompanyID: "comp-other"}
	suite.mockRepo.On("FindRuleByID", suite.ctx, "rule-1").Return(rule, nil).Once()

	result, err := suite.service.ListRuleUsage(suite.ctx, "comp-1", "rule-1", 10)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListUsageLogsByRule", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestGetUsageForSource() {
	logs := []domain.PostingRuleUsageLog{
		{LogID: "log-1", SourceType: "sales_invoice", SourceID: "inv-1001"},
	}
	suite.mockRepo.On("FindUsageLogsBySource", suite.ctx, "sales_invoice", "inv-1001").Return(logs, nil).Once()

	result, err := suite.service.GetUsageForSource(suite.ctx, "sales_invoice", "inv-1001")

	suite.NoError(err)
	suite.Len(result, 1)
	suite.Equal("inv-1001", result[0].SourceID)
}

func TestRuleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RuleServiceTestSuite))
}
