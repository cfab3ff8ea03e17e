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
	"github.com/finbooks-app/finbooks_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	ctx      context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Code:        "5100",
		Name:        "Office Rent",
		AccountType: domain.Expense,
		SubType:     "OPERATING",
	}
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("comp-1", account.CompanyID)
	suite.Equal("5100", account.Code)
	suite.Equal(domain.NormalDebit, account.NormalBalance)
	suite.Equal(0, account.Depth)
	suite.True(account.IsActive)
	suite.Equal("user-1", account.CreatedBy)
	suite.True(account.CurrentBalance.Equal(account.OpeningBalance))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ExplicitNormalBalanceWins() {
	normal := domain.NormalDebit
	req := dto.CreateAccountRequest{
		Code:          "4900",
		Name:          "Sales Returns",
		AccountType:   domain.Income,
		NormalBalance: &normal,
		IsContra:      true,
	}
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.NoError(err)
	suite.Equal(domain.NormalDebit, account.NormalBalance)
	suite.True(account.IsContra)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ControlAndLegacyConflict() {
	req := dto.CreateAccountRequest{
		Code:               "1200",
		Name:               "Trade Debtors",
		AccountType:        domain.Asset,
		IsControlAccount:   true,
		ControlAccountType: domain.SubledgerCustomer,
		IsLegacyParty:      true,
		PartyType:          domain.SubledgerCustomer,
		PartyID:            "cust-1",
	}

	account, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ControlTypeRequired() {
	req := dto.CreateAccountRequest{
		Code:             "2100",
		Name:             "Trade Creditors",
		AccountType:      domain.Liability,
		IsControlAccount: true,
	}

	_, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "control account")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_LegacyPartyNeedsIdentity() {
	req := dto.CreateAccountRequest{
		Code:          "2150",
		Name:          "Acme Supplies",
		AccountType:   domain.Liability,
		IsLegacyParty: true,
		PartyType:     domain.SubledgerVendor,
	}

	_, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{
		Code:        "4000",
		Name:        "Sales",
		AccountType: domain.Income,
	}
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.ErrorContains(err, "4000")
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentSetsDepth() {
	parentID := "acc-parent"
	parent := &domain.Account{AccountID: parentID, CompanyID: "comp-1", Code: "1000", AccountType: domain.Asset, Depth: 1}
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	req := dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}
	account, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.NoError(err)
	suite.Equal(2, account.Depth)
	suite.Require().NotNil(account.ParentAccountID)
	suite.Equal(parentID, *account.ParentAccountID)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentFromOtherCompany() {
	parentID := "acc-parent"
	parent := &domain.Account{AccountID: parentID, CompanyID: "comp-other", Code: "1000", AccountType: domain.Asset}
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()

	req := dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}
	_, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingParent() {
	parentID := "acc-missing"
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	req := dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}
	_, err := suite.service.CreateAccount(suite.ctx, "comp-1", req, "user-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_CrossCompanyHidden() {
	account := &domain.Account{AccountID: "acc-1", CompanyID: "comp-other", Code: "1000"}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()

	result, err := suite.service.GetAccountByID(suite.ctx, "comp-1", "acc-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(result)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_MutableFields() {
	existing := &domain.Account{AccountID: "acc-1", CompanyID: "comp-1", Code: "5100", Name: "Rent", AccountType: domain.Expense}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Office Rent" && a.SubType == "OPERATING" && a.LastUpdatedBy == "user-2"
	})).Return(nil).Once()

	name := "Office Rent"
	subType := "OPERATING"
	updated, err := suite.service.UpdateAccount(suite.ctx, "comp-1", "acc-1", dto.UpdateAccountRequest{Name: &name, SubType: &subType}, "user-2")

	suite.NoError(err)
	suite.Equal("Office Rent", updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoFieldsIsNoOp() {
	existing := &domain.Account{AccountID: "acc-1", CompanyID: "comp-1", Code: "5100", Name: "Rent"}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(existing, nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, "comp-1", "acc-1", dto.UpdateAccountRequest{}, "user-2")

	suite.NoError(err)
	suite.Equal("Rent", updated.Name)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	existing := &domain.Account{AccountID: "acc-1", CompanyID: "comp-1", Code: "5100", IsActive: true}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(existing, nil).Once()
	suite.mockRepo.On("DeactivateAccount", suite.ctx, "acc-1", "user-2", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, "comp-1", "acc-1", "user-2")

	suite.NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NotFound() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-ghost").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateAccount(suite.ctx, "comp-1", "acc-ghost", "user-2")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountsByCodes_PassThrough() {
	codes := []string{"4000", "2310"}
	found := map[string]domain.Account{
		"4000": {AccountID: "acc-sales", Code: "4000"},
	}
	suite.mockRepo.On("FindAccountsByCodes", suite.ctx, "comp-1", codes).Return(found, nil).Once()

	result, err := suite.service.GetAccountsByCodes(suite.ctx, "comp-1", codes)

	suite.NoError(err)
	suite.Len(result, 1)
	suite.Equal("acc-sales", result["4000"].AccountID)
}

func (suite *AccountServiceTestSuite) TestListLegacyPartyAccounts_PassThrough() {
	legacy := []domain.Account{
		{
			AccountID:     "acc-acme",
			CompanyID:     "comp-1",
			Code:          "2151",
			Name:          "Acme Supplies",
			AccountType:   domain.Liability,
			IsLegacyParty: true,
			PartyType:     domain.SubledgerVendor,
			PartyID:       "vend-acme",
		},
	}
	suite.mockRepo.On("ListLegacyPartyAccounts", suite.ctx, "comp-1", domain.SubledgerVendor).Return(legacy, nil).Once()

	result, err := suite.service.ListLegacyPartyAccounts(suite.ctx, "comp-1", domain.SubledgerVendor)

	suite.NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(domain.ClassLegacyParty, result[0].Classification())
	suite.Equal("vend-acme", result[0].PartyID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
