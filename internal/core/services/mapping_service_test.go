package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/core/services"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
)

type MappingServiceTestSuite struct {
	suite.Suite
	mockMappingRepo *MockEventMappingRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.MappingSvcFacade
	ctx             context.Context
}

func (suite *MappingServiceTestSuite) SetupTest() {
	suite.mockMappingRepo = new(MockEventMappingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewMappingService(suite.mockMappingRepo, suite.mockAccountRepo)
	suite.ctx = context.Background()
}

func (suite *MappingServiceTestSuite) activeAccounts() map[string]domain.Account {
	now := time.Now().UTC()
	return map[string]domain.Account{
		"1002": {Code: "1002", Name: "Cash at Hand", Type: domain.Asset, IsActive: true, CreatedAt: now, UpdatedAt: now},
		"2001": {Code: "2001", Name: "Member Savings", Type: domain.Liability, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
}

func (suite *MappingServiceTestSuite) TestResolveReturnsMapping() {
	mapping := &domain.EventMapping{EventName: "SAVINGS_DEPOSIT", DebitAccountCode: "1002", CreditAccountCode: "2001"}
	suite.mockMappingRepo.On("FindByEventName", suite.ctx, "SAVINGS_DEPOSIT").Return(mapping, nil)

	found, err := suite.service.Resolve(suite.ctx, "SAVINGS_DEPOSIT")

	suite.Require().NoError(err)
	suite.Equal("1002", found.DebitAccountCode)
	suite.Equal("2001", found.CreditAccountCode)
}

func (suite *MappingServiceTestSuite) TestResolveUnmappedEvent() {
	suite.mockMappingRepo.On("FindByEventName", suite.ctx, "NOT_A_THING").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.Resolve(suite.ctx, "NOT_A_THING")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEventNotMapped)
}

func (suite *MappingServiceTestSuite) TestUpsertMappingSuccess() {
	suite.mockAccountRepo.On("FindAccountsByCodes", suite.ctx, []string{"1002", "2001"}).Return(suite.activeAccounts(), nil)
	suite.mockMappingRepo.On("UpsertMapping", suite.ctx, mock.AnythingOfType("domain.EventMapping")).Return(nil)

	mapping, err := suite.service.UpsertMapping(suite.ctx, dto.UpsertMappingRequest{
		EventName:           "SAVINGS_DEPOSIT",
		DebitAccountCode:    "1002",
		CreditAccountCode:   "2001",
		DescriptionTemplate: "Member savings deposit ref {reference}",
	})

	suite.Require().NoError(err)
	suite.Equal("SAVINGS_DEPOSIT", mapping.EventName)
	suite.mockMappingRepo.AssertExpectations(suite.T())
}

func (suite *MappingServiceTestSuite) TestUpsertMappingRejectsSameAccount() {
	_, err := suite.service.UpsertMapping(suite.ctx, dto.UpsertMappingRequest{
		EventName:         "SELF_MAP",
		DebitAccountCode:  "1002",
		CreditAccountCode: "1002",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMappingSameAccount)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByCodes", mock.Anything, mock.Anything)
}

func (suite *MappingServiceTestSuite) TestUpsertMappingRejectsMissingAccount() {
	accounts := suite.activeAccounts()
	delete(accounts, "2001")
	suite.mockAccountRepo.On("FindAccountsByCodes", suite.ctx, []string{"1002", "2001"}).Return(accounts, nil)

	_, err := suite.service.UpsertMapping(suite.ctx, dto.UpsertMappingRequest{
		EventName:         "SAVINGS_DEPOSIT",
		DebitAccountCode:  "1002",
		CreditAccountCode: "2001",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockMappingRepo.AssertNotCalled(suite.T(), "UpsertMapping", mock.Anything, mock.Anything)
}

func (suite *MappingServiceTestSuite) TestUpsertMappingRejectsInactiveAccount() {
	accounts := suite.activeAccounts()
	retired := accounts["2001"]
	retired.IsActive = false
	accounts["2001"] = retired
	suite.mockAccountRepo.On("FindAccountsByCodes", suite.ctx, []string{"1002", "2001"}).Return(accounts, nil)

	_, err := suite.service.UpsertMapping(suite.ctx, dto.UpsertMappingRequest{
		EventName:         "SAVINGS_DEPOSIT",
		DebitAccountCode:  "1002",
		CreditAccountCode: "2001",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMappingRepo.AssertNotCalled(suite.T(), "UpsertMapping", mock.Anything, mock.Anything)
}

func (suite *MappingServiceTestSuite) TestListMappings() {
	mappings := []domain.EventMapping{
		{EventName: "SAVINGS_DEPOSIT"},
		{EventName: "LOAN_DISBURSEMENT"},
	}
	suite.mockMappingRepo.On("ListMappings", suite.ctx).Return(mappings, nil)

	found, err := suite.service.ListMappings(suite.ctx)

	suite.Require().NoError(err)
	suite.Len(found, 2)
}

func TestMappingService(t *testing.T) {
	suite.Run(t, new(MappingServiceTestSuite))
}
