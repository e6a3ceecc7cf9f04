package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/internal/service/mocks"
	"github.com/fsdevblog/accmarket/pkg/uow"
	uowmocks "github.com/fsdevblog/accmarket/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type WalletServiceTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockUOW       *uowmocks.MockUOW
	mockTX        *uowmocks.MockTX
	mockUserRepo  *mocks.MockUserRepository
	mockTransRepo *mocks.MockTransactionRepository
	walletService *WalletService
}

func TestWalletServiceSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}

func (s *WalletServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockTransRepo = mocks.NewMockTransactionRepository(s.mockCtrl)

	// Мок получения репозиториев из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTransRepo, nil).AnyTimes()

	walletService, servErr := NewWalletService(s.mockUOW)
	s.Require().NoError(servErr)
	s.walletService = walletService
}

func (s *WalletServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *WalletServiceTestSuite) expectTX() {
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTransRepo, nil).AnyTimes()
}

func (s *WalletServiceTestSuite) TestTopup() {
	userID := int64(100)
	amount := decimal.NewFromInt(500)
	credited := domain.User{ID: userID, Balance: decimal.NewFromInt(600)}

	s.expectTX()
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.AdjustBalance{
			UserID:    userID,
			Direction: domain.DirectionCredit,
			Amount:    amount,
		}).
		Return(&credited, nil)
	// Пополнение всегда сопровождается строкой журнала.
	s.mockTransRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(userID, args.UserID)
			s.Equal(domain.DirectionCredit, args.Direction)
			s.Equal(domain.TransactionTopup, args.Type)
			s.True(args.Amount.Equal(amount))
			return &domain.Transaction{}, nil
		})

	user, err := s.walletService.Topup(s.T().Context(), userID, amount)
	s.Require().NoError(err)
	s.True(user.Balance.Equal(decimal.NewFromInt(600)))
}

func (s *WalletServiceTestSuite) TestTopupNonPositiveAmount() {
	cases := []struct {
		name   string
		amount decimal.Decimal
	}{
		{name: "zero", amount: decimal.Zero},
		{name: "negative", amount: decimal.NewFromInt(-10)},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			_, err := s.walletService.Topup(s.T().Context(), 100, t.amount)
			s.Require().ErrorIs(err, domain.ErrNonPositiveValue)
		})
	}
}

func (s *WalletServiceTestSuite) TestGetBalance() {
	userID := int64(100)
	s.mockUserRepo.EXPECT().
		FindByID(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Balance: decimal.NewFromInt(42)}, nil)

	balance, err := s.walletService.GetBalance(s.T().Context(), userID)
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(42)))
}

func (s *WalletServiceTestSuite) TestGetBalanceUnknownUser() {
	s.mockUserRepo.EXPECT().
		FindByID(gomock.Any(), int64(999)).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.walletService.GetBalance(s.T().Context(), 999)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
