package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/internal/service/mocks"
	"github.com/fsdevblog/accmarket/pkg/uow"
	uowmocks "github.com/fsdevblog/accmarket/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockOrderRepo   *mocks.MockOrderRepository
	mockAccountRepo *mocks.MockAccountRepository
	mockUserRepo    *mocks.MockUserRepository
	mockTransRepo   *mocks.MockTransactionRepository
	orderService    *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.mockAccountRepo = mocks.NewMockAccountRepository(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockTransRepo = mocks.NewMockTransactionRepository(s.mockCtrl)

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	// Инициализация сервиса.
	orderService, servErr := NewOrderService(s.mockUOW)
	s.Require().NoError(servErr)
	s.orderService = orderService
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTX прокидывает fn транзакции на мок TX со всеми репозиториями.
func (s *OrderServiceTestSuite) expectTX() {
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.AccountRepoName)).
		Return(s.mockAccountRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTransRepo, nil).AnyTimes()
}

func (s *OrderServiceTestSuite) TestAddToCart() {
	userID := int64(100)
	cart := domain.Order{
		ID:     1,
		UserID: userID,
		Status: domain.OrderStatusCart,
	}
	account := domain.Account{
		ID:    7,
		Price: decimal.NewFromInt(250),
		Count: 10,
	}
	reloaded := domain.Order{
		ID:         cart.ID,
		UserID:     userID,
		Status:     domain.OrderStatusCart,
		TotalPrice: decimal.NewFromInt(500),
		Items: []domain.OrderItem{
			{ID: 11, OrderID: cart.ID, AccountID: account.ID, Quantity: 2, SubPrice: decimal.NewFromInt(500)},
		},
	}

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindCartByUserID(gomock.Any(), userID).Return(&cart, nil)
	s.mockAccountRepo.EXPECT().FindByID(gomock.Any(), account.ID).Return(&account, nil)
	// Строка апсертится по текущей цене аккаунта.
	s.mockOrderRepo.EXPECT().
		UpsertItem(gomock.Any(), repoargs.UpsertOrderItem{
			OrderID:   cart.ID,
			AccountID: account.ID,
			Quantity:  2,
			Price:     account.Price,
		}).
		Return(&reloaded.Items[0], nil)
	s.mockOrderRepo.EXPECT().RecalcTotal(gomock.Any(), cart.ID).Return(&reloaded, nil)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), cart.ID).Return(&reloaded, nil)

	order, err := s.orderService.AddToCart(s.T().Context(), userID, []CartItemArgs{
		{AccountID: account.ID, Quantity: 2},
	})
	s.Require().NoError(err)
	s.True(order.TotalPrice.Equal(decimal.NewFromInt(500)))
	s.Len(order.Items, 1)
}

func (s *OrderServiceTestSuite) TestAddToCartCreatesCart() {
	userID := int64(100)
	created := domain.Order{ID: 2, UserID: userID, Status: domain.OrderStatusCart}
	account := domain.Account{ID: 7, Price: decimal.NewFromInt(100)}

	s.expectTX()
	// Открытой корзины нет, создается новая.
	s.mockOrderRepo.EXPECT().FindCartByUserID(gomock.Any(), userID).Return(nil, domain.ErrRecordNotFound)
	s.mockOrderRepo.EXPECT().CreateCart(gomock.Any(), userID).Return(&created, nil)
	s.mockAccountRepo.EXPECT().FindByID(gomock.Any(), account.ID).Return(&account, nil)
	s.mockOrderRepo.EXPECT().UpsertItem(gomock.Any(), gomock.Any()).Return(&domain.OrderItem{}, nil)
	s.mockOrderRepo.EXPECT().RecalcTotal(gomock.Any(), created.ID).Return(&created, nil)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), created.ID).Return(&created, nil)

	order, err := s.orderService.AddToCart(s.T().Context(), userID, []CartItemArgs{
		{AccountID: account.ID, Quantity: 1},
	})
	s.Require().NoError(err)
	s.Equal(created.ID, order.ID)
}

func (s *OrderServiceTestSuite) TestAddToCartLostCreateRace() {
	userID := int64(100)
	winner := domain.Order{ID: 3, UserID: userID, Status: domain.OrderStatusCart}
	account := domain.Account{ID: 7, Price: decimal.NewFromInt(100)}

	s.expectTX()
	// Гонка на создание корзины: вставка бьется об уникальный индекс,
	// перечитываем победившую корзину.
	s.mockOrderRepo.EXPECT().FindCartByUserID(gomock.Any(), userID).Return(nil, domain.ErrRecordNotFound)
	s.mockOrderRepo.EXPECT().CreateCart(gomock.Any(), userID).Return(nil, domain.ErrDuplicateKey)
	s.mockOrderRepo.EXPECT().FindCartByUserID(gomock.Any(), userID).Return(&winner, nil)
	s.mockAccountRepo.EXPECT().FindByID(gomock.Any(), account.ID).Return(&account, nil)
	s.mockOrderRepo.EXPECT().UpsertItem(gomock.Any(), gomock.Any()).Return(&domain.OrderItem{}, nil)
	s.mockOrderRepo.EXPECT().RecalcTotal(gomock.Any(), winner.ID).Return(&winner, nil)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), winner.ID).Return(&winner, nil)

	order, err := s.orderService.AddToCart(s.T().Context(), userID, []CartItemArgs{
		{AccountID: account.ID, Quantity: 1},
	})
	s.Require().NoError(err)
	s.Equal(winner.ID, order.ID)
}

func (s *OrderServiceTestSuite) TestAddToCartNonPositiveQuantity() {
	userID := int64(100)
	cart := domain.Order{ID: 1, UserID: userID, Status: domain.OrderStatusCart}

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindCartByUserID(gomock.Any(), userID).Return(&cart, nil)

	_, err := s.orderService.AddToCart(s.T().Context(), userID, []CartItemArgs{
		{AccountID: 7, Quantity: 0},
	})
	s.Require().ErrorIs(err, domain.ErrNonPositiveValue)
}

func (s *OrderServiceTestSuite) TestCheckout() {
	userID := int64(100)
	cart := domain.Order{
		ID:     5,
		UserID: userID,
		Status: domain.OrderStatusCart,
		Items:  []domain.OrderItem{{ID: 11, Quantity: 1}},
	}
	pending := cart
	pending.Status = domain.OrderStatusPending

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindCartByUserID(gomock.Any(), userID).Return(&cart, nil)
	s.mockOrderRepo.EXPECT().Checkout(gomock.Any(), cart.ID, userID).Return(&pending, nil)

	order, err := s.orderService.Checkout(s.T().Context(), cart.ID, userID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPending, order.Status)
}

func (s *OrderServiceTestSuite) TestCheckoutEmptyCart() {
	userID := int64(100)
	cart := domain.Order{ID: 5, UserID: userID, Status: domain.OrderStatusCart}

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindCartByUserID(gomock.Any(), userID).Return(&cart, nil)

	_, err := s.orderService.Checkout(s.T().Context(), cart.ID, userID)
	s.Require().ErrorIs(err, domain.ErrEmptyCart)
}

func (s *OrderServiceTestSuite) TestCheckoutForeignOrder() {
	userID := int64(100)
	cart := domain.Order{ID: 5, UserID: userID, Status: domain.OrderStatusCart}

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindCartByUserID(gomock.Any(), userID).Return(&cart, nil)

	// id не совпадает с открытой корзиной юзера.
	_, err := s.orderService.Checkout(s.T().Context(), 999, userID)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *OrderServiceTestSuite) pendingOrder() domain.Order {
	return domain.Order{
		ID:         50,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		UserID:     100,
		Status:     domain.OrderStatusPending,
		TotalPrice: decimal.NewFromInt(80),
		OrderDate:  time.Now(),
		Items: []domain.OrderItem{
			{ID: 11, OrderID: 50, AccountID: 7, Quantity: 2, SubPrice: decimal.NewFromInt(80)},
		},
	}
}

func (s *OrderServiceTestSuite) TestApprove() {
	adminID := int64(1)
	pending := s.pendingOrder()
	customer := domain.User{ID: pending.UserID, Username: "buyer", Balance: decimal.NewFromInt(20)}
	admin := domain.User{ID: adminID, Username: "root", Balance: decimal.NewFromInt(80)}
	completed := pending
	completed.Status = domain.OrderStatusCompleted

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), pending.ID).Return(&pending, nil)

	// Покупатель платит 80, админ получает 80: деньги в системе сохраняются.
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.AdjustBalance{
			UserID:    pending.UserID,
			Direction: domain.DirectionDebit,
			Amount:    pending.TotalPrice,
		}).
		Return(&customer, nil)
	s.mockAccountRepo.EXPECT().
		DecrementStock(gomock.Any(), repoargs.DecrementStock{AccountID: 7, Quantity: 2}).
		Return(&domain.Account{ID: 7, Count: 8}, nil)
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.AdjustBalance{
			UserID:    adminID,
			Direction: domain.DirectionCredit,
			Amount:    pending.TotalPrice,
		}).
		Return(&admin, nil)

	// Парные строки журнала на одну и ту же сумму.
	s.mockTransRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(customer.ID, args.UserID)
			s.Equal(domain.DirectionDebit, args.Direction)
			s.Equal(domain.TransactionOrderPayment, args.Type)
			s.True(args.Amount.Equal(pending.TotalPrice))
			return &domain.Transaction{}, nil
		})
	s.mockTransRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(admin.ID, args.UserID)
			s.Equal(domain.DirectionCredit, args.Direction)
			s.Equal(domain.TransactionOrderIncome, args.Type)
			s.True(args.Amount.Equal(pending.TotalPrice))
			return &domain.Transaction{}, nil
		})

	s.mockOrderRepo.EXPECT().
		CreateCredentials(gomock.Any(), []repoargs.CreateDeliveryCredential{
			{OrderItemID: 11, Email: "acc@mail.com", Password: "p@ss"},
		}).
		Return(nil)
	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), repoargs.UpdateOrderStatus{
			OrderID: pending.ID,
			Status:  domain.OrderStatusCompleted,
		}).
		Return(&completed, nil)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), pending.ID).Return(&completed, nil)

	order, err := s.orderService.Approve(s.T().Context(), adminID, ApproveOrderArgs{
		OrderID: pending.ID,
		Deliveries: []DeliveryArgs{
			{OrderItemID: 11, Credentials: []CredentialArgs{{Email: "acc@mail.com", Password: "p@ss"}}},
		},
	})
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCompleted, order.Status)
}

func (s *OrderServiceTestSuite) TestApproveNotPending() {
	adminID := int64(1)
	cart := s.pendingOrder()
	cart.Status = domain.OrderStatusCart

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), cart.ID).Return(&cart, nil)

	_, err := s.orderService.Approve(s.T().Context(), adminID, ApproveOrderArgs{OrderID: cart.ID})
	s.Require().ErrorIs(err, domain.ErrOrderNotPending)
}

func (s *OrderServiceTestSuite) TestApproveNotEnoughBalance() {
	adminID := int64(1)
	pending := s.pendingOrder()

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), pending.ID).Return(&pending, nil)
	// Баланс покупателя меньше суммы заказа: списание не проходит,
	// транзакция откатывается целиком.
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrNotEnoughBalance)

	_, err := s.orderService.Approve(s.T().Context(), adminID, ApproveOrderArgs{OrderID: pending.ID})
	s.Require().ErrorIs(err, domain.ErrNotEnoughBalance)
}

func (s *OrderServiceTestSuite) TestApproveNotEnoughStock() {
	adminID := int64(1)
	pending := s.pendingOrder()
	customer := domain.User{ID: pending.UserID, Balance: decimal.Zero}

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), pending.ID).Return(&pending, nil)
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), gomock.Any()).
		Return(&customer, nil)
	// На складе одна учетка, в заказе две.
	s.mockAccountRepo.EXPECT().
		DecrementStock(gomock.Any(), repoargs.DecrementStock{AccountID: 7, Quantity: 2}).
		Return(nil, domain.NewInsufficientStockError(7, "netflix premium"))

	_, err := s.orderService.Approve(s.T().Context(), adminID, ApproveOrderArgs{OrderID: pending.ID})

	var stockErr *domain.InsufficientStockError
	s.Require().ErrorAs(err, &stockErr)
	s.Equal(int64(7), stockErr.AccountID)
}

func (s *OrderServiceTestSuite) TestApproveForeignOrderItem() {
	adminID := int64(1)
	pending := s.pendingOrder()
	customer := domain.User{ID: pending.UserID, Balance: decimal.Zero}
	admin := domain.User{ID: adminID, Balance: pending.TotalPrice}

	s.expectTX()
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), pending.ID).Return(&pending, nil)
	s.mockUserRepo.EXPECT().AdjustBalance(gomock.Any(), gomock.Any()).Return(&customer, nil)
	s.mockAccountRepo.EXPECT().DecrementStock(gomock.Any(), gomock.Any()).Return(&domain.Account{}, nil)
	s.mockUserRepo.EXPECT().AdjustBalance(gomock.Any(), gomock.Any()).Return(&admin, nil)
	s.mockTransRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.Transaction{}, nil).Times(2)

	// Реквизиты адресованы позиции не из этого заказа.
	_, err := s.orderService.Approve(s.T().Context(), adminID, ApproveOrderArgs{
		OrderID: pending.ID,
		Deliveries: []DeliveryArgs{
			{OrderItemID: 999, Credentials: []CredentialArgs{{Email: "a@b.c", Password: "x"}}},
		},
	})
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
