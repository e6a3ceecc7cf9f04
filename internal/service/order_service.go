package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
}

func NewOrderService(u uow.UOW) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
	}, nil
}

type CartItemArgs struct {
	AccountID int64
	Quantity  int32
}

// AddToCart кладет позиции в открытую корзину юзера, создавая корзину при
// необходимости. Повторное добавление аккаунта не плодит строк: количество
// суммируется, строка переоценивается по текущей цене аккаунта. Цены позиций
// замораживаются начиная с чекаута.
//
// Алгоритм работы (внутри одной транзакции):
//  1. Ищет корзину юзера, при отсутствии создает. Проигранную гонку на
//     создание (уникальный индекс) разрешает повторной выборкой.
//  2. Для каждой позиции читает аккаунт (отсутствие - domain.ErrRecordNotFound)
//     и апсертит строку заказа по текущей цене.
//  3. Пересчитывает итог заказа как сумму стоимостей строк.
func (o *OrderService) AddToCart(ctx context.Context, userID int64, items []CartItemArgs) (*domain.Order, error) {
	var order *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		accountRepo, accountRepoErr := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if accountRepoErr != nil {
			return accountRepoErr //nolint:wrapcheck
		}

		cart, cartErr := o.findOrCreateCart(c, orderRepo, userID)
		if cartErr != nil {
			return cartErr
		}

		for _, item := range items {
			if item.Quantity <= 0 {
				return domain.ErrNonPositiveValue
			}
			account, accountErr := accountRepo.FindByID(c, item.AccountID)
			if accountErr != nil {
				return accountErr //nolint:wrapcheck
			}
			if _, upsertErr := orderRepo.UpsertItem(c, repoargs.UpsertOrderItem{
				OrderID:   cart.ID,
				AccountID: account.ID,
				Quantity:  item.Quantity,
				Price:     account.Price,
			}); upsertErr != nil {
				return upsertErr //nolint:wrapcheck
			}
		}

		if _, recalcErr := orderRepo.RecalcTotal(c, cart.ID); recalcErr != nil {
			return recalcErr //nolint:wrapcheck
		}

		var findErr error
		order, findErr = orderRepo.FindByID(c, cart.ID)
		return findErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return order, nil
}

func (o *OrderService) findOrCreateCart(
	ctx context.Context,
	repo OrderRepository,
	userID int64,
) (*domain.Order, error) {
	cart, findErr := repo.FindCartByUserID(ctx, userID)
	if findErr == nil {
		return cart, nil
	}
	if !errors.Is(findErr, domain.ErrRecordNotFound) {
		return nil, findErr //nolint:wrapcheck
	}

	cart, createErr := repo.CreateCart(ctx, userID)
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			return repo.FindCartByUserID(ctx, userID) //nolint:wrapcheck
		}
		return nil, createErr //nolint:wrapcheck
	}
	return cart, nil
}

// GetCart возвращает открытую корзину юзера с позициями или
// domain.ErrRecordNotFound.
func (o *OrderService) GetCart(ctx context.Context, userID int64) (*domain.Order, error) {
	return o.orderRepo.FindCartByUserID(ctx, userID) //nolint:wrapcheck
}

// Checkout переводит корзину юзера в статус pending. Пустую корзину
// зачекаутить нельзя - вернется domain.ErrEmptyCart.
func (o *OrderService) Checkout(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	var order *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		cart, cartErr := orderRepo.FindCartByUserID(c, userID)
		if cartErr != nil {
			return cartErr //nolint:wrapcheck
		}
		if cart.ID != orderID {
			return domain.ErrRecordNotFound
		}
		if len(cart.Items) == 0 {
			return domain.ErrEmptyCart
		}

		var checkoutErr error
		order, checkoutErr = orderRepo.Checkout(c, orderID, userID)
		return checkoutErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return order, nil
}

type CredentialArgs struct {
	Email    string
	Password string
}

type DeliveryArgs struct {
	OrderItemID int64
	Credentials []CredentialArgs
}

type ApproveOrderArgs struct {
	OrderID    int64
	Deliveries []DeliveryArgs
}

// Approve выполняет расчет по заказу: единственное место, где двигаются
// деньги и склад. adminID - подтверждающий админ, он же получатель средств.
//
// Алгоритм работы (внутри одной транзакции, при любой ошибке все мутации
// откатываются без следа):
//  1. Заказ должен существовать и находиться в статусе pending.
//  2. Баланс покупателя списывается на сумму заказа; нехватка -
//     domain.ErrNotEnoughBalance.
//  3. По каждой позиции условно списывается склад; нехватка -
//     *domain.InsufficientStockError с указанием аккаунта.
//  4. Баланс админа пополняется на ту же сумму - деньги в системе
//     сохраняются.
//  5. В журнал пишутся две строки: дебет покупателя и кредит админа.
//  6. К позициям прикрепляются переданные админом реквизиты; ссылка на чужую
//     позицию - domain.ErrRecordNotFound.
//  7. Заказ помечается completed.
func (o *OrderService) Approve(ctx context.Context, adminID int64, args ApproveOrderArgs) (*domain.Order, error) {
	var order *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		accountRepo, accountRepoErr := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if accountRepoErr != nil {
			return accountRepoErr //nolint:wrapcheck
		}
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		transRepo, transRepoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if transRepoErr != nil {
			return transRepoErr //nolint:wrapcheck
		}

		pending, findErr := orderRepo.FindByID(c, args.OrderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if pending.Status != domain.OrderStatusPending {
			return domain.ErrOrderNotPending
		}

		customer, debitErr := userRepo.AdjustBalance(c, repoargs.AdjustBalance{
			UserID:    pending.UserID,
			Direction: domain.DirectionDebit,
			Amount:    pending.TotalPrice,
		})
		if debitErr != nil {
			return debitErr //nolint:wrapcheck
		}

		for _, item := range pending.Items {
			if _, stockErr := accountRepo.DecrementStock(c, repoargs.DecrementStock{
				AccountID: item.AccountID,
				Quantity:  item.Quantity,
			}); stockErr != nil {
				return stockErr //nolint:wrapcheck
			}
		}

		admin, creditErr := userRepo.AdjustBalance(c, repoargs.AdjustBalance{
			UserID:    adminID,
			Direction: domain.DirectionCredit,
			Amount:    pending.TotalPrice,
		})
		if creditErr != nil {
			return creditErr //nolint:wrapcheck
		}

		if ledgerErr := o.writeSettlementLedger(c, transRepo, pending, customer, admin); ledgerErr != nil {
			return ledgerErr
		}

		if credErr := o.attachCredentials(c, orderRepo, pending, args.Deliveries); credErr != nil {
			return credErr
		}

		if _, statusErr := orderRepo.UpdateStatus(c, repoargs.UpdateOrderStatus{
			OrderID: pending.ID,
			Status:  domain.OrderStatusCompleted,
		}); statusErr != nil {
			return statusErr //nolint:wrapcheck
		}

		var reloadErr error
		order, reloadErr = orderRepo.FindByID(c, pending.ID)
		return reloadErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return order, nil
}

// writeSettlementLedger пишет парные журнальные записи расчета: дебет
// покупателя и кредит админа на одну и ту же сумму.
func (o *OrderService) writeSettlementLedger(
	ctx context.Context,
	repo TransactionRepository,
	order *domain.Order,
	customer *domain.User,
	admin *domain.User,
) error {
	if _, err := repo.Create(ctx, repoargs.TransactionCreate{
		UserID:    customer.ID,
		Direction: domain.DirectionDebit,
		Type:      domain.TransactionOrderPayment,
		Amount:    order.TotalPrice,
		Description: fmt.Sprintf(
			"customer %s charged %s for order #%d", customer.Username, order.TotalPrice.String(), order.ID),
	}); err != nil {
		return err //nolint:wrapcheck
	}

	if _, err := repo.Create(ctx, repoargs.TransactionCreate{
		UserID:    admin.ID,
		Direction: domain.DirectionCredit,
		Type:      domain.TransactionOrderIncome,
		Amount:    order.TotalPrice,
		Description: fmt.Sprintf(
			"admin %s received %s from customer %s for order #%d",
			admin.Username, order.TotalPrice.String(), customer.Username, order.ID),
	}); err != nil {
		return err //nolint:wrapcheck
	}
	return nil
}

// attachCredentials раскладывает переданные админом реквизиты по позициям
// заказа. Ссылка на позицию не из этого заказа - domain.ErrRecordNotFound.
func (o *OrderService) attachCredentials(
	ctx context.Context,
	repo OrderRepository,
	order *domain.Order,
	deliveries []DeliveryArgs,
) error {
	itemIDs := make(map[int64]struct{}, len(order.Items))
	for _, item := range order.Items {
		itemIDs[item.ID] = struct{}{}
	}

	var creds []repoargs.CreateDeliveryCredential
	for _, delivery := range deliveries {
		if _, ok := itemIDs[delivery.OrderItemID]; !ok {
			return fmt.Errorf("order item `%d`: %w", delivery.OrderItemID, domain.ErrRecordNotFound)
		}
		for _, cred := range delivery.Credentials {
			creds = append(creds, repoargs.CreateDeliveryCredential{
				OrderItemID: delivery.OrderItemID,
				Email:       cred.Email,
				Password:    cred.Password,
			})
		}
	}
	return repo.CreateCredentials(ctx, creds) //nolint:wrapcheck
}

// GetByUserID возвращает заказы юзера, отсортированные по дате создания
// по убыванию.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	return o.orderRepo.GetByUserID(ctx, userID) //nolint:wrapcheck
}

func (o *OrderService) GetAll(ctx context.Context) ([]domain.Order, error) {
	return o.orderRepo.GetAll(ctx) //nolint:wrapcheck
}

func (o *OrderService) GetItemsByUserID(ctx context.Context, userID int64) ([]domain.OrderItem, error) {
	return o.orderRepo.GetItemsByUserID(ctx, userID) //nolint:wrapcheck
}

func (o *OrderService) GetAllItems(ctx context.Context) ([]domain.OrderItem, error) {
	return o.orderRepo.GetAllItems(ctx) //nolint:wrapcheck
}
