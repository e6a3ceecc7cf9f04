package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

// WalletService обслуживает баланс юзера и журнал его движений.
type WalletService struct {
	uow       uow.UOW
	userRepo  UserRepository
	transRepo TransactionRepository
}

func NewWalletService(u uow.UOW) (*WalletService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	transRepo, transRepoErr := uow.GetRepositoryAs[TransactionRepository](
		u, uow.RepositoryName(repoargs.TransactionRepoName))
	if transRepoErr != nil {
		return nil, transRepoErr
	}
	return &WalletService{
		uow:       u,
		userRepo:  userRepo,
		transRepo: transRepo,
	}, nil
}

// Topup пополняет баланс юзера и пишет строку журнала. Обе мутации проходят
// в одной транзакции. Неположительная сумма - domain.ErrNonPositiveValue.
func (w *WalletService) Topup(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrNonPositiveValue
	}

	var user *domain.User
	txErr := w.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		transRepo, transRepoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if transRepoErr != nil {
			return transRepoErr //nolint:wrapcheck
		}

		var creditErr error
		user, creditErr = userRepo.AdjustBalance(c, repoargs.AdjustBalance{
			UserID:    userID,
			Direction: domain.DirectionCredit,
			Amount:    amount,
		})
		if creditErr != nil {
			return creditErr //nolint:wrapcheck
		}

		_, transErr := transRepo.Create(c, repoargs.TransactionCreate{
			UserID:      userID,
			Direction:   domain.DirectionCredit,
			Type:        domain.TransactionTopup,
			Amount:      amount,
			Description: fmt.Sprintf("topup by %s", amount.String()),
		})
		return transErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return user, nil
}

// GetBalance возвращает текущий баланс юзера.
func (w *WalletService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := w.userRepo.FindByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err //nolint:wrapcheck
	}
	return user.Balance, nil
}

// GetByUserID возвращает журнал юзера, новые записи сверху.
func (w *WalletService) GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return w.transRepo.GetByUserID(ctx, userID) //nolint:wrapcheck
}

// GetAll возвращает весь журнал, новые записи сверху.
func (w *WalletService) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	return w.transRepo.GetAll(ctx) //nolint:wrapcheck
}
