package service

import (
	"context"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (hash []byte, salt []byte, err error)
	ComparePassword(password string, hash []byte, salt []byte) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	AdjustBalance(ctx context.Context, args repoargs.AdjustBalance) (*domain.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product repoargs.CreateProduct) (*domain.Product, error)
	Update(ctx context.Context, product repoargs.UpdateProduct) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	GetAll(ctx context.Context) ([]domain.Product, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account repoargs.CreateAccount) (*domain.Account, error)
	Update(ctx context.Context, account repoargs.UpdateAccount) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByProductID(ctx context.Context, productID int64) ([]domain.Account, error)
	DecrementStock(ctx context.Context, args repoargs.DecrementStock) (*domain.Account, error)
}

type OrderRepository interface {
	CreateCart(ctx context.Context, userID int64) (*domain.Order, error)
	FindCartByUserID(ctx context.Context, userID int64) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	UpsertItem(ctx context.Context, args repoargs.UpsertOrderItem) (*domain.OrderItem, error)
	RecalcTotal(ctx context.Context, orderID int64) (*domain.Order, error)
	Checkout(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, args repoargs.UpdateOrderStatus) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	CreateCredentials(ctx context.Context, creds []repoargs.CreateDeliveryCredential) error
	GetItemsByUserID(ctx context.Context, userID int64) ([]domain.OrderItem, error)
	GetAllItems(ctx context.Context) ([]domain.OrderItem, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction repoargs.TransactionCreate) (*domain.Transaction, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error)
	GetAll(ctx context.Context) ([]domain.Transaction, error)
}
