package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/internal/service"
)

// UserServicer и соседние интерфейсы существуют исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type CatalogServicer interface {
	CreateProduct(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, args repoargs.UpdateProduct) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProducts(ctx context.Context) ([]domain.Product, error)
	CreateAccount(ctx context.Context, args repoargs.CreateAccount) (*domain.Account, error)
	UpdateAccount(ctx context.Context, args repoargs.UpdateAccount) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountsByProduct(ctx context.Context, productID int64) ([]domain.Account, error)
}

type OrderServicer interface {
	AddToCart(ctx context.Context, userID int64, items []service.CartItemArgs) (*domain.Order, error)
	GetCart(ctx context.Context, userID int64) (*domain.Order, error)
	Checkout(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	Approve(ctx context.Context, adminID int64, args service.ApproveOrderArgs) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetItemsByUserID(ctx context.Context, userID int64) ([]domain.OrderItem, error)
	GetAllItems(ctx context.Context) ([]domain.OrderItem, error)
}

type WalletServicer interface {
	Topup(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error)
	GetAll(ctx context.Context) ([]domain.Transaction, error)
}
