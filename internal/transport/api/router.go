package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup = "/api"

	RegisterRoute = "/auth/register"
	LoginRoute    = "/auth/login"

	ProductsRoute        = "/product"
	ProductRoute         = "/product/:id"
	ProductAccountsRoute = "/product/:id/accounts"
	AccountsRoute        = "/account"
	AccountRoute         = "/account/:id"

	CartItemsRoute     = "/order/items"
	CartRoute          = "/order/cart"
	CheckoutRoute      = "/order/checkout/:id"
	ApproveRoute       = "/order/approve"
	MyOrdersRoute      = "/order/my"
	AllOrdersRoute     = "/order/all"
	MyOrderItemsRoute  = "/order/items/my"
	AllOrderItemsRoute = "/order/items/all"

	TopupRoute           = "/topup"
	BalanceRoute         = "/topup/balance"
	MyTransactionsRoute  = "/transaction/my"
	AllTransactionsRoute = "/transaction/all"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	UserService    UserServicer
	CatalogService CatalogServicer
	OrderService   OrderServicer
	WalletService  WalletServicer
	JWTSecretKey   []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	productsHandler := NewProductsHandler(args.CatalogService)
	accountsHandler := NewAccountsHandler(args.CatalogService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	walletHandler := NewWalletHandler(args.WalletService)

	customerOnly := middlewares.RoleRequired(domain.RoleCustomer)
	adminOnly := middlewares.RoleRequired(domain.RoleAdmin)
	anyRole := middlewares.RoleRequired(domain.RoleCustomer, domain.RoleAdmin)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.

	api.GET(ProductsRoute, anyRole, productsHandler.Index)
	api.GET(ProductRoute, anyRole, productsHandler.Show)
	api.POST(ProductsRoute, adminOnly, productsHandler.Create)
	api.PUT(ProductRoute, adminOnly, productsHandler.Update)
	api.DELETE(ProductRoute, adminOnly, productsHandler.Delete)

	api.GET(ProductAccountsRoute, anyRole, accountsHandler.ByProduct)
	api.GET(AccountRoute, anyRole, accountsHandler.Show)
	api.POST(AccountsRoute, adminOnly, accountsHandler.Create)
	api.PUT(AccountRoute, adminOnly, accountsHandler.Update)
	api.DELETE(AccountRoute, adminOnly, accountsHandler.Delete)

	api.POST(CartItemsRoute, customerOnly, ordersHandler.AddToCart)
	api.GET(CartRoute, customerOnly, ordersHandler.Cart)
	api.PUT(CheckoutRoute, customerOnly, ordersHandler.Checkout)
	api.PUT(ApproveRoute, adminOnly, ordersHandler.Approve)
	api.GET(MyOrdersRoute, customerOnly, ordersHandler.MyOrders)
	api.GET(AllOrdersRoute, adminOnly, ordersHandler.AllOrders)
	api.GET(MyOrderItemsRoute, customerOnly, ordersHandler.MyItems)
	api.GET(AllOrderItemsRoute, adminOnly, ordersHandler.AllItems)

	api.POST(TopupRoute, customerOnly, walletHandler.Topup)
	api.GET(BalanceRoute, anyRole, walletHandler.Balance)
	api.GET(MyTransactionsRoute, customerOnly, walletHandler.MyTransactions)
	api.GET(AllTransactionsRoute, adminOnly, walletHandler.AllTransactions)

	return r
}
