package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/service"
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type CartItemParams struct {
	AccountID int64 `binding:"required,gt=0" json:"accountId"`
	Quantity  int32 `binding:"required,gt=0" json:"quantity"`
}

type AddToCartParams struct {
	Items []CartItemParams `binding:"required,min=1,dive" json:"items"`
}

type CredentialResponse struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OrderItemResponse struct {
	ID            int64                `json:"id"`
	AccountID     int64                `json:"accountId"`
	ProductName   string               `json:"productName"`
	Specification string               `json:"specification"`
	Username      string               `json:"username,omitempty"`
	Quantity      int32                `json:"quantity"`
	SubPrice      float64              `json:"subPrice"`
	Credentials   []CredentialResponse `json:"credentials"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	UserID     int64               `json:"userId"`
	Status     string              `json:"status"`
	TotalPrice float64             `json:"totalPrice"`
	OrderDate  time.Time           `json:"orderDate"`
	Items      []OrderItemResponse `json:"items"`
}

// AddToCart POST RouteGroup + CartItemsRoute.
func (o *OrdersHandler) AddToCart(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params AddToCartParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	items := make([]service.CartItemArgs, len(params.Items))
	for i, item := range params.Items {
		items[i] = service.CartItemArgs{
			AccountID: item.AccountID,
			Quantity:  item.Quantity,
		}
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.AddToCart(ctx, currentUserID, items)
	if err != nil {
		abortOrderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, convertOrderResponse(order))
}

// Cart GET RouteGroup + CartRoute. Отсутствие открытой корзины - не ошибка,
// а пустой ответ.
func (o *OrdersHandler) Cart(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.GetCart(ctx, currentUserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, convertOrderResponse(order))
}

// Checkout PUT RouteGroup + CheckoutRoute.
func (o *OrdersHandler) Checkout(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	orderID, ok := paramInt64(c, "id")
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Checkout(ctx, orderID, currentUserID)
	if err != nil {
		abortOrderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, convertOrderResponse(order))
}

type DeliveryCredentialParams struct {
	Email    string `binding:"required,email,max=100" json:"email"`
	Password string `binding:"required"               json:"password"`
}

type DeliveryParams struct {
	OrderItemID int64                      `binding:"required,gt=0"       json:"orderItemId"`
	Credentials []DeliveryCredentialParams `binding:"required,min=1,dive" json:"credentials"`
}

type ApproveOrderParams struct {
	OrderID    int64            `binding:"required,gt=0" json:"orderId"`
	Deliveries []DeliveryParams `binding:"dive"          json:"deliveries"`
}

// Approve PUT RouteGroup + ApproveRoute. Запускает расчет по заказу от имени
// текущего админа.
func (o *OrdersHandler) Approve(c *gin.Context) {
	currentAdminID := getUserIDFromContext(c)

	var params ApproveOrderParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	deliveries := make([]service.DeliveryArgs, len(params.Deliveries))
	for i, delivery := range params.Deliveries {
		creds := make([]service.CredentialArgs, len(delivery.Credentials))
		for j, cred := range delivery.Credentials {
			creds[j] = service.CredentialArgs{
				Email:    cred.Email,
				Password: cred.Password,
			}
		}
		deliveries[i] = service.DeliveryArgs{
			OrderItemID: delivery.OrderItemID,
			Credentials: creds,
		}
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Approve(ctx, currentAdminID, service.ApproveOrderArgs{
		OrderID:    params.OrderID,
		Deliveries: deliveries,
	})
	if err != nil {
		abortOrderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, convertOrderResponse(order))
}

// MyOrders GET RouteGroup + MyOrdersRoute.
func (o *OrdersHandler) MyOrders(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.GetByUserID(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	o.renderOrders(c, orders)
}

// AllOrders GET RouteGroup + AllOrdersRoute.
func (o *OrdersHandler) AllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.GetAll(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	o.renderOrders(c, orders)
}

// MyItems GET RouteGroup + MyOrderItemsRoute.
func (o *OrdersHandler) MyItems(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	items, err := o.orderSvs.GetItemsByUserID(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	o.renderItems(c, items)
}

// AllItems GET RouteGroup + AllOrderItemsRoute.
func (o *OrdersHandler) AllItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	items, err := o.orderSvs.GetAllItems(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	o.renderItems(c, items)
}

func (o *OrdersHandler) renderOrders(c *gin.Context, orders []domain.Order) {
	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	response := make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = convertOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, response)
}

func (o *OrdersHandler) renderItems(c *gin.Context, items []domain.OrderItem) {
	if len(items) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	response := make([]OrderItemResponse, len(items))
	for i := range items {
		response[i] = convertOrderItemResponse(&items[i])
	}
	c.JSON(http.StatusOK, response)
}

// abortOrderErr конвертирует типовые ошибки жизненного цикла заказа в http
// статусы. Ошибка неожиданного вида во время расчета уходит клиенту с
// оригинальным текстом: все мутации к этому моменту уже откачены.
func abortOrderErr(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		_ = c.AbortWithError(http.StatusNotFound, err).SetType(gin.ErrorTypePrivate)
	case errors.Is(err, domain.ErrNotEnoughBalance):
		_ = c.AbortWithError(http.StatusBadRequest, domain.ErrNotEnoughBalance).SetType(gin.ErrorTypePublic)
	case errors.As(err, &stockErr):
		_ = c.AbortWithError(http.StatusBadRequest, stockErr).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrEmptyCart):
		_ = c.AbortWithError(http.StatusBadRequest, domain.ErrEmptyCart).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrOrderNotPending):
		_ = c.AbortWithError(http.StatusBadRequest, domain.ErrOrderNotPending).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrNonPositiveValue):
		_ = c.AbortWithError(http.StatusBadRequest, domain.ErrNonPositiveValue).SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePublic)
	}
}

func convertOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = convertOrderItemResponse(&order.Items[i])
	}
	return OrderResponse{
		ID:         order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice.InexactFloat64(),
		OrderDate:  order.OrderDate,
		Items:      items,
	}
}

func convertOrderItemResponse(item *domain.OrderItem) OrderItemResponse {
	creds := make([]CredentialResponse, len(item.Credentials))
	for i, cred := range item.Credentials {
		creds[i] = CredentialResponse{
			Email:    cred.Email,
			Password: cred.Password,
		}
	}
	return OrderItemResponse{
		ID:            item.ID,
		AccountID:     item.AccountID,
		ProductName:   item.ProductName,
		Specification: item.Specification,
		Username:      item.Username,
		Quantity:      item.Quantity,
		SubPrice:      item.SubPrice.InexactFloat64(),
		Credentials:   creds,
	}
}
