package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/logger"
	"github.com/fsdevblog/accmarket/internal/transport/api/mocks"
	"github.com/fsdevblog/accmarket/internal/transport/api/testutils"
	"github.com/fsdevblog/accmarket/internal/transport/api/tokens"
)

type OrdersHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockOrderService *mocks.MockOrderServicer
	jwtSecret        []byte
	customerToken    string
	adminToken       string
}

func TestOrdersHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrdersHandlerTestSuite))
}

func (s *OrdersHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		OrderService: s.mockOrderService,
		JWTSecretKey: s.jwtSecret,
	})

	customer := domain.User{ID: 100, Username: "buyer", Role: domain.RoleCustomer}
	admin := domain.User{ID: 1, Username: "root", Role: domain.RoleAdmin}

	var tokenErr error
	s.customerToken, tokenErr = tokens.GenerateUserJWT(&customer, time.Hour, s.jwtSecret)
	s.Require().NoError(tokenErr)
	s.adminToken, tokenErr = tokens.GenerateUserJWT(&admin, time.Hour, s.jwtSecret)
	s.Require().NoError(tokenErr)
}

func (s *OrdersHandlerTestSuite) makeRequest(method, url, payload, jwtToken string) *http.Response {
	s.T().Helper()

	var body *bytes.Buffer
	if payload != "" {
		body = bytes.NewBufferString(payload)
	} else {
		body = bytes.NewBuffer(nil)
	}

	opts := []func(*testutils.RequestOptions){
		testutils.WithHeader("Content-Type", "application/json"),
	}
	if jwtToken != "" {
		opts = append(opts, testutils.WithHeader("Authorization", "Bearer "+jwtToken))
	}

	resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    url,
		Body:   body,
	}, opts...)
	s.Require().NoError(reqErr)
	return resp
}

func (s *OrdersHandlerTestSuite) TestAddToCart() {
	cart := domain.Order{
		ID:         5,
		UserID:     100,
		Status:     domain.OrderStatusCart,
		TotalPrice: decimal.NewFromInt(500),
		Items: []domain.OrderItem{
			{ID: 11, OrderID: 5, AccountID: 7, Quantity: 2, SubPrice: decimal.NewFromInt(500)},
		},
	}

	// Моки
	s.mockOrderService.EXPECT().
		AddToCart(gomock.Any(), int64(100), gomock.Any()).
		Return(&cart, nil).Times(1)
	s.mockOrderService.EXPECT().
		AddToCart(gomock.Any(), int64(100), gomock.Any()).
		Return(nil, domain.ErrRecordNotFound).Times(1)

	validPayload := `{"items":[{"accountId":7,"quantity":2}]}`

	cases := []struct {
		name       string
		payload    string
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", payload: validPayload, jwtToken: s.customerToken, wantStatus: http.StatusOK},
		{name: "unknown account", payload: validPayload, jwtToken: s.customerToken, wantStatus: http.StatusNotFound},
		{name: "zero quantity", payload: `{"items":[{"accountId":7,"quantity":0}]}`, jwtToken: s.customerToken, wantStatus: http.StatusBadRequest},
		{name: "empty items", payload: `{"items":[]}`, jwtToken: s.customerToken, wantStatus: http.StatusBadRequest},
		{name: "no token", payload: validPayload, wantStatus: http.StatusUnauthorized},
		{name: "admin forbidden", payload: validPayload, jwtToken: s.adminToken, wantStatus: http.StatusForbidden},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp := s.makeRequest(http.MethodPost, RouteGroup+CartItemsRoute, t.payload, t.jwtToken)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body OrderResponse
				s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
				s.Equal(cart.ID, body.ID)
				s.InDelta(500, body.TotalPrice, 0.001)
				s.Len(body.Items, 1)
			}
		})
	}
}

func (s *OrdersHandlerTestSuite) TestCart() {
	cart := domain.Order{ID: 5, UserID: 100, Status: domain.OrderStatusCart}

	s.mockOrderService.EXPECT().
		GetCart(gomock.Any(), int64(100)).
		Return(&cart, nil).Times(1)
	s.mockOrderService.EXPECT().
		GetCart(gomock.Any(), int64(100)).
		Return(nil, domain.ErrRecordNotFound).Times(1)

	cases := []struct {
		name       string
		wantStatus int
	}{
		{name: "cart exists", wantStatus: http.StatusOK},
		{name: "no open cart", wantStatus: http.StatusNoContent},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp := s.makeRequest(http.MethodGet, RouteGroup+CartRoute, "", s.customerToken)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)
		})
	}
}

func (s *OrdersHandlerTestSuite) TestCheckout() {
	pending := domain.Order{
		ID:     5,
		UserID: 100,
		Status: domain.OrderStatusPending,
		Items:  []domain.OrderItem{{ID: 11}},
	}

	// Моки
	s.mockOrderService.EXPECT().
		Checkout(gomock.Any(), int64(5), int64(100)).
		Return(&pending, nil).Times(1)
	s.mockOrderService.EXPECT().
		Checkout(gomock.Any(), int64(5), int64(100)).
		Return(nil, domain.ErrEmptyCart).Times(1)
	s.mockOrderService.EXPECT().
		Checkout(gomock.Any(), int64(999), int64(100)).
		Return(nil, domain.ErrRecordNotFound).Times(1)

	cases := []struct {
		name       string
		url        string
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", url: "/api/order/checkout/5", jwtToken: s.customerToken, wantStatus: http.StatusOK},
		{name: "empty cart", url: "/api/order/checkout/5", jwtToken: s.customerToken, wantStatus: http.StatusBadRequest},
		{name: "foreign order", url: "/api/order/checkout/999", jwtToken: s.customerToken, wantStatus: http.StatusNotFound},
		{name: "not a number", url: "/api/order/checkout/abc", jwtToken: s.customerToken, wantStatus: http.StatusBadRequest},
		{name: "admin forbidden", url: "/api/order/checkout/5", jwtToken: s.adminToken, wantStatus: http.StatusForbidden},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp := s.makeRequest(http.MethodPut, t.url, "", t.jwtToken)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body OrderResponse
				s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
				s.Equal(string(domain.OrderStatusPending), body.Status)
			}
		})
	}
}

func (s *OrdersHandlerTestSuite) TestApprove() {
	completed := domain.Order{
		ID:         5,
		UserID:     100,
		Status:     domain.OrderStatusCompleted,
		TotalPrice: decimal.NewFromInt(500),
		Items: []domain.OrderItem{
			{
				ID: 11, OrderID: 5, AccountID: 7, Quantity: 2,
				SubPrice:    decimal.NewFromInt(500),
				Credentials: []domain.DeliveryCredential{{ID: 1, OrderItemID: 11, Email: "acc@mail.com", Password: "p@ss"}},
			},
		},
	}

	// Моки: расчет от имени админа с id 1.
	s.mockOrderService.EXPECT().
		Approve(gomock.Any(), int64(1), gomock.Any()).
		Return(&completed, nil).Times(1)
	s.mockOrderService.EXPECT().
		Approve(gomock.Any(), int64(1), gomock.Any()).
		Return(nil, domain.ErrNotEnoughBalance).Times(1)
	s.mockOrderService.EXPECT().
		Approve(gomock.Any(), int64(1), gomock.Any()).
		Return(nil, domain.NewInsufficientStockError(7, "netflix premium")).Times(1)
	s.mockOrderService.EXPECT().
		Approve(gomock.Any(), int64(1), gomock.Any()).
		Return(nil, domain.ErrOrderNotPending).Times(1)

	validPayload := `{
		"orderId": 5,
		"deliveries": [
			{"orderItemId": 11, "credentials": [{"email": "acc@mail.com", "password": "p@ss"}]}
		]
	}`

	cases := []struct {
		name       string
		payload    string
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", payload: validPayload, jwtToken: s.adminToken, wantStatus: http.StatusOK},
		{name: "not enough balance", payload: validPayload, jwtToken: s.adminToken, wantStatus: http.StatusBadRequest},
		{name: "not enough stock", payload: validPayload, jwtToken: s.adminToken, wantStatus: http.StatusBadRequest},
		{name: "not pending", payload: validPayload, jwtToken: s.adminToken, wantStatus: http.StatusBadRequest},
		{name: "customer forbidden", payload: validPayload, jwtToken: s.customerToken, wantStatus: http.StatusForbidden},
		{name: "broken json", payload: `{`, jwtToken: s.adminToken, wantStatus: http.StatusBadRequest},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp := s.makeRequest(http.MethodPut, RouteGroup+ApproveRoute, t.payload, t.jwtToken)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body OrderResponse
				s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
				s.Equal(string(domain.OrderStatusCompleted), body.Status)
				s.Require().Len(body.Items, 1)
				s.Len(body.Items[0].Credentials, 1)
			}
		})
	}
}

func (s *OrdersHandlerTestSuite) TestMyOrders() {
	orders := []domain.Order{
		{ID: 5, UserID: 100, Status: domain.OrderStatusCompleted},
		{ID: 4, UserID: 100, Status: domain.OrderStatusPending},
	}

	s.mockOrderService.EXPECT().
		GetByUserID(gomock.Any(), int64(100)).
		Return(orders, nil).Times(1)
	s.mockOrderService.EXPECT().
		GetByUserID(gomock.Any(), int64(100)).
		Return(nil, nil).Times(1)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
		wantLen    int
	}{
		{name: "has orders", jwtToken: s.customerToken, wantStatus: http.StatusOK, wantLen: 2},
		{name: "no orders", jwtToken: s.customerToken, wantStatus: http.StatusNoContent},
		{name: "admin forbidden", jwtToken: s.adminToken, wantStatus: http.StatusForbidden},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp := s.makeRequest(http.MethodGet, RouteGroup+MyOrdersRoute, "", t.jwtToken)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body []OrderResponse
				s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
				s.Len(body, t.wantLen)
			}
		})
	}
}

func (s *OrdersHandlerTestSuite) TestAllOrders() {
	orders := []domain.Order{{ID: 5, UserID: 100}, {ID: 4, UserID: 101}}

	s.mockOrderService.EXPECT().
		GetAll(gomock.Any()).
		Return(orders, nil).Times(1)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{name: "admin sees all", jwtToken: s.adminToken, wantStatus: http.StatusOK},
		{name: "customer forbidden", jwtToken: s.customerToken, wantStatus: http.StatusForbidden},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp := s.makeRequest(http.MethodGet, RouteGroup+AllOrdersRoute, "", t.jwtToken)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)
		})
	}
}
