package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/accmarket/internal/domain"
)

type WalletHandler struct {
	walletSvs WalletServicer
}

func NewWalletHandler(walletSvs WalletServicer) *WalletHandler {
	return &WalletHandler{
		walletSvs: walletSvs,
	}
}

type TopupParams struct {
	Amount decimal.Decimal `binding:"required" json:"amount"`
}

type BalanceResponse struct {
	Balance float64 `json:"balance"`
}

type TransactionResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Direction   string    `json:"direction"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Topup POST RouteGroup + TopupRoute.
func (w *WalletHandler) Topup(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params TopupParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := w.walletSvs.Topup(ctx, currentUserID, params.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrNonPositiveValue) {
			_ = c.AbortWithError(http.StatusBadRequest, domain.ErrNonPositiveValue).SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Balance: user.Balance.InexactFloat64()})
}

// Balance GET RouteGroup + BalanceRoute.
func (w *WalletHandler) Balance(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := w.walletSvs.GetBalance(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Balance: balance.InexactFloat64()})
}

// MyTransactions GET RouteGroup + MyTransactionsRoute.
func (w *WalletHandler) MyTransactions(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := w.walletSvs.GetByUserID(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	w.renderTransactions(c, transactions)
}

// AllTransactions GET RouteGroup + AllTransactionsRoute.
func (w *WalletHandler) AllTransactions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := w.walletSvs.GetAll(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	w.renderTransactions(c, transactions)
}

func (w *WalletHandler) renderTransactions(c *gin.Context, transactions []domain.Transaction) {
	if len(transactions) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	response := make([]TransactionResponse, len(transactions))
	for i, tr := range transactions {
		response[i] = TransactionResponse{
			ID:          tr.ID,
			UserID:      tr.UserID,
			Direction:   string(tr.Direction),
			Type:        string(tr.Type),
			Amount:      tr.Amount.InexactFloat64(),
			Description: tr.Description,
			CreatedAt:   tr.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
