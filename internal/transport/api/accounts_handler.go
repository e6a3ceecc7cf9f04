package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
)

type AccountsHandler struct {
	catalogSvs CatalogServicer
}

func NewAccountsHandler(catalogSvs CatalogServicer) *AccountsHandler {
	return &AccountsHandler{
		catalogSvs: catalogSvs,
	}
}

type CreateAccountParams struct {
	ProductID     int64           `binding:"required,gt=0" json:"productId"`
	Thumbnail     string          `binding:"max=255"       json:"thumbnail"`
	Specification string          `json:"specification"`
	Price         decimal.Decimal `json:"price"`
	Count         int32           `binding:"gte=0"         json:"count"`
}

type UpdateAccountParams struct {
	Thumbnail     string          `binding:"max=255" json:"thumbnail"`
	Specification string          `json:"specification"`
	Price         decimal.Decimal `json:"price"`
	Count         int32           `binding:"gte=0"   json:"count"`
}

type AccountResponse struct {
	ID            int64   `json:"id"`
	ProductID     int64   `json:"productId"`
	Thumbnail     string  `json:"thumbnail"`
	Specification string  `json:"specification"`
	Price         float64 `json:"price"`
	Count         int32   `json:"count"`
}

// ByProduct GET RouteGroup + ProductAccountsRoute.
func (h *AccountsHandler) ByProduct(c *gin.Context) {
	productID, ok := paramInt64(c, "id")
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	accounts, err := h.catalogSvs.GetAccountsByProduct(ctx, productID)
	if err != nil {
		abortCatalogErr(c, err)
		return
	}

	response := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = convertAccountResponse(&account)
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + AccountRoute.
func (h *AccountsHandler) Show(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	account, err := h.catalogSvs.GetAccount(ctx, id)
	if err != nil {
		abortCatalogErr(c, err)
		return
	}
	c.JSON(http.StatusOK, convertAccountResponse(account))
}

// Create POST RouteGroup + AccountsRoute.
func (h *AccountsHandler) Create(c *gin.Context) {
	var params CreateAccountParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if params.Price.IsNegative() {
		_ = c.AbortWithError(http.StatusBadRequest, domain.ErrNonPositiveValue).SetType(gin.ErrorTypePublic)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	account, err := h.catalogSvs.CreateAccount(ctx, repoargs.CreateAccount{
		ProductID:     params.ProductID,
		Thumbnail:     params.Thumbnail,
		Specification: params.Specification,
		Price:         params.Price,
		Count:         params.Count,
	})
	if err != nil {
		abortCatalogErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, convertAccountResponse(account))
}

// Update PUT RouteGroup + AccountRoute.
func (h *AccountsHandler) Update(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var params UpdateAccountParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if params.Price.IsNegative() {
		_ = c.AbortWithError(http.StatusBadRequest, domain.ErrNonPositiveValue).SetType(gin.ErrorTypePublic)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	account, err := h.catalogSvs.UpdateAccount(ctx, repoargs.UpdateAccount{
		ID:            id,
		Thumbnail:     params.Thumbnail,
		Specification: params.Specification,
		Price:         params.Price,
		Count:         params.Count,
	})
	if err != nil {
		abortCatalogErr(c, err)
		return
	}
	c.JSON(http.StatusOK, convertAccountResponse(account))
}

// Delete DELETE RouteGroup + AccountRoute.
func (h *AccountsHandler) Delete(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.catalogSvs.DeleteAccount(ctx, id); err != nil {
		abortCatalogErr(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func convertAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		ProductID:     account.ProductID,
		Thumbnail:     account.Thumbnail,
		Specification: account.Specification,
		Price:         account.Price.InexactFloat64(),
		Count:         account.Count,
	}
}
