package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
)

type ProductsHandler struct {
	catalogSvs CatalogServicer
}

func NewProductsHandler(catalogSvs CatalogServicer) *ProductsHandler {
	return &ProductsHandler{
		catalogSvs: catalogSvs,
	}
}

type ProductParams struct {
	Name     string `binding:"required,max=100" json:"name"`
	Logo     string `binding:"max=255"          json:"logo"`
	Category string `binding:"required"         json:"category"`
}

type ProductResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Category string `json:"category"`
}

// Index GET RouteGroup + ProductsRoute.
func (h *ProductsHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	products, err := h.catalogSvs.GetProducts(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, product := range products {
		response[i] = convertProductResponse(&product)
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + ProductRoute.
func (h *ProductsHandler) Show(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.catalogSvs.GetProduct(ctx, id)
	if err != nil {
		abortCatalogErr(c, err)
		return
	}
	c.JSON(http.StatusOK, convertProductResponse(product))
}

// Create POST RouteGroup + ProductsRoute.
func (h *ProductsHandler) Create(c *gin.Context) {
	var params ProductParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.catalogSvs.CreateProduct(ctx, repoargs.CreateProduct{
		Name:     params.Name,
		Logo:     params.Logo,
		Category: domain.ProductCategory(params.Category),
	})
	if err != nil {
		abortCatalogErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, convertProductResponse(product))
}

// Update PUT RouteGroup + ProductRoute.
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var params ProductParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.catalogSvs.UpdateProduct(ctx, repoargs.UpdateProduct{
		ID:       id,
		Name:     params.Name,
		Logo:     params.Logo,
		Category: domain.ProductCategory(params.Category),
	})
	if err != nil {
		abortCatalogErr(c, err)
		return
	}
	c.JSON(http.StatusOK, convertProductResponse(product))
}

// Delete DELETE RouteGroup + ProductRoute.
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.catalogSvs.DeleteProduct(ctx, id); err != nil {
		abortCatalogErr(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func convertProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:       product.ID,
		Name:     product.Name,
		Logo:     product.Logo,
		Category: string(product.Category),
	}
}

// abortCatalogErr конвертирует типовые ошибки каталога в http статусы.
func abortCatalogErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		_ = c.AbortWithError(http.StatusNotFound, err).SetType(gin.ErrorTypePrivate)
	case errors.Is(err, domain.ErrInvalidCategory):
		_ = c.AbortWithError(http.StatusBadRequest, domain.ErrInvalidCategory).SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
