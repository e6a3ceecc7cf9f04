package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/accmarket/internal/domain"
)

type CreateProduct struct {
	Name     string
	Logo     string
	Category domain.ProductCategory
}

type UpdateProduct struct {
	ID       int64
	Name     string
	Logo     string
	Category domain.ProductCategory
}

type CreateAccount struct {
	ProductID     int64
	Thumbnail     string
	Specification string
	Price         decimal.Decimal
	Count         int32
}

type UpdateAccount struct {
	ID            int64
	Thumbnail     string
	Specification string
	Price         decimal.Decimal
	Count         int32
}

// DecrementStock - условное списание склада. Выполняется только если
// остатка хватает, иначе репозиторий возвращает domain.ErrRecordNotFound.
type DecrementStock struct {
	AccountID int64
	Quantity  int32
}
