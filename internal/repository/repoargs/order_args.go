package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/accmarket/internal/domain"
)

// UpsertOrderItem добавляет позицию в заказ или, если позиция с таким
// аккаунтом уже есть, увеличивает количество. Стоимость строки в обоих
// случаях пересчитывается как итоговое количество умноженное на Price.
type UpsertOrderItem struct {
	OrderID   int64
	AccountID int64
	Quantity  int32
	Price     decimal.Decimal
}

type UpdateOrderStatus struct {
	OrderID int64
	Status  domain.OrderStatusType
}

type CreateDeliveryCredential struct {
	OrderItemID int64
	Email       string
	Password    string
}
