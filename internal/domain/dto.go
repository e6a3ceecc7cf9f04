package domain

type OrderStatusType string

// Жизненный цикл заказа линейный: корзина наполняется покупателем,
// чекаут переводит её в ожидание, подтверждение админом завершает заказ.
const (
	OrderStatusCart      OrderStatusType = "cart"
	OrderStatusPending   OrderStatusType = "pending"
	OrderStatusCompleted OrderStatusType = "completed"
)

type RoleType string

const (
	RoleCustomer RoleType = "customer"
	RoleAdmin    RoleType = "admin"
)

type ProductCategory string

// Закрытый перечень категорий каталога. Любое другое значение отклоняется
// на этапе валидации.
const (
	CategorySoftwareEditing ProductCategory = "Software_editing"
	CategoryStreaming       ProductCategory = "Streaming"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategorySoftwareEditing, CategoryStreaming:
		return true
	}
	return false
}

type DirectionType string

const (
	DirectionDebit  DirectionType = "debit"
	DirectionCredit DirectionType = "credit"
)

type TransactionType string

const (
	TransactionTopup        TransactionType = "topup"
	TransactionOrderPayment TransactionType = "order_payment"
	TransactionOrderIncome  TransactionType = "order_income"
)
