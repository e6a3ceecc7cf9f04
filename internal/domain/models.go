package domain

import (
	"github.com/shopspring/decimal"

	"time"
)

type User struct {
	ID           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Username     string
	Email        string
	PasswordHash []byte
	PasswordSalt []byte
	Role         RoleType
	Balance      decimal.Decimal
}

type Product struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Logo      string
	Category  ProductCategory
}

// Account - складская единица продукта (учетная запись на продажу).
// Count уменьшается только при подтверждении заказа админом.
type Account struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ProductID     int64
	Thumbnail     string
	Specification string
	Price         decimal.Decimal
	Count         int32
}

type Order struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     int64
	Status     OrderStatusType
	TotalPrice decimal.Decimal
	OrderDate  time.Time
	Items      []OrderItem
}

type OrderItem struct {
	ID          int64
	OrderID     int64
	AccountID   int64
	Quantity    int32
	SubPrice    decimal.Decimal
	Credentials []DeliveryCredential

	// Денормализованные поля для выдачи наружу. Заполняются репозиторием
	// при выборке с присоединенными accounts/products/users.
	ProductName   string
	Specification string
	Username      string
}

// DeliveryCredential - доставленные покупателю реквизиты учетной записи.
// Создаются исключительно в момент подтверждения заказа.
type DeliveryCredential struct {
	ID          int64
	OrderItemID int64
	Email       string
	Password    string
}

// Transaction - строка append-only журнала движения баланса.
// Amount всегда положительный, знак определяется Direction.
type Transaction struct {
	ID          int64
	CreatedAt   time.Time
	UserID      int64
	Direction   DirectionType
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
}
