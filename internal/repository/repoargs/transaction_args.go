package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/accmarket/internal/domain"
)

type TransactionCreate struct {
	UserID      int64
	Direction   domain.DirectionType
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Description string
}
