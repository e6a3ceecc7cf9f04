package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/accmarket/internal/domain"
)

type CreateUser struct {
	Username     string
	Email        string
	PasswordHash []byte
	PasswordSalt []byte
	Role         domain.RoleType
}

// AdjustBalance описывает условное изменение баланса юзера. Для направления
// debit репозиторий выполняет списание только при достаточном балансе.
type AdjustBalance struct {
	UserID    int64
	Direction domain.DirectionType
	Amount    decimal.Decimal
}
