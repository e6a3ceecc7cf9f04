package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

const accountColumns = `id, created_at, updated_at, product_id, thumbnail, specification, price, count`

type AccountRepository struct {
	conn uow.DBTX
}

func NewAccountRepository(conn uow.DBTX) *AccountRepository {
	return &AccountRepository{conn: conn}
}

func (a *AccountRepository) Create(ctx context.Context, account repoargs.CreateAccount) (*domain.Account, error) {
	row := a.conn.QueryRow(ctx, `
		INSERT INTO accounts (product_id, thumbnail, specification, price, count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		account.ProductID, account.Thumbnail, account.Specification, account.Price, account.Count,
	)
	dbAccount, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "creating account for product `%d`", account.ProductID)
	}
	return dbAccount, nil
}

func (a *AccountRepository) Update(ctx context.Context, account repoargs.UpdateAccount) (*domain.Account, error) {
	row := a.conn.QueryRow(ctx, `
		UPDATE accounts
		SET thumbnail = $1, specification = $2, price = $3, count = $4, updated_at = now()
		WHERE id = $5
		RETURNING `+accountColumns,
		account.Thumbnail, account.Specification, account.Price, account.Count, account.ID,
	)
	dbAccount, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "updating account `%d`", account.ID)
	}
	return dbAccount, nil
}

func (a *AccountRepository) Delete(ctx context.Context, id int64) error {
	tag, err := a.conn.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting account `%d`", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting account `%d`", id)
	}
	return nil
}

func (a *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := a.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	dbAccount, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "finding account `%d`", id)
	}
	return dbAccount, nil
}

func (a *AccountRepository) GetByProductID(ctx context.Context, productID int64) ([]domain.Account, error) {
	rows, err := a.conn.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, convertErr(err, "getting accounts by product `%d`", productID)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, scanErr := scanAccount(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning account")
		}
		accounts = append(accounts, *account)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting accounts by product `%d`", productID)
	}
	return accounts, nil
}

// DecrementStock условно списывает склад: строка обновляется только если
// остатка хватает. При нехватке возвращается *domain.InsufficientStockError,
// при отсутствии аккаунта - domain.ErrRecordNotFound.
func (a *AccountRepository) DecrementStock(ctx context.Context, args repoargs.DecrementStock) (*domain.Account, error) {
	row := a.conn.QueryRow(ctx, `
		UPDATE accounts SET count = count - $1, updated_at = now()
		WHERE id = $2 AND count >= $1
		RETURNING `+accountColumns,
		args.Quantity, args.AccountID,
	)
	dbAccount, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, findErr := a.FindByID(ctx, args.AccountID)
			if findErr != nil {
				return nil, findErr
			}
			return nil, domain.NewInsufficientStockError(existing.ID, existing.Specification)
		}
		return nil, convertErr(err, "decrementing stock for account `%d`", args.AccountID)
	}
	return dbAccount, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID, &account.CreatedAt, &account.UpdatedAt, &account.ProductID,
		&account.Thumbnail, &account.Specification, &account.Price, &account.Count,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &account, nil
}
