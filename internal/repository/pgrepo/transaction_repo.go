package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

const transactionColumns = `id, created_at, user_id, direction, type, amount, description`

type TransactionRepository struct {
	conn uow.DBTX
}

func NewTransactionRepository(conn uow.DBTX) *TransactionRepository {
	return &TransactionRepository{conn: conn}
}

// Create добавляет строку в журнал. Журнал append-only: операций обновления
// и удаления у репозитория нет.
func (t *TransactionRepository) Create(
	ctx context.Context,
	transaction repoargs.TransactionCreate,
) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `
		INSERT INTO transactions (user_id, direction, type, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+transactionColumns,
		transaction.UserID, transaction.Direction, transaction.Type,
		transaction.Amount, transaction.Description,
	)
	dbTransaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating transaction for user `%d`", transaction.UserID)
	}
	return dbTransaction, nil
}

// GetByUserID возвращает журнал юзера, новые записи сверху.
func (t *TransactionRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return t.getTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// GetAll возвращает весь журнал, новые записи сверху.
func (t *TransactionRepository) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	return t.getTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY created_at DESC`)
}

func (t *TransactionRepository) getTransactions(
	ctx context.Context,
	query string,
	queryArgs ...any,
) ([]domain.Transaction, error) {
	rows, err := t.conn.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, convertErr(err, "getting transactions")
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning transaction")
		}
		transactions = append(transactions, *transaction)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting transactions")
	}
	return transactions, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction
	err := row.Scan(
		&transaction.ID, &transaction.CreatedAt, &transaction.UserID,
		&transaction.Direction, &transaction.Type, &transaction.Amount, &transaction.Description,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &transaction, nil
}
