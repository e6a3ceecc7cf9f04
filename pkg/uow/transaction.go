package uow

import (
	"github.com/jackc/pgx/v5"
)

// Transaction отдает зарегистрированные репозитории, привязанные к pgx.Tx.
// Все вызовы репозиториев, полученных через Get, попадают в одну транзакцию.
type Transaction struct {
	repositories map[RepositoryName]RepositoryFactory
	tx           pgx.Tx
}

func NewTransaction(tx pgx.Tx, repositories map[RepositoryName]RepositoryFactory) *Transaction {
	return &Transaction{
		repositories: repositories,
		tx:           tx,
	}
}

// Get возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (t *Transaction) Get(name RepositoryName) (Repository, error) {
	if factory, ok := t.repositories[name]; ok {
		return factory(t.tx), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetAs возвращает репозиторий с именем name, приведенный к типу T.
// Возвращает ошибки ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	var res T
	repo, err := t.Get(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}
