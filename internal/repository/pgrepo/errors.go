package pgrepo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fsdevblog/accmarket/internal/domain"
)

const (
	uniqueViolationCode = "23505"
)

// convertErr приводит ошибку к стандартному виду для слоя репозитория.
// Особенности:
//   - pgx.ErrNoRows превращается в domain.ErrRecordNotFound.
//   - Нарушение уникального индекса (23505) - в domain.ErrDuplicateKey.
//   - Все остальные ошибки возвращаются как domain.ErrUnknown с оригинальным
//     сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			errType = domain.ErrDuplicateKey
		}
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}

// uniqueConstraint возвращает имя нарушенного уникального индекса, если
// err является ошибкой 23505. Иначе - пустую строку.
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName
	}
	return ""
}
