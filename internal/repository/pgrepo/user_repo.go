package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

const userColumns = `id, created_at, updated_at, username, email, password_hash, password_salt, role, balance`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateUser создает юзера. При конфликте юзернейма или email возвращает
// *domain.DuplicateFieldError с именем занятого поля.
func (u *UserRepository) CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, password_salt, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Username, user.Email, user.PasswordHash, user.PasswordSalt, user.Role,
	)
	dbUser, err := scanUser(row)
	if err != nil {
		switch uniqueConstraint(err) {
		case "users_username_key":
			return nil, domain.NewDuplicateFieldError("username")
		case "users_email_key":
			return nil, domain.NewDuplicateFieldError("email")
		}
		return nil, convertErr(err, "creating user `%s`", user.Username)
	}
	return dbUser, nil
}

// FindByUsername ищет юзера по юзернейму. Возвращает domain.ErrRecordNotFound
// если запись не найдена, во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username `%s`", username)
	}
	return dbUser, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id `%d`", id)
	}
	return dbUser, nil
}

// AdjustBalance атомарно изменяет баланс юзера. Списание (debit) выполняется
// только при достаточном балансе, иначе возвращается domain.ErrNotEnoughBalance.
func (u *UserRepository) AdjustBalance(ctx context.Context, args repoargs.AdjustBalance) (*domain.User, error) {
	var row pgx.Row
	if args.Direction == domain.DirectionDebit {
		row = u.conn.QueryRow(ctx, `
			UPDATE users SET balance = balance - $1, updated_at = now()
			WHERE id = $2 AND balance >= $1
			RETURNING `+userColumns,
			args.Amount, args.UserID,
		)
	} else {
		row = u.conn.QueryRow(ctx, `
			UPDATE users SET balance = balance + $1, updated_at = now()
			WHERE id = $2
			RETURNING `+userColumns,
			args.Amount, args.UserID,
		)
	}

	dbUser, err := scanUser(row)
	if err != nil {
		// Для списания отсутствие строки означает либо нехватку баланса,
		// либо отсутствие юзера. Различаем дополнительной выборкой.
		if args.Direction == domain.DirectionDebit && errors.Is(err, pgx.ErrNoRows) {
			if _, findErr := u.FindByID(ctx, args.UserID); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrNotEnoughBalance
		}
		return nil, convertErr(err, "adjusting balance for user `%d`", args.UserID)
	}
	return dbUser, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username, &user.Email,
		&user.PasswordHash, &user.PasswordSalt, &user.Role, &user.Balance,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}
