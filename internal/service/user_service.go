package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/internal/transport/api/tokens"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

const JWTTokenExpire = 2 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	psswd          PasswordHasher
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte, psswd PasswordHasher) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		psswd:          psswd,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Username string
	Email    string
	Password string
	Role     domain.RoleType
}

// Register создает юзера и сразу аутентифицирует его. Возвращает 3 значения:
// созданный юзер, jwt токен и ошибка. Занятый юзернейм или email вернется
// как *domain.DuplicateFieldError с именем поля.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	hash, salt, hashErr := s.psswd.HashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}

	role := args.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	var user *domain.User
	var token string
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		var userErr, tokenErr error
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Username:     args.Username,
			Email:        args.Email,
			PasswordHash: hash,
			PasswordSalt: salt,
			Role:         role,
		})
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		token, tokenErr = tokens.GenerateUserJWT(user, JWTTokenExpire, s.jwtTokenSecret)
		if tokenErr != nil {
			return tokenErr //nolint:wrapcheck
		}
		return nil
	})

	if txErr != nil {
		var duplicateErr *domain.DuplicateFieldError
		if errors.As(txErr, &duplicateErr) {
			return nil, "", txErr
		}
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}
	return user, token, nil
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login аутентифицирует юзера по паре логин/пароль. При неизвестном юзернейме
// возвращает domain.ErrRecordNotFound, при неверном пароле -
// domain.ErrPasswordMissMatch.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByUsername(ctx, args.Username)
	if findErr != nil {
		return nil, "", findErr //nolint:wrapcheck
	}

	if !s.psswd.ComparePassword(args.Password, user.PasswordHash, user.PasswordSalt) {
		return nil, "", domain.ErrPasswordMissMatch
	}

	token, tokenErr := tokens.GenerateUserJWT(user, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging in user: %w", tokenErr)
	}
	return user, token, nil
}
