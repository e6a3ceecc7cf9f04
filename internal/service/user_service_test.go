package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/internal/service/mocks"
	"github.com/fsdevblog/accmarket/internal/transport/api/tokens"
	"github.com/fsdevblog/accmarket/pkg/uow"
	uowmocks "github.com/fsdevblog/accmarket/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUserRepo *mocks.MockUserRepository
	mockPsswd    *mocks.MockPasswordHasher
	jwtSecret    []byte
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockPsswd = mocks.NewMockPasswordHasher(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)

	s.jwtSecret = []byte("secret")

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	// Инициализация сервиса.
	userService, servErr := NewUserService(s.mockUOW, s.jwtSecret, s.mockPsswd)
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UserServiceTestSuite) expectTX() {
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
}

func (s *UserServiceTestSuite) TestRegister() {
	args := RegisterUserArgs{
		Username: "test",
		Email:    "test@example.com",
		Password: "<PASSWORD>",
	}

	hash := []byte("digest")
	salt := []byte("salt")

	savedUser := domain.User{
		ID:           1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Username:     args.Username,
		Email:        args.Email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         domain.RoleCustomer,
	}

	s.expectTX()
	s.mockPsswd.EXPECT().HashPassword(args.Password).Return(hash, salt, nil)
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), repoargs.CreateUser{
			Username:     args.Username,
			Email:        args.Email,
			PasswordHash: hash,
			PasswordSalt: salt,
			Role:         domain.RoleCustomer,
		}).
		Return(&savedUser, nil)

	user, tokenStr, err := s.userService.Register(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(savedUser.ID, user.ID)
	s.NotEmpty(tokenStr)

	// Токен должен нести идентичность и роль созданного юзера.
	token, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
	s.Require().NoError(tokenErr)
	claims := token.Claims.(*tokens.UserClaims) //nolint:errcheck
	s.Equal(savedUser.ID, claims.ID)
	s.Equal(savedUser.Username, claims.Username)
	s.Equal(domain.RoleCustomer, claims.Role)
}

func (s *UserServiceTestSuite) TestRegisterDuplicateUsername() {
	args := RegisterUserArgs{
		Username: "taken",
		Email:    "taken@example.com",
		Password: "<PASSWORD>",
	}

	duplicateErr := &domain.DuplicateFieldError{Field: "username"}

	s.expectTX()
	s.mockPsswd.EXPECT().HashPassword(args.Password).Return([]byte("digest"), []byte("salt"), nil)
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, duplicateErr)

	user, tokenStr, err := s.userService.Register(s.T().Context(), args)
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)

	var dErr *domain.DuplicateFieldError
	s.Require().ErrorAs(err, &dErr)
	s.Equal("username", dErr.Field)
	s.Nil(user)
	s.Empty(tokenStr)
}

func (s *UserServiceTestSuite) TestLogin() {
	savedUserUsername := "test"
	// аргументы вызовов для кейсов ниже.
	argsOk := LoginUserArgs{
		Username: savedUserUsername,
		Password: "<PASSWORD>",
	}
	argsWrongUsername := LoginUserArgs{
		Username: "wrong",
		Password: "<PASSWORD>",
	}
	argsWrongPass := LoginUserArgs{
		Username: savedUserUsername,
		Password: "wrong pass",
	}

	validHash := []byte("hash ok")
	validSalt := []byte("salt ok")

	savedUser := domain.User{
		ID:           1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Username:     savedUserUsername,
		PasswordHash: validHash,
		PasswordSalt: validSalt,
		Role:         domain.RoleAdmin,
	}

	// Мок для сравнения пароля.
	s.mockPsswd.EXPECT().ComparePassword(argsOk.Password, validHash, validSalt).Return(true)
	s.mockPsswd.EXPECT().ComparePassword(argsWrongUsername.Password, validHash, validSalt).Times(0)
	s.mockPsswd.EXPECT().ComparePassword(argsWrongPass.Password, validHash, validSalt).Return(false)

	// Мок репозитория.
	s.mockUserRepo.EXPECT().
		FindByUsername(gomock.Any(), savedUserUsername).
		Return(&savedUser, nil).Times(2)

	s.mockUserRepo.EXPECT().
		FindByUsername(gomock.Any(), argsWrongUsername.Username).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name    string
		args    LoginUserArgs
		wantErr error
	}{
		{name: "ok", args: argsOk, wantErr: nil},
		{name: "wrong username", args: argsWrongUsername, wantErr: domain.ErrRecordNotFound},
		{name: "wrong password", args: argsWrongPass, wantErr: domain.ErrPasswordMissMatch},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Login(s.T().Context(), t.args)
			s.Require().ErrorIs(err, t.wantErr)

			if t.wantErr == nil {
				s.NotNil(user)
				s.NotEmpty(tokenStr)

				token, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				claims := token.Claims.(*tokens.UserClaims) //nolint:errcheck
				s.Equal(savedUser.ID, claims.ID)
				s.Equal(domain.RoleAdmin, claims.Role)
			}
		})
	}
}
