package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/logger"
	"github.com/fsdevblog/accmarket/internal/transport/api/mocks"
	"github.com/fsdevblog/accmarket/internal/transport/api/testutils"
	"github.com/fsdevblog/accmarket/internal/transport/api/tokens"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
	jwtSecret       []byte
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		UserService:  s.mockUserService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *AuthHandlerTestSuite) TestRegister() {
	validUsername := gofakeit.Username()
	validEmail := gofakeit.Email()
	validPassword := "qwerty123"

	savedUser := domain.User{
		ID:        1,
		CreatedAt: time.Now(),
		Username:  validUsername,
		Email:     validEmail,
		Role:      domain.RoleCustomer,
	}
	savedUserToken, tokenErr := tokens.GenerateUserJWT(&savedUser, time.Hour, s.jwtSecret)
	s.Require().NoError(tokenErr)

	takenUsername := "taken"

	// Моки
	// Валидный запрос.
	s.mockUserService.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(&savedUser, savedUserToken, nil).Times(1)
	// Занятый юзернейм.
	s.mockUserService.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(nil, "", domain.NewDuplicateFieldError("username")).Times(1)

	validPayload := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`,
		validUsername, validEmail, validPassword)
	takenPayload := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`,
		takenUsername, gofakeit.Email(), validPassword)
	shortPasswordPayload := fmt.Sprintf(`{"username":%q,"email":%q,"password":"123"}`,
		validUsername, validEmail)

	cases := []struct {
		name       string
		payload    string
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", payload: validPayload, wantStatus: http.StatusOK},
		{name: "duplicate username", payload: takenPayload, wantStatus: http.StatusBadRequest},
		{name: "short password", payload: shortPasswordPayload, wantStatus: http.StatusUnprocessableEntity},
		{name: "broken json", payload: `{"username":`, wantStatus: http.StatusBadRequest},
		{
			name:       "already authorized",
			payload:    validPayload,
			jwtToken:   savedUserToken,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			opts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/json"),
			}
			if t.jwtToken != "" {
				opts = append(opts, testutils.WithHeader("Authorization", "Bearer "+t.jwtToken))
			}

			resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewBufferString(t.payload),
			}, opts...)
			s.Require().NoError(reqErr)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantStatus == http.StatusOK {
				s.Equal("Bearer "+savedUserToken, resp.Header.Get("Authorization"))

				var body struct {
					User  UserResponse `json:"user"`
					Token string       `json:"token"`
				}
				s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
				s.Equal(savedUser.ID, body.User.ID)
				s.Equal(savedUserToken, body.Token)
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	savedUser := domain.User{
		ID:       1,
		Username: "test",
		Role:     domain.RoleCustomer,
	}
	savedUserToken, tokenErr := tokens.GenerateUserJWT(&savedUser, time.Hour, s.jwtSecret)
	s.Require().NoError(tokenErr)

	// Моки
	s.mockUserService.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(&savedUser, savedUserToken, nil).Times(1)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(nil, "", domain.ErrPasswordMissMatch).Times(1)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(nil, "", domain.ErrRecordNotFound).Times(1)

	cases := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{name: "all ok", payload: `{"username":"test","password":"qwerty123"}`, wantStatus: http.StatusOK},
		{name: "wrong password", payload: `{"username":"test","password":"wrong pass"}`, wantStatus: http.StatusUnauthorized},
		{name: "unknown username", payload: `{"username":"ghost","password":"qwerty123"}`, wantStatus: http.StatusUnauthorized},
		{name: "broken json", payload: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewBufferString(t.payload),
			}, testutils.WithHeader("Content-Type", "application/json"))
			s.Require().NoError(reqErr)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantStatus == http.StatusOK {
				s.Equal("Bearer "+savedUserToken, resp.Header.Get("Authorization"))
			}
		})
	}
}
