//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"park-and-ride/internal/handler/dto/request"
	"park-and-ride/internal/handler/dto/response"
	"park-and-ride/tests/common/authtest"
	"park-and-ride/tests/common/dbtest"
	"park-and-ride/tests/common/httptest"
	"park-and-ride/tests/e2e"

	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/auth/register"
	loginURL    = "/auth/login"
	meURL       = "/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	dbtest.CreateTestUser(s.T(), s.DB, "existing@example.com")
}

func (s *authSuite) TestRegister() {
	s.Run("registers a new user who can then log in", func() {
		authtest.RegisterUser(s.T(), s.Router, "New.Driver@Example.com", "password123")

		token := authtest.LoginUser(s.T(), s.Router, "new.driver@example.com", "password123")
		s.NotEmpty(token)
	})

	s.Run("rejects a duplicate email", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "existing@example.com", Password: "password123"}, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "User already exists")
	})

	s.Run("rejects a short password", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "short@example.com", Password: "short"}, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid credentials", email: "existing@example.com", password: "password123", expectedStatus: http.StatusOK},
		{name: "unknown user", email: "nobody@example.com", password: "password123", expectedStatus: http.StatusBadRequest},
		{name: "wrong password", email: "existing@example.com", password: "wrongpassword", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")

			if tt.expectedStatus == http.StatusOK {
				var resp response.LoginResponse
				httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
				s.NotEmpty(resp.AccessToken)
				return
			}
			httptest.AssertErrorResponse(s.T(), w, tt.expectedStatus, "Invalid email or password")
		})
	}
}

func (s *authSuite) TestMe() {
	s.Run("returns the current user", func() {
		token := authtest.LoginUser(s.T(), s.Router, "existing@example.com", authtest.DefaultPassword)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, token)

		var resp response.MeResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal("existing@example.com", resp.UserID)
		s.Equal(0, resp.LoyaltyPoints)
	})

	s.Run("404 when the token belongs to a deleted user", func() {
		token := s.jwtHelper.GenerateToken(s.T(), "ghost@example.com")

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "User not found")
	})

	s.Run("401 for missing, expired and foreign tokens", func() {
		tokens := map[string]string{
			"missing": "",
			"expired": s.jwtHelper.CreateExpiredToken(s.T(), "existing@example.com"),
			"foreign": s.jwtHelper.CreateForeignToken(s.T(), "existing@example.com"),
		}
		for name, token := range tokens {
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, token)
			s.Equal(http.StatusUnauthorized, w.Code, name)
		}
	})
}
