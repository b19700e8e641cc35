//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"park-and-ride/internal/handler/dto/request"
	"park-and-ride/internal/handler/dto/response"
	"park-and-ride/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const DefaultPassword = "password123"

func RegisterUser(t *testing.T, router *gin.Engine, email, password string) {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/auth/register",
		request.RegisterRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response.LoginResponse
	httptest.DecodeResponseBody(t, w.Body, &resp)
	require.NotEmpty(t, resp.AccessToken, "access_token missing from login response")

	return resp.AccessToken
}

func RegisterAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	RegisterUser(t, router, email, DefaultPassword)
	return LoginUser(t, router, email, DefaultPassword)
}
