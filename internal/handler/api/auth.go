package api

import (
	"errors"
	"net/http"

	reqdto "park-and-ride/internal/handler/dto/request"
	resdto "park-and-ride/internal/handler/dto/response"
	"park-and-ride/internal/handler/httperr"
	"park-and-ride/internal/handler/middleware"
	"park-and-ride/internal/pkg/errs"
	"park-and-ride/internal/usecase"

	"github.com/gin-gonic/gin"
)

var errNoUserInContext = errors.New("authenticated user missing from context")

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
}

func NewAuthHandler(authUseCase usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// @Summary Register user
// @Description Create an account with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 200 {object} resdto.MessageResponse
// @Failure 400 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	credentials, err := req.ToDomain()
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	if _, err := h.authUseCase.Register(c.Request.Context(), credentials); err != nil {
		if errs.Is(err, usecase.ErrUserAlreadyExists) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "User already exists", nil)
			return
		}
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.MessageResponse{Message: "User registered successfully"})
}

// @Summary User login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	token, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errs.Is(err, usecase.ErrInvalidCredentials) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid email or password", nil)
			return
		}
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{AccessToken: token})
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.MeResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoUserInContext, "Not authenticated", nil)
		return
	}

	u, err := h.authUseCase.GetCurrentUser(c.Request.Context(), email)
	if err != nil {
		if errs.Is(err, usecase.ErrUserNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
			return
		}
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUser(u))
}
