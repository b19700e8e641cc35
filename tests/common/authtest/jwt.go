//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"park-and-ride/internal/pkg/config"
	"park-and-ride/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, email string) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration).GenerateToken(email)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, email string) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, time.Millisecond).GenerateToken(email)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

// CreateForeignToken signs with a different secret, so the server must reject it.
func (h *JWTHelper) CreateForeignToken(t *testing.T, email string) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret+"-other", time.Hour).GenerateToken(email)
	require.NoError(t, err)
	return token
}
