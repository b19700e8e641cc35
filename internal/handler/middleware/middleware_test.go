//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"park-and-ride/internal/handler/httperr"
	"park-and-ride/internal/handler/middleware"
	"park-and-ride/internal/pkg/config"
	"park-and-ride/tests/common/httptest"
	usecasemock "park-and-ride/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequireAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := usecasemock.NewMockTokenValidator(ctrl)
	validator.EXPECT().ValidateToken("good").Return("driver@example.com", nil).AnyTimes()
	validator.EXPECT().ValidateToken("expired").Return("", errors.New("token has expired")).AnyTimes()

	r := newEngine()
	r.GET("/whoami", middleware.NewAuthMiddleware(validator).RequireAuth(), func(c *gin.Context) {
		email, ok := middleware.GetUserEmail(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": email})
	})

	t.Run("sets the subject for valid tokens", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/whoami", nil, "good")

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, "driver@example.com", body["email"])
	})

	t.Run("accepts a lowercase scheme", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/whoami", nil, "",
			map[string]string{"Authorization": "bearer good"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects missing and malformed headers", func(t *testing.T) {
		for _, header := range []string{"", "Basic Zm9vOmJhcg==", "Bearer "} {
			rec := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/whoami", nil, "",
				map[string]string{"Authorization": header})
			httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Not authenticated")
		}
	})

	t.Run("rejects tokens the validator refuses", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/whoami", nil, "expired")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func TestRateLimiter(t *testing.T) {
	r := newEngine()
	r.Use(middleware.NewRateLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 2}).Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/ping", nil, "")
		require.Equal(t, http.StatusNoContent, rec.Code, "request %d within burst", i)
	}

	rec := httptest.PerformRequest(t, r, http.MethodGet, "/ping", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusTooManyRequests, "Rate limit exceeded")
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{RPS: 10, Burst: 10, IdleTTL: time.Minute})
	r := newEngine()
	r.Use(limiter.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		rec := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/ping", nil, "",
			map[string]string{"X-Forwarded-For": ip})
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	require.Equal(t, 3, limiter.Clients())

	assert.Zero(t, limiter.Sweep(time.Now()), "recently seen clients stay")
	assert.Equal(t, 3, limiter.Sweep(time.Now().Add(2*time.Minute)))
	assert.Zero(t, limiter.Clients())
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.Use(middleware.ErrorHandler())
	r.GET("/public", func(c *gin.Context) {
		resp := httperr.NewResponse(http.StatusConflict, "Already taken", nil)
		_ = c.Error(gin.Error{Err: errors.New("conflict"), Type: gin.ErrorTypePublic, Meta: resp})
	})
	r.GET("/private", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/clean", func(c *gin.Context) {})

	t.Run("renders public errors with their status", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/public", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "Already taken")
	})

	t.Run("hides private errors behind a 500", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})

	t.Run("leaves error-free responses alone", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/clean", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestCustomRecovery(t *testing.T) {
	r := newEngine()
	r.Use(middleware.CustomRecovery())
	r.GET("/panic", func(c *gin.Context) { panic("unexpected") })

	rec := httptest.PerformRequest(t, r, http.MethodGet, "/panic", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}

type recordedRequest struct {
	method, route string
	status        int
}

type recordingObserver struct {
	seen []recordedRequest
}

func (o *recordingObserver) Observe(method, route string, status int, _ time.Duration) {
	o.seen = append(o.seen, recordedRequest{method: method, route: route, status: status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}
	r := newEngine()
	r.Use(middleware.Metrics(observer))
	r.GET("/lots/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	httptest.PerformRequest(t, r, http.MethodGet, "/lots/main", nil, "")
	httptest.PerformRequest(t, r, http.MethodGet, "/missing", nil, "")

	require.Len(t, observer.seen, 2)
	assert.Equal(t, recordedRequest{method: http.MethodGet, route: "/lots/:id", status: http.StatusAccepted}, observer.seen[0])
	assert.Equal(t, recordedRequest{method: http.MethodGet, route: "", status: http.StatusNotFound}, observer.seen[1])
}

func TestNewResponse_DetailDefaultsToMessage(t *testing.T) {
	resp := httperr.NewResponse(http.StatusBadRequest, "Bad input", nil)
	assert.Equal(t, "Bad input", resp.Detail)

	withDetail := httperr.NewResponse(http.StatusBadRequest, "Bad input", []string{"plate"})
	assert.Equal(t, []string{"plate"}, withDetail.Detail)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	logger := middleware.NewLogger(config.NewTestConfig().Log)
	r := newEngine()
	r.Use(logger.LoggingMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	t.Run("inbound id is echoed", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/ping", nil, "",
			map[string]string{middleware.RequestIDHeader: "trace-42"})

		httptest.AssertHeaders(t, rec, map[string]string{middleware.RequestIDHeader: "trace-42"})
		assert.Equal(t, "trace-42", rec.Body.String())
	})

	t.Run("malformed id is replaced", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/ping", nil, "",
			map[string]string{middleware.RequestIDHeader: "has spaces in it"})

		got := rec.Header().Get(middleware.RequestIDHeader)
		assert.NotEmpty(t, got)
		assert.NotEqual(t, "has spaces in it", got)
		assert.Equal(t, got, rec.Body.String())
	})
}

func TestCORS_ExposesRequestID(t *testing.T) {
	r := newEngine()
	r.Use(middleware.NewCORSMiddleware(config.CORSConfig{
		AllowOrigins: []string{"https://app.example.com"},
		AllowMethods: []string{http.MethodGet},
		MaxAge:       time.Hour,
	}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/ping", nil, "",
		map[string]string{"Origin": "https://app.example.com"})

	httptest.AssertHeaders(t, rec, map[string]string{
		"Access-Control-Allow-Origin":   "https://app.example.com",
		"Access-Control-Expose-Headers": http.CanonicalHeaderKey(middleware.RequestIDHeader),
	})
}
