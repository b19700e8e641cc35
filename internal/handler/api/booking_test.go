//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/handler/api"
	resdto "park-and-ride/internal/handler/dto/response"
	"park-and-ride/internal/pkg/errs"
	"park-and-ride/internal/usecase"
	"park-and-ride/tests/common/builder"
	"park-and-ride/tests/common/httptest"
	"park-and-ride/tests/common/testutil"
	usecasemock "park-and-ride/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// sameInstant matches a time.Time equal to t regardless of location.
type sameInstant struct{ t time.Time }

func (m sameInstant) Matches(x any) bool {
	t, ok := x.(time.Time)
	return ok && t.Equal(m.t)
}

func (m sameInstant) String() string { return "is " + m.t.Format(time.RFC3339) }

type BookingHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockUseCase *usecasemock.MockBookingUseCase
	handler     *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	s.router = newTestRouter()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUseCase = usecasemock.NewMockBookingUseCase(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockUseCase)

	protected := s.router.Group("")
	protected.Use(newAuthMiddleware(s.mockCtrl).RequireAuth())
	protected.POST("/book", s.handler.Book)
	protected.POST("/cancel", s.handler.Cancel)
	protected.GET("/occupancy", s.handler.Occupancy)
	protected.GET("/slot-occupied", s.handler.SlotOccupied)
	protected.POST("/find-slot", s.handler.FindSlot)
	protected.GET("/free-slots", s.handler.FreeSlots)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestBook() {
	url := "/book"
	b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.Slot = parking.Slot{Row: 0, Col: 1}
	})
	reqBody := b.BuildBody()

	s.Run("success: returns slot, window and ticket", func() {
		s.mockUseCase.EXPECT().Book(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req usecase.BookRequest) (*usecase.BookResult, error) {
				s.True(req.Start.Equal(b.Start))
				s.Equal(parking.Span{Hours: 2}, req.Span)
				s.Equal("ABC123", req.Plate)
				s.Equal(currentEmail, req.BookedBy)
				s.Empty(req.IdempotencyKey)
				return b.BuildResult(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, validToken)

		var response resdto.BookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(resdto.SlotResponse{Row: 0, Col: 1}, response.Slot)
		s.True(response.Start.Equal(b.Start))
		s.True(response.End.Equal(b.Start.Add(2 * time.Hour)))
		s.Equal("qr-token", response.QR)
	})

	s.Run("success: forwards the Idempotency-Key header", func() {
		s.mockUseCase.EXPECT().Book(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req usecase.BookRequest) (*usecase.BookResult, error) {
				s.Equal("retry-1", req.IdempotencyKey)
				return b.BuildResult(), nil
			}).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, validToken,
			map[string]string{"Idempotency-Key": "  retry-1 "})
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: accepts RFC 3339 start with offset", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("start", "2024-01-01T12:00:00+02:00"))
		s.mockUseCase.EXPECT().Book(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req usecase.BookRequest) (*usecase.BookResult, error) {
				s.True(req.Start.Equal(b.Start))
				return b.BuildResult(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, validToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 401 without a bearer token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Not authenticated")
	})

	s.Run("error: 400 when the Idempotency-Key is too long", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, validToken,
			map[string]string{"Idempotency-Key": strings.Repeat("k", 256)})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key is too long")
	})

	s.Run("error: 400 Bad Request on malformed bodies", func() {
		testCases := []struct {
			name        string
			mutate      func(m map[string]any)
			expectedMsg string
		}{
			{name: "missing field: start (required)", mutate: testutil.Field("start", nil), expectedMsg: "Invalid request format"},
			{name: "missing field: plate (required)", mutate: testutil.Field("plate", nil), expectedMsg: "Invalid request format"},
			{name: "plate too long", mutate: testutil.Field("plate", strings.Repeat("A", 17)), expectedMsg: "Invalid request format"},
			{name: "plate with symbols", mutate: testutil.Field("plate", "AB#123"), expectedMsg: "Invalid request format"},
			{name: "unparseable start", mutate: testutil.Field("start", "tomorrow"), expectedMsg: "invalid timestamp"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, validToken)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.expectedMsg)
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			useCaseError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "no slot available",
				useCaseError:   parking.ErrNoSlotAvailable,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "no slot available",
			},
			{
				name:           "invalid window",
				useCaseError:   parking.ErrInvalidWindow,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "invalid booking window",
			},
			{
				name:           "idempotency key reused",
				useCaseError:   errs.Wrap(errs.ErrIdempotencyKeyReused, "key-1"),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Idempotency key reused",
			},
			{
				name:           "idempotency in progress",
				useCaseError:   errs.ErrIdempotencyInProgress,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "being processed",
			},
			{
				name:           "internal server error",
				useCaseError:   errors.New("store unavailable"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockUseCase.EXPECT().Book(gomock.Any(), gomock.Any()).
					Return(nil, tc.useCaseError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, validToken)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	url := "/cancel"
	b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.Slot = parking.Slot{Row: 1, Col: 0}
	})
	reqBody := b.BuildCancelBody()

	s.Run("success: returns confirmation message", func() {
		s.mockUseCase.EXPECT().Cancel(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req usecase.CancelRequest) error {
				s.Equal(1, req.Row)
				s.Equal(0, req.Col)
				s.True(req.Start.Equal(b.Start))
				s.True(req.End.Equal(b.End()))
				s.Equal("ABC123", req.Plate)
				return nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, validToken)

		var response resdto.MessageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("Cancelled successfully", response.Message)
	})

	s.Run("success: row and col zero are accepted", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("row", 0))
		s.mockUseCase.EXPECT().Cancel(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, validToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request on missing fields", func() {
		for _, field := range []string{"row", "col", "start", "end", "plate"} {
			s.Run("missing field: "+field, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field(field, nil))
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, validToken)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 400 when no reservation matches", func() {
		s.mockUseCase.EXPECT().Cancel(gomock.Any(), gomock.Any()).
			Return(parking.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, validToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "reservation not found")
	})
}

func (s *BookingHandlerTestSuite) TestPointQueries() {
	at := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	matchAt := sameInstant{at}

	s.Run("occupancy: returns occupied and total", func() {
		s.mockUseCase.EXPECT().OccupancyAt(gomock.Any(), matchAt).Return(3, nil).Times(1)
		s.mockUseCase.EXPECT().Total().Return(4).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/occupancy?at=2024-01-01T11:00:00", nil, validToken)

		var response resdto.OccupancyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(resdto.OccupancyResponse{Occupied: 3, Total: 4}, response)
	})

	s.Run("free-slots: returns free and total", func() {
		s.mockUseCase.EXPECT().FreeSlotsAt(gomock.Any(), matchAt).Return(1, nil).Times(1)
		s.mockUseCase.EXPECT().Total().Return(4).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/free-slots?at=2024-01-01T11:00:00Z", nil, validToken)

		var response resdto.FreeSlotsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(resdto.FreeSlotsResponse{Free: 1, Total: 4}, response)
	})

	s.Run("slot-occupied: passes the label through", func() {
		s.mockUseCase.EXPECT().IsSlotOccupied(gomock.Any(), "r0c1", matchAt).Return(true, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slot-occupied?slot=r0c1&at=2024-01-01T11:00:00", nil, validToken)

		var response resdto.SlotOccupiedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Occupied)
	})

	s.Run("slot-occupied: 400 on an invalid label", func() {
		s.mockUseCase.EXPECT().IsSlotOccupied(gomock.Any(), "X9", gomock.Any()).
			Return(false, parking.ErrInvalidSlotLabel).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slot-occupied?slot=X9&at=2024-01-01T11:00:00", nil, validToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid slot label")
	})

	s.Run("error: 400 when the instant is missing or malformed", func() {
		testCases := []struct {
			name        string
			path        string
			expectedMsg string
		}{
			{name: "occupancy without at", path: "/occupancy", expectedMsg: "Missing query parameter: at"},
			{name: "free-slots with empty at", path: "/free-slots?at=", expectedMsg: "Missing query parameter: at"},
			{name: "occupancy with garbage at", path: "/occupancy?at=noon", expectedMsg: "invalid timestamp"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, tc.path, nil, validToken)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.expectedMsg)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestFindSlot() {
	url := "/find-slot?start=2024-01-01T10:00:00&end=2024-01-01T12:00:00"

	s.Run("success: returns the first free slot", func() {
		s.mockUseCase.EXPECT().FindSlot(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, w parking.TimeWindow) (parking.Slot, bool, error) {
				s.Equal(2*time.Hour, w.End.Sub(w.Start))
				return parking.Slot{Row: 1, Col: 1}, true, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, validToken)

		var response resdto.FindSlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(resdto.SlotResponse{Row: 1, Col: 1}, response.Slot)
	})

	s.Run("error: 404 when every slot is taken", func() {
		s.mockUseCase.EXPECT().FindSlot(gomock.Any(), gomock.Any()).
			Return(parking.Slot{}, false, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, validToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "No available slot")
	})

	s.Run("error: 400 when end is not after start", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/find-slot?start=2024-01-01T12:00:00&end=2024-01-01T12:00:00", nil, validToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid booking window")
	})

	s.Run("error: 400 when end is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/find-slot?start=2024-01-01T12:00:00", nil, validToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Missing query parameter: end")
	})
}
