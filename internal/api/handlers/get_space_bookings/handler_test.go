package get_space_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-VenueService/internal/service/bookings"
	"github.com/m04kA/SMC-VenueService/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListBySpace(ctx context.Context, req *models.ListSpaceBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

func get(svc *mockService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/spaces/{spaceId}/bookings", NewHandler(svc, time.UTC, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_FilterIsPassedThrough(t *testing.T) {
	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	svc := new(mockService)
	svc.On("ListBySpace", mock.Anything, mock.MatchedBy(func(req *models.ListSpaceBookingsRequest) bool {
		return req.SpaceID == 7 &&
			req.From != nil && req.From.Equal(from) &&
			req.To != nil && req.To.Equal(from.AddDate(0, 0, 3)) &&
			req.Status != nil && *req.Status == "approved" &&
			req.IncludeInactive
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}}}, nil)

	rec := get(svc, "/spaces/7/bookings?from=2025-06-01&to=2025-06-03&status=approved&includeInactive=true")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":1`)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		svcErr     error
		wantStatus int
	}{
		{"bad from", "/spaces/7/bookings?from=June", nil, http.StatusBadRequest},
		{"bad includeInactive", "/spaces/7/bookings?includeInactive=sometimes", nil, http.StatusBadRequest},
		{"space not found", "/spaces/7/bookings", bookings.ErrSpaceNotFound, http.StatusNotFound},
		{"invalid status", "/spaces/7/bookings?status=archived", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"internal", "/spaces/7/bookings", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			if tt.svcErr != nil {
				svc.On("ListBySpace", mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}

			rec := get(svc, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
