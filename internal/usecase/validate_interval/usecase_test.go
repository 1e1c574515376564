package validate_interval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueService/internal/domain"
	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	"github.com/m04kA/SMC-VenueService/pkg/logger"
	"github.com/m04kA/SMC-VenueService/pkg/retry"
)

type mockBookingRepository struct {
	mock.Mock
}

func (m *mockBookingRepository) GetBySpaceWithFilter(ctx context.Context, filter domain.SpaceBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookingRepository) FetchActiveIntervals(ctx context.Context, spaceID int64, from, to time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, spaceID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockSpaceRepository struct {
	mock.Mock
}

func (m *mockSpaceRepository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Space), args.Error(1)
}

func at(day, hour int) time.Time {
	return time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC)
}

func booking(id int64, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{ID: id, SpaceID: 7, StartAt: start, EndAt: end, Status: status}
}

func newUseCase(bookings *mockBookingRepository, projection bool) *UseCase {
	spaces := new(mockSpaceRepository)
	spaces.On("GetByID", mock.Anything, int64(7)).Return(&domain.Space{ID: 7, Name: "Grant Hall"}, nil)
	spaces.On("GetByID", mock.Anything, int64(404)).Return(nil, spaceRepo.ErrSpaceNotFound)

	policy := retry.Policy{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	return NewUseCase(bookings, spaces, policy, projection, logger.NewNop())
}

func startOnlyFilter() interface{} {
	return mock.MatchedBy(func(f domain.SpaceBookingsFilter) bool {
		return f.SpaceID == 7 && f.StartOnly && f.From.Equal(at(1, 0)) && f.To.Equal(at(2, 0))
	})
}

func TestExecute_FourWayConflicts(t *testing.T) {
	existing := booking(1, at(1, 10), at(1, 12), domain.StatusApproved)

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		available bool
	}{
		{name: "start inside", start: at(1, 11), end: at(1, 13), available: false},
		{name: "end inside", start: at(1, 9), end: at(1, 11), available: false},
		{name: "contains existing", start: at(1, 9), end: at(1, 13), available: false},
		{name: "inside existing", start: at(1, 10), end: at(1, 11), available: false},
		{name: "identical", start: at(1, 10), end: at(1, 12), available: false},
		{name: "touching end", start: at(1, 12), end: at(1, 14), available: true},
		{name: "touching start", start: at(1, 8), end: at(1, 10), available: true},
		{name: "disjoint", start: at(1, 15), end: at(1, 16), available: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := new(mockBookingRepository)
			bookings.On("GetBySpaceWithFilter", mock.Anything, startOnlyFilter()).Return([]*domain.Booking{existing}, nil)

			resp, err := newUseCase(bookings, false).Execute(context.Background(), &Request{SpaceID: 7, Start: tt.start, End: tt.end})
			require.NoError(t, err)

			assert.Equal(t, tt.available, resp.IsAvailable)
			if tt.available {
				assert.Empty(t, resp.Conflicts)
			} else {
				require.Len(t, resp.Conflicts, 1)
				assert.Equal(t, Conflict{ID: 1, Start: at(1, 10), End: at(1, 12), Status: domain.StatusApproved}, resp.Conflicts[0])
			}
		})
	}
}

func TestExecute_PointCheckIgnoresSeriesFromEarlierDates(t *testing.T) {
	// серия 18:00-19:00 началась раньше и не попадает в выборку по дате начала
	bookings := new(mockBookingRepository)
	bookings.On("GetBySpaceWithFilter", mock.Anything, startOnlyFilter()).Return([]*domain.Booking{}, nil)

	resp, err := newUseCase(bookings, false).Execute(context.Background(), &Request{SpaceID: 7, Start: at(1, 18), End: at(1, 19)})
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable)
	bookings.AssertNotCalled(t, "FetchActiveIntervals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ProjectionMode(t *testing.T) {
	series := booking(2, time.Date(2025, time.May, 29, 18, 0, 0, 0, time.UTC), at(5, 19), domain.StatusConfirmed)

	bookings := new(mockBookingRepository)
	bookings.On("FetchActiveIntervals", mock.Anything, int64(7), at(1, 0), at(2, 0)).Return([]*domain.Booking{series}, nil)

	uc := newUseCase(bookings, true)

	resp, err := uc.Execute(context.Background(), &Request{SpaceID: 7, Start: at(1, 18), End: at(1, 19)})
	require.NoError(t, err)
	assert.False(t, resp.IsAvailable)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(2), resp.Conflicts[0].ID)

	resp, err = uc.Execute(context.Background(), &Request{SpaceID: 7, Start: at(1, 19), End: at(1, 21)})
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable)

	resp, err = uc.Execute(context.Background(), &Request{SpaceID: 7, Start: at(1, 18), End: at(1, 19), ExcludeBookingID: &series.ID})
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable)
}

func TestExecute_InactiveAndExcludedBookingsSkipped(t *testing.T) {
	excluded := int64(5)

	bookings := new(mockBookingRepository)
	bookings.On("GetBySpaceWithFilter", mock.Anything, mock.MatchedBy(func(f domain.SpaceBookingsFilter) bool {
		return f.ExcludeID != nil && *f.ExcludeID == excluded
	})).Return([]*domain.Booking{
		booking(3, at(1, 10), at(1, 12), domain.StatusCancelled),
		booking(excluded, at(1, 10), at(1, 12), domain.StatusApproved),
	}, nil)

	resp, err := newUseCase(bookings, false).Execute(context.Background(), &Request{
		SpaceID: 7, Start: at(1, 10), End: at(1, 11), ExcludeBookingID: &excluded,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable)
}

func TestExecute_InvalidStoredIntervalBlocksDay(t *testing.T) {
	bookings := new(mockBookingRepository)
	bookings.On("GetBySpaceWithFilter", mock.Anything, startOnlyFilter()).
		Return([]*domain.Booking{booking(4, at(1, 15), at(1, 9), domain.StatusPending)}, nil)

	resp, err := newUseCase(bookings, false).Execute(context.Background(), &Request{SpaceID: 7, Start: at(1, 1), End: at(1, 2)})
	require.NoError(t, err)
	assert.False(t, resp.IsAvailable)
}

func TestExecute_Errors(t *testing.T) {
	bookings := new(mockBookingRepository)
	bookings.On("GetBySpaceWithFilter", mock.Anything, startOnlyFilter()).
		Return(nil, errors.New("dial tcp 10.0.0.2:5432: connect: connection refused"))

	uc := newUseCase(bookings, false)

	_, err := uc.Execute(context.Background(), &Request{SpaceID: 7, Start: at(1, 12), End: at(1, 12)})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = uc.Execute(context.Background(), &Request{SpaceID: 0, Start: at(1, 12), End: at(1, 13)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{SpaceID: 404, Start: at(1, 12), End: at(1, 13)})
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	_, err = uc.Execute(context.Background(), &Request{SpaceID: 7, Start: at(1, 12), End: at(1, 13)})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	bookings.AssertNumberOfCalls(t, "GetBySpaceWithFilter", 2)
}
