package create_booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueService/internal/domain"
	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	"github.com/m04kA/SMC-VenueService/pkg/logger"
	"github.com/m04kA/SMC-VenueService/pkg/ptr"
	"github.com/m04kA/SMC-VenueService/pkg/retry"
)

type mockBookingRepository struct {
	mock.Mock
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if fn, ok := args.Get(0).(func(*domain.Booking) *domain.Booking); ok {
		return fn(booking), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepository) FetchActiveIntervalsForUpdate(ctx context.Context, spaceID int64, from, to time.Time) ([]*domain.Booking, error) {
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

type fakeTx struct {
	calls     int
	commitErr []error
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	if len(f.commitErr) > 0 {
		err := f.commitErr[0]
		f.commitErr = f.commitErr[1:]
		return err
	}
	return nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

func at(day, hour int) time.Time {
	return time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC)
}

func existing(id int64, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{ID: id, SpaceID: 7, StartAt: start, EndAt: end, Status: status}
}

type fixture struct {
	bookings *mockBookingRepository
	spaces   *mockSpaceRepository
	tx       *fakeTx
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		bookings: new(mockBookingRepository),
		spaces:   new(mockSpaceRepository),
		tx:       &fakeTx{},
	}
	f.spaces.On("GetByID", mock.Anything, int64(7)).Return(&domain.Space{ID: 7, Name: "Grant Hall"}, nil)
	f.spaces.On("GetByID", mock.Anything, int64(404)).Return(nil, spaceRepo.ErrSpaceNotFound)

	policy := retry.Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	f.uc = NewUseCase(f.bookings, f.spaces, f.tx, policy, 31, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: at(1, 0).AddDate(0, 0, -1)}
	return f
}

func (f *fixture) expectFetch(from, to time.Time, bookings ...*domain.Booking) {
	f.bookings.On("FetchActiveIntervalsForUpdate", mock.Anything, int64(7), from, to).Return(bookings, nil)
}

func (f *fixture) expectCreate() {
	f.bookings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
		Return(func(b *domain.Booking) *domain.Booking {
			created := *b
			created.ID = 100
			created.CreatedAt = at(1, 0)
			created.UpdatedAt = at(1, 0)
			return &created
		}, nil)
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	f := newFixture()
	f.expectFetch(at(1, 0), at(2, 0), existing(1, at(1, 14), at(1, 16), domain.StatusApproved))
	f.expectCreate()

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID: 42, SpaceID: 7, Start: at(1, 16), End: at(1, 18), Notes: ptr.Ptr("birthday"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, at(1, 16), resp.StartAt)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "birthday", *resp.Notes)
	assert.Equal(t, 1, f.tx.calls)
	f.bookings.AssertExpectations(t)
}

func TestExecute_RejectsOverlap(t *testing.T) {
	f := newFixture()
	f.expectFetch(at(1, 0), at(2, 0), existing(1, at(1, 14), at(1, 16), domain.StatusApproved))

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SpaceID: 7, Start: at(1, 15), End: at(1, 17)})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.tx.calls)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_SeriesConflictsOnProjectedWindow(t *testing.T) {
	series := existing(2, at(1, 18), at(5, 19), domain.StatusConfirmed)

	f := newFixture()
	f.expectFetch(at(3, 0), at(4, 0), series)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SpaceID: 7, Start: at(3, 18), End: at(3, 20)})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	f = newFixture()
	f.expectFetch(at(3, 0), at(4, 0), series)
	f.expectCreate()

	_, err = f.uc.Execute(context.Background(), &Request{UserID: 42, SpaceID: 7, Start: at(3, 10), End: at(3, 17)})
	assert.NoError(t, err)
}

func TestExecute_NewSeriesChecksEveryDate(t *testing.T) {
	f := newFixture()
	f.expectFetch(at(1, 0), at(4, 0),
		existing(1, at(1, 9), at(1, 12), domain.StatusApproved),
		existing(2, at(3, 19), at(3, 20), domain.StatusPending),
		existing(3, at(2, 18), at(2, 20), domain.StatusCancelled),
	)

	// окно 18:00-20:00 на 1-3 июня: на 3 июня занято 19:00-20:00
	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SpaceID: 7, Start: at(1, 18), End: at(3, 20)})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_SerializationFailureRetried(t *testing.T) {
	f := newFixture()
	f.tx.commitErr = []error{errors.New("txmanager: failed to commit transaction: pq: could not serialize access due to concurrent update")}
	f.expectFetch(at(1, 0), at(2, 0))
	f.expectCreate()

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SpaceID: 7, Start: at(1, 10), End: at(1, 11)})
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, 2, f.tx.calls)
}

func TestExecute_StoreUnavailable(t *testing.T) {
	f := newFixture()
	f.bookings.On("FetchActiveIntervalsForUpdate", mock.Anything, int64(7), at(1, 0), at(2, 0)).
		Return(nil, errors.New("booking.repository: failed to execute query: driver: bad connection"))

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SpaceID: 7, Start: at(1, 10), End: at(1, 11)})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 3, f.tx.calls)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "no user", req: &Request{SpaceID: 7, Start: at(1, 10), End: at(1, 11)}, wantErr: ErrInvalidInput},
		{name: "no space", req: &Request{UserID: 1, Start: at(1, 10), End: at(1, 11)}, wantErr: ErrInvalidInput},
		{name: "missing end", req: &Request{UserID: 1, SpaceID: 7, Start: at(1, 10)}, wantErr: ErrInvalidInput},
		{name: "empty range", req: &Request{UserID: 1, SpaceID: 7, Start: at(1, 10), End: at(1, 10)}, wantErr: ErrInvalidRange},
		{name: "reversed", req: &Request{UserID: 1, SpaceID: 7, Start: at(1, 12), End: at(1, 10)}, wantErr: ErrInvalidRange},
		{
			name:    "long notes",
			req:     &Request{UserID: 1, SpaceID: 7, Start: at(1, 10), End: at(1, 11), Notes: ptr.Ptr(strings.Repeat("a", domain.MaxNotesLength+1))},
			wantErr: ErrInvalidInput,
		},
		{name: "series too long", req: &Request{UserID: 1, SpaceID: 7, Start: at(1, 10), End: at(1, 11).AddDate(0, 1, 1)}, wantErr: ErrSeriesTooLong},
		{name: "in the past", req: &Request{UserID: 1, SpaceID: 7, Start: at(1, 10).AddDate(0, 0, -3), End: at(1, 11)}, wantErr: ErrStartInPast},
		{name: "unknown space", req: &Request{UserID: 1, SpaceID: 404, Start: at(1, 10), End: at(1, 11)}, wantErr: ErrSpaceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestFindConflict_TouchingBoundaries(t *testing.T) {
	bookings := []*domain.Booking{
		existing(1, at(1, 10), at(1, 12), domain.StatusApproved),
		existing(2, at(1, 14), at(1, 16), domain.StatusApproved),
	}

	_, _, found := findConflict(at(1, 12), at(1, 14), bookings)
	assert.False(t, found)

	b, day, found := findConflict(at(1, 11), at(1, 13), bookings)
	require.True(t, found)
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, at(1, 0), day)
}

func TestFindConflict_BookingEndingAtMidnightIgnoredNextDay(t *testing.T) {
	// 20:00 - 00:00 следующего дня не присутствует во второй дате
	bookings := []*domain.Booking{existing(1, at(1, 20), at(2, 0), domain.StatusApproved)}

	_, _, found := findConflict(at(2, 20), at(2, 22), bookings)
	assert.False(t, found)
}
