package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-VenueService/internal/domain"
	"github.com/m04kA/SMC-VenueService/internal/infra/storage/schema"
	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	"github.com/m04kA/SMC-VenueService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueService/pkg/ptr"
	"github.com/m04kA/SMC-VenueService/pkg/txmanager"
)

var kolkata = time.FixedZone("IST", 5*3600+1800)

func at(day, hour int) time.Time {
	return time.Date(2025, time.June, day, hour, 0, 0, 0, kolkata)
}

type fixture struct {
	db      *dbmetrics.DB
	repo    *Repository
	spaceID int64
}

func setup(t *testing.T) *fixture {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := dbmetrics.Wrap(sqlDB, nil, 1)
	ctx := context.Background()
	require.NoError(t, schema.Apply(ctx, db, psqlbuilder.DialectSQLite))

	space, err := spaceRepo.NewRepository(db, psqlbuilder.DialectSQLite, kolkata).
		Create(ctx, &domain.Space{Name: "Grant Hall", Capacity: 120, IsActive: true})
	require.NoError(t, err)

	return &fixture{
		db:      db,
		repo:    NewRepository(db, psqlbuilder.DialectSQLite, kolkata),
		spaceID: space.ID,
	}
}

func (f *fixture) create(t *testing.T, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.repo.Create(context.Background(), &domain.Booking{
		SpaceID: f.spaceID,
		UserID:  42,
		StartAt: start,
		EndAt:   end,
		Status:  status,
	})
	require.NoError(t, err)
	return b
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created := f.create(t, at(1, 14), at(1, 16), domain.StatusApproved)
	assert.NotZero(t, created.ID)

	got, err := f.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, f.spaceID, got.SpaceID)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.True(t, at(1, 14).Equal(got.StartAt), "start %v", got.StartAt)
	assert.True(t, at(1, 16).Equal(got.EndAt), "end %v", got.EndAt)
	assert.Equal(t, kolkata, got.StartAt.Location())
	assert.Nil(t, got.CancelledAt)

	_, err = f.repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_FetchActiveIntervals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sameDay := f.create(t, at(1, 14), at(1, 16), domain.StatusApproved)
	series := f.create(t, at(1, 18), at(5, 19), domain.StatusConfirmed)
	f.create(t, at(1, 10), at(1, 12), domain.StatusCancelled)
	f.create(t, at(2, 9), at(2, 10), domain.StatusPending)
	// заканчивается ровно в начале дня: не пересекает его
	f.create(t, at(0, 20), at(1, 0), domain.StatusPending)

	got, err := f.repo.FetchActiveIntervals(ctx, f.spaceID, at(1, 0), at(2, 0))
	require.NoError(t, err)

	ids := make([]int64, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{sameDay.ID, series.ID}, ids)

	got, err = f.repo.FetchActiveIntervals(ctx, f.spaceID, at(3, 0), at(4, 0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, series.ID, got[0].ID)
}

func TestRepository_GetBySpaceWithFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.create(t, at(1, 14), at(1, 16), domain.StatusApproved)
	series := f.create(t, at(0, 18), at(3, 19), domain.StatusConfirmed)
	cancelled := f.create(t, at(1, 10), at(1, 12), domain.StatusCancelled)

	from, to := at(1, 0), at(2, 0)

	got, err := f.repo.GetBySpaceWithFilter(ctx, domain.SpaceBookingsFilter{
		SpaceID: f.spaceID, From: &from, To: &to, StartOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)

	got, err = f.repo.GetBySpaceWithFilter(ctx, domain.SpaceBookingsFilter{
		SpaceID: f.spaceID, IncludeInactive: true, ExcludeID: &series.ID,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, cancelled.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	status := domain.StatusCancelled
	got, err = f.repo.GetBySpaceWithFilter(ctx, domain.SpaceBookingsFilter{SpaceID: f.spaceID, Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cancelled.ID, got[0].ID)
}

func TestRepository_CancelAndUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b := f.create(t, at(1, 14), at(1, 16), domain.StatusPending)

	require.NoError(t, f.repo.UpdateStatus(ctx, b.ID, domain.StatusApproved, at(1, 9)))
	require.NoError(t, f.repo.Cancel(ctx, b.ID, ptr.Ptr("event moved"), at(1, 10)))

	got, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "event moved", *got.CancellationReason)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, at(1, 10).Equal(*got.CancelledAt))

	assert.ErrorIs(t, f.repo.Cancel(ctx, 9999, nil, at(1, 10)), ErrBookingNotFound)
	assert.ErrorIs(t, f.repo.UpdateStatus(ctx, 9999, domain.StatusApproved, at(1, 10)), ErrBookingNotFound)
}

func TestRepository_ForUpdateInsideTransaction(t *testing.T) {
	f := setup(t)
	f.create(t, at(1, 14), at(1, 16), domain.StatusApproved)

	tm := txmanager.NewTransactionManager(f.db, txmanager.WithoutIsolationLevels())

	var got []*domain.Booking
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		var err error
		got, err = f.repo.FetchActiveIntervalsForUpdate(ctx, f.spaceID, at(1, 0), at(2, 0))
		return err
	})

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRepository_WritesInstantsFromOtherZones(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	clock := time.Date(2025, time.June, 1, 3, 0, 0, 0, time.UTC)
	f.repo.now = func() time.Time { return clock }

	// 14:00 IST = 08:30 UTC
	b := f.create(t, at(1, 14).UTC(), at(1, 16).UTC(), domain.StatusPending)
	assert.True(t, clock.Equal(b.CreatedAt))
	assert.Equal(t, kolkata, b.StartAt.Location())

	got, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, at(1, 14).Equal(got.StartAt), "start %v", got.StartAt)
	assert.True(t, at(1, 16).Equal(got.EndAt), "end %v", got.EndAt)
	assert.True(t, clock.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)
	assert.True(t, clock.Equal(got.UpdatedAt), "updated_at %v", got.UpdatedAt)

	from, to := at(1, 0).UTC(), at(2, 0).UTC()
	list, err := f.repo.GetBySpaceWithFilter(ctx, domain.SpaceBookingsFilter{
		SpaceID: f.spaceID, From: &from, To: &to, StartOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	cancelledAt := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.repo.UpdateStatus(ctx, b.ID, domain.StatusApproved, cancelledAt.Add(-time.Hour)))
	require.NoError(t, f.repo.Cancel(ctx, b.ID, nil, cancelledAt))

	got, err = f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, cancelledAt.Equal(*got.CancelledAt), "cancelled_at %v", *got.CancelledAt)
	assert.Equal(t, "2025-06-01 17:30", got.CancelledAt.Format("2006-01-02 15:04"))
	assert.True(t, cancelledAt.Equal(got.UpdatedAt), "updated_at %v", got.UpdatedAt)
}
