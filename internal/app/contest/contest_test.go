package contest_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeclash/internal/app/contest"
	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
)

func newService(t *testing.T) (*contest.Service, *repository.MemoryStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := repository.NewMemoryStore()
	return contest.NewService(rdb, store, time.Hour), store
}

func TestContestStartsInactive(t *testing.T) {
	svc, _ := newService(t)

	active, err := svc.IsActive(context.Background())
	require.NoError(t, err)
	assert.False(t, active, "no flag set means not active")
}

func TestStartStopCycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	startTime, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = time.Parse(time.RFC3339, startTime)
	require.NoError(t, err)

	active, err := svc.IsActive(ctx)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, svc.Stop(ctx))
	active, err = svc.IsActive(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	// The start time survives a stop so elapsed time can still be shown.
	status, err := svc.Status(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, startTime, status.StartTime)
}

func TestStatusReportsClockAndDuration(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	status, err := svc.Status(ctx, "")
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Empty(t, status.StartTime)
	assert.Equal(t, 3600, status.DurationSeconds)
	assert.False(t, status.ForceEnded)

	_, err = svc.Start(ctx)
	require.NoError(t, err)

	status, err = svc.Status(ctx, "")
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.NotEmpty(t, status.StartTime)
}

func TestStatusForceEndedAfterEndTest(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	p := &model.Participant{ID: uuid.NewString(), Name: "Alice", Phone: "123", LoginTime: time.Now()}
	require.NoError(t, store.Create(ctx, p))

	status, err := svc.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, status.ForceEnded)

	require.NoError(t, svc.EndTest(ctx, p.ID))

	status, err = svc.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, status.ForceEnded)

	got, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Submitted)
	assert.NotNil(t, got.SubmitTime)
}

func TestStatusUnknownParticipantIsNotFatal(t *testing.T) {
	svc, _ := newService(t)

	status, err := svc.Status(context.Background(), uuid.NewString())
	require.NoError(t, err, "a stale token must not break the status poll")
	assert.False(t, status.ForceEnded)
}

func TestEndTestUnknownParticipant(t *testing.T) {
	svc, _ := newService(t)
	err := svc.EndTest(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
