package slot_lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/activity"
	activityModels "github.com/m04kA/SMC-ParkingService/internal/service/activity/models"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/sweep_expired"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type movableClock struct{ now time.Time }

func (c *movableClock) Now() time.Time { return c.now }

var (
	u1 = domain.Actor{ID: "u1", Name: "Alice"}
	u2 = domain.Actor{ID: "u2", Name: "Bob"}
)

type fixture struct {
	uc       *UseCase
	activity *activity.Service
	clock    *movableClock
}

// newFixture парковка из двух мест: A резервированное, B обычное
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.NewDiscard()
	clock := &movableClock{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	policy := domain.DefaultWaitPolicy()

	slotSvc := slots.NewService(memory.NewSlotRepository(), memory.NewTxManager(), log).WithTimeProvider(clock)
	activitySvc := activity.NewService(memory.NewActivityRepository(), nil, log).WithTimeProvider(clock)
	sweeper := sweep_expired.NewUseCase(slotSvc, activitySvc, policy, nil, log).WithTimeProvider(clock)

	_, err := slotSvc.Create(ctx, &models.CreateSlotRequest{SlotNumber: "A", IsReserved: true})
	require.NoError(t, err)
	_, err = slotSvc.Create(ctx, &models.CreateSlotRequest{SlotNumber: "B"})
	require.NoError(t, err)

	return &fixture{
		uc:       NewUseCase(slotSvc, sweeper, activitySvc, policy, log),
		activity: activitySvc,
		clock:    clock,
	}
}

func (f *fixture) logsFor(t *testing.T, slotNumber string) []activityModels.ActivityResponse {
	t.Helper()
	logs, err := f.activity.List(context.Background(), &activityModels.ListActivityRequest{SlotNumber: ptr.Ptr(slotNumber)})
	require.NoError(t, err)
	return logs.Logs
}

func TestTwoSlotScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Book(ctx, "A", u1)
	assert.ErrorIs(t, err, slots.ErrReservedSlot)

	slot, err := f.uc.Book(ctx, "B", u1)
	require.NoError(t, err)
	assert.True(t, slot.IsBooked)

	_, err = f.uc.Book(ctx, "B", u2)
	assert.ErrorIs(t, err, slots.ErrNotAvailable)

	_, err = f.uc.Occupy(ctx, "B", u1)
	require.NoError(t, err)

	slot, err = f.uc.Vacant(ctx, "B", u1)
	require.NoError(t, err)
	assert.False(t, slot.IsBooked)
	assert.False(t, slot.IsOccupied)
	assert.Empty(t, slot.BookedByID)
	assert.Empty(t, slot.OccupiedByID)

	logs := f.logsFor(t, "B")
	require.Len(t, logs, 3)
	assert.Equal(t, "vacant", logs[0].ActivityType)
	assert.Equal(t, "occupy", logs[1].ActivityType)
	assert.Equal(t, "book", logs[2].ActivityType)
	assert.Empty(t, f.logsFor(t, "A"), "failed operations are not logged")
}

func TestBook_ReclaimsExpiredBookingFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Book(ctx, "B", u1)
	require.NoError(t, err)

	// 1 из 2 мест забронировано: 50%, порог включительно, ждем 30 минут
	f.clock.now = f.clock.now.Add(31 * time.Minute)

	slot, err := f.uc.Book(ctx, "B", u2)
	require.NoError(t, err)
	assert.Equal(t, "u2", slot.BookedByID)

	logs := f.logsFor(t, "B")
	require.Len(t, logs, 3)
	assert.Equal(t, "book", logs[0].ActivityType)
	assert.Equal(t, "u2", logs[0].UserID)
	assert.Equal(t, "cancel", logs[1].ActivityType)
	assert.Equal(t, domain.SystemActorID, logs[1].UserID)
}

func TestOccupy_AfterExpiryFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Book(ctx, "B", u1)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(2 * time.Hour)
	_, err = f.uc.Occupy(ctx, "B", u1)
	assert.ErrorIs(t, err, slots.ErrNotBooked)
}

func TestReadsSweepFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Book(ctx, "B", u1)
	require.NoError(t, err)

	occupancy, err := f.uc.Occupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, occupancy.Booked)
	assert.Equal(t, 2, occupancy.Total)
	assert.InDelta(t, 50.0, occupancy.Ratio, 1e-9)
	assert.Equal(t, float64(domain.DefaultLowWaitMinutes), occupancy.WaitMinutes)

	f.clock.now = f.clock.now.Add(time.Hour)

	slot, err := f.uc.Get(ctx, "B")
	require.NoError(t, err)
	assert.False(t, slot.IsBooked, "stale booking is not observed")

	booked := true
	list, err := f.uc.List(ctx, &models.ListSlotsRequest{IsBooked: &booked})
	require.NoError(t, err)
	assert.Empty(t, list.Slots)

	occupancy, err = f.uc.Occupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, occupancy.Booked)
	assert.Equal(t, 100.0, occupancy.Ratio)
	assert.Equal(t, float64(domain.DefaultHighWaitMinutes), occupancy.WaitMinutes)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Book(ctx, "B", u1)
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, "B", u2)
	assert.ErrorIs(t, err, slots.ErrNotBooked)

	slot, err := f.uc.Cancel(ctx, "B", u1)
	require.NoError(t, err)
	assert.False(t, slot.IsBooked)

	logs := f.logsFor(t, "B")
	require.Len(t, logs, 2)
	assert.Equal(t, "Slot - B has been canceled by Alice", logs[0].Narration)
}

type brokenSweeper struct{ calls int }

func (s *brokenSweeper) Execute(context.Context) (*sweep_expired.Result, error) {
	s.calls++
	return nil, errors.New("sweep failed")
}

func TestSweepFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	log := logger.NewDiscard()

	slotSvc := slots.NewService(memory.NewSlotRepository(), memory.NewTxManager(), log)
	_, err := slotSvc.Create(ctx, &models.CreateSlotRequest{SlotNumber: "B"})
	require.NoError(t, err)

	sweeper := &brokenSweeper{}
	uc := NewUseCase(slotSvc, sweeper, activity.NewService(memory.NewActivityRepository(), nil, log), domain.DefaultWaitPolicy(), log)

	_, err = uc.Book(ctx, "B", u1)
	require.NoError(t, err)

	_, err = uc.Get(ctx, "B")
	require.NoError(t, err)

	assert.Equal(t, 2, sweeper.calls)

	_, err = uc.Get(ctx, "missing")
	assert.ErrorIs(t, err, slots.ErrSlotNotFound)
}
