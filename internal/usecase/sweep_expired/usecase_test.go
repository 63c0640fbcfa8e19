package sweep_expired

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

var bookedAt = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	slots    *slots.Service
	activity *activity.Service
	sweeper  *UseCase
	clock    *fixedTime
}

// newFixture создает парковку из total мест и бронирует первые booked из них в bookedAt
func newFixture(t *testing.T, total, booked int) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.NewDiscard()

	slotSvc := slots.NewService(memory.NewSlotRepository(), memory.NewTxManager(), log).
		WithTimeProvider(&fixedTime{now: bookedAt})
	activitySvc := activity.NewService(memory.NewActivityRepository(), nil, log)

	_, err := slotSvc.Seed(ctx, &models.SeedRequest{Total: total, Prefix: "P"})
	require.NoError(t, err)
	for i := 1; i <= booked; i++ {
		_, err := slotSvc.Book(ctx, fmt.Sprintf("P%d", i), domain.Actor{ID: fmt.Sprintf("u%d", i), Name: "User"})
		require.NoError(t, err)
	}

	clock := &fixedTime{now: bookedAt}
	sweeper := NewUseCase(slotSvc, activitySvc, domain.NewWaitPolicy(30, 15, 50), nil, log).WithTimeProvider(clock)

	return &fixture{slots: slotSvc, activity: activitySvc, sweeper: sweeper, clock: clock}
}

func (f *fixture) isBooked(t *testing.T, slotNumber string) bool {
	t.Helper()
	slot, err := f.slots.Get(context.Background(), slotNumber)
	require.NoError(t, err)
	return slot.IsBooked
}

func TestExecute_LowLoadUsesLongWait(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4, 1) // 25%

	f.clock.now = bookedAt.Add(29 * time.Minute)
	result, err := f.sweeper.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 0, result.Cancelled)
	assert.Equal(t, 30*time.Minute, result.Wait)
	assert.InDelta(t, 25.0, result.Ratio, 1e-9)
	assert.True(t, f.isBooked(t, "P1"))

	f.clock.now = bookedAt.Add(31 * time.Minute)
	result, err = f.sweeper.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Cancelled)
	assert.False(t, f.isBooked(t, "P1"))

	logs, err := f.activity.List(ctx, &activityModels.ListActivityRequest{})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, string(domain.ActivityCancel), logs.Logs[0].ActivityType)
	assert.Equal(t, domain.SystemActorID, logs.Logs[0].UserID)
	assert.Equal(t, domain.SystemActorName, logs.Logs[0].UserName)
	assert.Equal(t, "Slot - P1 has been canceled", logs.Logs[0].Narration)
}

func TestExecute_HighLoadUsesShortWait(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4, 3) // 75%

	f.clock.now = bookedAt.Add(14 * time.Minute)
	result, err := f.sweeper.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, result.Wait)
	assert.Equal(t, 0, result.Cancelled)

	f.clock.now = bookedAt.Add(16 * time.Minute)
	result, err = f.sweeper.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Candidates)
	assert.Equal(t, 3, result.Cancelled)
	for _, n := range []string{"P1", "P2", "P3"} {
		assert.False(t, f.isBooked(t, n), n)
	}
}

func TestExecute_OccupiedSlotsAreNeverReclaimed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4, 2)

	_, err := f.slots.Occupy(ctx, "P1", domain.Actor{ID: "u1", Name: "User"})
	require.NoError(t, err)

	f.clock.now = bookedAt.Add(24 * time.Hour)
	result, err := f.sweeper.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 1, result.Cancelled)

	assert.True(t, f.isBooked(t, "P1"))
	assert.False(t, f.isBooked(t, "P2"))
}

func TestExecute_NoCandidates(t *testing.T) {
	f := newFixture(t, 4, 0)

	result, err := f.sweeper.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Result{}, result)
}

func TestExecute_RepeatedSweepsCancelOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4, 1)
	f.clock.now = bookedAt.Add(time.Hour)

	for i := 0; i < 3; i++ {
		_, err := f.sweeper.Execute(ctx)
		require.NoError(t, err)
	}

	logs, err := f.activity.List(ctx, &activityModels.ListActivityRequest{})
	require.NoError(t, err)
	assert.Len(t, logs.Logs, 1)
}

// flakyRegistry не может снять бронь с одного из мест
type flakyRegistry struct {
	pending  []models.SlotResponse
	broken   string
	listErr  error
	ratioErr error
	expired  []string
}

func (r *flakyRegistry) ListPendingExpiry(context.Context) (*models.SlotListResponse, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return &models.SlotListResponse{Slots: r.pending}, nil
}

func (r *flakyRegistry) OccupancyRatio(context.Context) (float64, error) {
	return 40, r.ratioErr
}

func (r *flakyRegistry) ExpireIfDue(_ context.Context, slotNumber string, _ time.Duration, _ time.Time) (bool, *models.SlotResponse, error) {
	if slotNumber == r.broken {
		return false, nil, errors.New("connection reset")
	}
	r.expired = append(r.expired, slotNumber)
	return true, &models.SlotResponse{SlotNumber: slotNumber}, nil
}

type recordedCancel struct {
	slotNumber string
	actor      domain.Actor
}

type fakeRecorder struct{ cancels []recordedCancel }

func (r *fakeRecorder) Record(_ context.Context, slotNumber string, actor domain.Actor, activity domain.ActivityType) {
	if activity == domain.ActivityCancel {
		r.cancels = append(r.cancels, recordedCancel{slotNumber: slotNumber, actor: actor})
	}
}

type sweepMetrics struct{ cancelled, failed int }

func (m *sweepMetrics) RecordSweep(cancelled, failed int, _ float64) {
	m.cancelled += cancelled
	m.failed += failed
}

func TestExecute_ContinuesAfterSlotFailure(t *testing.T) {
	at := bookedAt
	registry := &flakyRegistry{
		pending: []models.SlotResponse{
			{SlotNumber: "A", IsBooked: true, BookedAt: &at},
			{SlotNumber: "B", IsBooked: true, BookedAt: &at},
			{SlotNumber: "C", IsBooked: true, BookedAt: &at},
		},
		broken: "B",
	}
	recorder := &fakeRecorder{}
	m := &sweepMetrics{}

	uc := NewUseCase(registry, recorder, domain.DefaultWaitPolicy(), m, logger.NewDiscard()).
		WithTimeProvider(&fixedTime{now: bookedAt.Add(time.Hour)})

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Cancelled)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"A", "C"}, registry.expired)
	require.Len(t, recorder.cancels, 2)
	assert.Equal(t, domain.SystemActor(), recorder.cancels[0].actor)
	assert.Equal(t, &sweepMetrics{cancelled: 2, failed: 1}, m)
}

func TestExecute_ListOrRatioFailureIsReturned(t *testing.T) {
	at := bookedAt
	log := logger.NewDiscard()

	uc := NewUseCase(&flakyRegistry{listErr: errors.New("down")}, &fakeRecorder{}, domain.DefaultWaitPolicy(), nil, log)
	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)

	registry := &flakyRegistry{
		pending:  []models.SlotResponse{{SlotNumber: "A", IsBooked: true, BookedAt: &at}},
		ratioErr: errors.New("down"),
	}
	uc = NewUseCase(registry, &fakeRecorder{}, domain.DefaultWaitPolicy(), nil, log)
	_, err = uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, registry.expired)
}
