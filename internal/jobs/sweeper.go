package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/sweep_expired"
)

// DefaultRunTimeout ограничение на один проход очистки
const DefaultRunTimeout = 30 * time.Second

// ErrInvalidSchedule возвращается при некорректном cron выражении
var ErrInvalidSchedule = errors.New("jobs: invalid schedule")

// Sweeper интерфейс очистки просроченных броней
type Sweeper interface {
	Execute(ctx context.Context) (*sweep_expired.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически запускает очистку просроченных броней
// Дополняет очистку по запросу: брони снимаются, даже если запросов нет
type Scheduler struct {
	cron       *cron.Cron
	sweeper    Sweeper
	runTimeout time.Duration
	logger     Logger
}

// NewScheduler создает планировщик по cron выражению (поддерживаются @every 1m и т.п.)
// Пустое расписание отключает периодическую очистку, тогда возвращается nil
func NewScheduler(schedule string, sweeper Sweeper, logger Logger) (*Scheduler, error) {
	if schedule == "" {
		return nil, nil
	}

	s := &Scheduler{
		// Проходы не накладываются: следующий пропускается, пока идет предыдущий
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{logger}),
			cron.SkipIfStillRunning(cronLogger{logger}),
		)),
		sweeper:    sweeper,
		runTimeout: DefaultRunTimeout,
		logger:     logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}

	return s, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("Scheduler: expiry sweep scheduled")
}

// Stop останавливает планировщик и ждет завершения текущего прохода
func (s *Scheduler) Stop(ctx context.Context) {
	if s == nil {
		return
	}

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler: stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler: stop timed out: %v", ctx.Err())
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	result, err := s.sweeper.Execute(ctx)
	if err != nil {
		s.logger.Error("Scheduler: sweep failed: %v", err)
		return
	}

	if result.Cancelled > 0 {
		s.logger.Info("Scheduler: cancelled %d expired bookings", result.Cancelled)
	}
}

// cronLogger адаптер Logger к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
