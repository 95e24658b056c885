// Package job runs scheduled maintenance tasks.
package job

import (
	"context"
	"time"

	"github.com/anphu-security/guardops/internal/domain/event"
	"github.com/anphu-security/guardops/internal/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpirySweeper marks active contracts whose end date has passed as expired
// on a cron schedule.
type ExpirySweeper struct {
	contracts  *repository.ContractRepository
	dispatcher *event.Dispatcher
	cron       *cron.Cron
	logger     *zap.Logger
}

// NewExpirySweeper creates the sweeper
func NewExpirySweeper(contracts *repository.ContractRepository, dispatcher *event.Dispatcher, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		contracts:  contracts,
		dispatcher: dispatcher,
		cron:       cron.New(),
		logger:     logger,
	}
}

// Start registers the sweep on the given cron spec and starts the scheduler
func (s *ExpirySweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Contract expiry sweeper started", zap.String("schedule", spec))
	return nil
}

// Sweep runs one expiry pass
func (s *ExpirySweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.contracts.MarkExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Contract expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		s.logger.Info("Contracts marked expired", zap.Int64("count", count))
		s.dispatcher.DispatchAsync(context.WithoutCancel(ctx), event.New(event.TypeContractExpired, map[string]interface{}{
			"count": count,
			"as_of": time.Now().Format("2006-01-02"),
		}))
	}
}

// Stop halts the scheduler and waits for a running sweep
func (s *ExpirySweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
