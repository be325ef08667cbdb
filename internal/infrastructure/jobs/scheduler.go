// Package jobs содержит периодические задачи сервиса.
package jobs

import (
	"context"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/robfig/cron/v3"
)

const cleanupTimeout = time.Minute

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Scheduler struct {
	sched  *cron.Cron
	logger logger.Logger
}

func NewScheduler(loc *time.Location, logger logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		sched:  cron.New(cron.WithLocation(loc), cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
	}
}

// AddOutboxCleanup удаляет обработанные события outbox старше retention.
func (s *Scheduler) AddOutboxCleanup(spec string, retention time.Duration, repo usecase.OutboxRepository) error {
	job := NewOutboxCleanup(repo, retention, s.logger)
	if _, err := s.sched.AddFunc(spec, job.Run); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Stop ждет завершения запущенных задач, но не дольше ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.sched.Stop().Done():
		return nil
	case <-ctx.Done():
		return e.Wrap(whereami.WhereAmI(), ctx.Err())
	}
}

type OutboxCleanup struct {
	repo      usecase.OutboxRepository
	retention time.Duration
	logger    logger.Logger
	now       func() time.Time
}

func NewOutboxCleanup(repo usecase.OutboxRepository, retention time.Duration, logger logger.Logger) *OutboxCleanup {
	return &OutboxCleanup{repo: repo, retention: retention, logger: logger, now: time.Now}
}

func (c *OutboxCleanup) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	deleted, err := c.repo.DeleteProcessedBefore(ctx, c.now().Add(-c.retention))
	if err != nil {
		c.logger.Errorf(err, "outbox cleanup failed")
		return
	}

	if deleted > 0 {
		c.logger.Infof("outbox cleanup: deleted %d processed events", deleted)
	}
}
