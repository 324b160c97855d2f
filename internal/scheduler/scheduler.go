package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"farm-backend/internal/timeutil"
)

// SummaryArchiver is the report job. *services.ReportService satisfies it.
type SummaryArchiver interface {
	ArchiveSummary(ctx context.Context) (string, error)
}

// Scheduler runs the periodic report archive.
type Scheduler struct {
	cron     *cron.Cron
	reports  SummaryArchiver
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a scheduler. Schedules are five-field cron
// expressions evaluated in IST.
func NewScheduler(schedule string, reports SummaryArchiver, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(timeutil.IST)),
		reports:  reports,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("archive_cron", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.archiveSummary); err != nil {
		s.logger.Error("failed to schedule report archive", zap.Error(err))
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) archiveSummary() {
	s.logger.Info("archiving summary report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	key, err := s.reports.ArchiveSummary(ctx)
	if err != nil {
		s.logger.Error("failed to archive summary report", zap.Error(err))
		return
	}
	s.logger.Info("summary report archived", zap.String("key", key))
}
