package scheduler

import (
	"context"
	"time"

	"ipl-prediction-backend/internal/config"
	"ipl-prediction-backend/pkg/logger"

	"github.com/robfig/cron/v3"
)

type PollCloser interface {
	CloseExpiredPolls(ctx context.Context, now time.Time) (int64, error)
}

type RankRecomputer interface {
	RecomputeRanks(ctx context.Context) error
}

// Scheduler runs the periodic housekeeping jobs: closing polls past their end
// time and recomputing ranks left stale by an interrupted settlement.
type Scheduler struct {
	cron  *cron.Cron
	cfg   config.SchedulerConfig
	polls PollCloser
	ranks RankRecomputer
	now   func() time.Time
}

func New(cfg config.SchedulerConfig, polls PollCloser, ranks RankRecomputer) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cfg:   cfg,
		polls: polls,
		ranks: ranks,
		now:   time.Now,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CloseExpiredCron, s.closeExpiredPolls); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.RankCron, s.recomputeRanks); err != nil {
		return err
	}

	s.cron.Start()
	logger.WithFields(map[string]interface{}{
		"close_expired_cron": s.cfg.CloseExpiredCron,
		"rank_cron":          s.cfg.RankCron,
	}).Info("Scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}

func (s *Scheduler) closeExpiredPolls() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.polls.CloseExpiredPolls(ctx, s.now()); err != nil {
		logger.WithError(err).Error("Failed to close expired polls")
	}
}

func (s *Scheduler) recomputeRanks() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.ranks.RecomputeRanks(ctx); err != nil {
		logger.WithError(err).Error("Scheduled rank recomputation failed")
	}
}
