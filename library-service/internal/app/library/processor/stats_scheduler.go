package processor

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/repository"
	"nowherelibrary/pkg/logger"
	"nowherelibrary/pkg/metrics"
)

// StatsScheduler periodically publishes per-collection document counts to
// the library_documents gauge.
type StatsScheduler struct {
	cron        *cron.Cron
	statsRepo   repository.StatsRepository
	collections []string
}

func NewStatsScheduler(statsRepo repository.StatsRepository) *StatsScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(logger.PrintfLogger{})))

	return &StatsScheduler{
		cron:        c,
		statsRepo:   statsRepo,
		collections: entity.Collections,
	}
}

// Start registers the refresh job, starts the cron loop and runs one refresh
// right away. A failed initial refresh is logged and does not stop the loop.
func (s *StatsScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting stats scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.Refresh(ctx); err != nil {
			logger.Error().Err(err).Msg("Stats refresh failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	if err := s.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial stats refresh failed")
	}

	return nil
}

// Refresh counts every collection. Collections that fail keep their last
// gauge value; the returned error joins all failures.
func (s *StatsScheduler) Refresh(ctx context.Context) error {
	var errs []error

	for _, collection := range s.collections {
		n, err := s.statsRepo.EstimatedCount(ctx, collection)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		metrics.LibraryDocuments.WithLabelValues(collection).Set(float64(n))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.Debug().Msg("Collection stats refreshed")
	return nil
}

func (s *StatsScheduler) Stop() {
	logger.Info().Msg("Stopping stats scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Stats scheduler stopped")
}

func (s *StatsScheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
