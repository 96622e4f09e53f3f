package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
)

// DataFetcherService keeps the season data fresh on a schedule: periodic
// feed imports, projection refreshes after each import, and a nightly
// cleanup of stale rows.
type DataFetcherService struct {
	db            *database.DB
	importer      *ImportService
	projections   *ProjectionService
	logger        *logrus.Logger
	cron          *cron.Cron
	season        int
	fetchInterval time.Duration

	mu        sync.Mutex
	isRunning bool
}

func NewDataFetcherService(
	db *database.DB,
	importer *ImportService,
	projections *ProjectionService,
	logger *logrus.Logger,
	season int,
	fetchInterval time.Duration,
) *DataFetcherService {
	return &DataFetcherService{
		db:            db,
		importer:      importer,
		projections:   projections,
		logger:        logger,
		cron:          cron.New(),
		season:        season,
		fetchInterval: fetchInterval,
	}
}

// Start begins the scheduled fetching. An initial import runs immediately in
// the background.
func (s *DataFetcherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data fetcher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.fetchInterval.String())
	if _, err := s.cron.AddFunc(schedule, s.refreshSeason); err != nil {
		return fmt.Errorf("failed to schedule data fetcher: %w", err)
	}

	// Nightly cleanup, after the last matches of the day have settled.
	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupStale); err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	go s.refreshSeason()

	s.logger.Info("Data fetcher service started")
	return nil
}

// Stop halts the scheduled fetching and waits for in-flight jobs.
func (s *DataFetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Data fetcher service stopped")
}

// refreshSeason imports the current season feed and regenerates projections
// for the next unplayed round.
func (s *DataFetcherService) refreshSeason() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := s.importer.ImportSeason(ctx, s.season)
	if err != nil {
		s.logger.Errorf("Scheduled import failed: %v", err)
		return
	}

	round := s.nextRound()
	if round == 0 {
		s.logger.Warn("No upcoming round found; skipping projection refresh")
		return
	}

	generated, err := s.projections.GenerateRound(ctx, s.season, round)
	if err != nil {
		s.logger.Errorf("Projection refresh failed: %v", err)
		return
	}

	s.logger.Infof("Season refresh complete: %d stat lines imported, %d projections for round %d",
		summary.StatLines, generated, round)
}

// nextRound is the first round of the season with an uncompleted fixture.
func (s *DataFetcherService) nextRound() int {
	var match models.Match
	err := s.db.DB.Where("season = ? AND completed = ?", s.season, false).
		Order("round ASC").
		First(&match).Error
	if err != nil {
		return 0
	}
	return match.Round
}

func (s *DataFetcherService) cleanupStale() {
	round := s.nextRound()
	if round == 0 {
		return
	}

	removed, err := s.projections.CleanupStale(s.season, round)
	if err != nil {
		s.logger.Errorf("Cleanup failed: %v", err)
		return
	}
	s.logger.Infof("Cleaned up %d stale projections", removed)
}

// FetchStatus reports the scheduler state for the health endpoint.
func (s *DataFetcherService) FetchStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running":     s.isRunning,
		"fetch_interval": s.fetchInterval.String(),
		"next_runs":      nextRuns,
		"cron_jobs":      len(entries),
	}
}
