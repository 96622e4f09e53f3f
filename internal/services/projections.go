package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/optimizer"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/predictor"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/utils"
)

// ProjectionService builds and stores per-player score projections. The
// predictors themselves are pure; this service does all the database
// assembly around them.
type ProjectionService struct {
	db         *database.DB
	cache      *CacheService
	logger     *logrus.Logger
	contextual *predictor.ContextualPredictor
	baseline   *predictor.Predictor

	workers  int
	cacheTTL time.Duration
}

// NewProjectionService wires a projection service. Pass a nil model to rely
// on the deterministic predictors alone.
func NewProjectionService(
	db *database.DB,
	cache *CacheService,
	logger *logrus.Logger,
	model predictor.ScorePredictor,
	lookback int,
	workers int,
	cacheTTL time.Duration,
) *ProjectionService {
	if workers <= 0 {
		workers = 4
	}
	return &ProjectionService{
		db:         db,
		cache:      cache,
		logger:     logger,
		contextual: predictor.NewContextual(model),
		baseline:   predictor.New(lookback),
		workers:    workers,
		cacheTTL:   cacheTTL,
	}
}

// GetOrCreateProjection returns the stored projection for (player, season,
// round), computing and persisting one on first request.
func (s *ProjectionService) GetOrCreateProjection(ctx context.Context, playerID uint, season, round int) (*models.Projection, error) {
	cacheKey := ProjectionCacheKey(playerID, season, round)

	var cached models.Projection
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var stored models.Projection
	err := s.db.DB.Where("player_id = ? AND season = ? AND round = ?", playerID, season, round).
		First(&stored).Error
	if err == nil {
		s.cache.Set(ctx, cacheKey, stored, s.cacheTTL)
		return &stored, nil
	}

	projection, err := s.buildProjection(ctx, playerID, season, round)
	if err != nil {
		return nil, err
	}

	if err := s.db.DB.Create(projection).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProjectionFailed, err)
	}
	s.cache.Set(ctx, cacheKey, projection, s.cacheTTL)

	return projection, nil
}

// BaselineProjection computes a weighted-average projection without opponent
// or venue context. Nothing is persisted.
func (s *ProjectionService) BaselineProjection(playerID uint, season int) (*predictor.Prediction, error) {
	var player models.Player
	if err := s.db.DB.First(&player, playerID).Error; err != nil {
		return nil, fmt.Errorf("%w: player %d", utils.ErrNotFound, playerID)
	}

	history, err := s.scoreHistory(playerID, season, predictor.ExtendedLookback)
	if err != nil {
		return nil, err
	}

	prediction := s.baseline.Predict(history, s.avgMinutes(playerID, season))
	return &prediction, nil
}

// GenerateRound builds projections for every active player ahead of the
// given round, fanning the work out across a fixed worker pool. Players that
// fail individually are logged and skipped; one bad history never aborts the
// batch.
func (s *ProjectionService) GenerateRound(ctx context.Context, season, round int) (int, error) {
	var players []models.Player
	if err := s.db.DB.Where("active = ?", true).Find(&players).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrProjectionFailed, err)
	}

	s.logger.Infof("Generating projections for %d players, season %d round %d", len(players), season, round)

	jobs := make(chan models.Player)
	var wg sync.WaitGroup
	var mu sync.Mutex
	generated := 0

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for player := range jobs {
				if _, err := s.GetOrCreateProjection(ctx, player.ID, season, round); err != nil {
					s.logger.Warnf("Projection failed for player %d (%s): %v", player.ID, player.Name, err)
					continue
				}
				mu.Lock()
				generated++
				mu.Unlock()
			}
		}()
	}

	for _, player := range players {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return generated, ctx.Err()
		case jobs <- player:
		}
	}
	close(jobs)
	wg.Wait()

	s.logger.Infof("Generated %d projections for round %d", generated, round)
	return generated, nil
}

// CandidateProjections materializes stored projections into the optimizer's
// input shape, joining in names, teams and latest prices.
func (s *ProjectionService) CandidateProjections(ctx context.Context, playerIDs []uint, season, round int) ([]optimizer.CandidateProjection, error) {
	candidates := make([]optimizer.CandidateProjection, 0, len(playerIDs))

	for _, playerID := range playerIDs {
		var player models.Player
		if err := s.db.DB.First(&player, playerID).Error; err != nil {
			return nil, fmt.Errorf("%w: player %d", utils.ErrNotFound, playerID)
		}

		projection, err := s.GetOrCreateProjection(ctx, playerID, season, round)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, optimizer.CandidateProjection{
			PlayerID:        playerID,
			Name:            player.Name,
			Team:            player.Team,
			Position:        player.PrimaryPosition(),
			PredictedPoints: projection.PredictedPoints,
			Confidence:      projection.Confidence,
			Price:           s.latestPrice(playerID, season),
			AvgMinutes:      projection.AvgMinutes,
			AvgLast3:        projection.AvgLast3,
		})
	}

	return candidates, nil
}

// DefensiveStrength is the average fantasy points a team concedes per match:
// the mean of opposing players' scores in the team's completed matches.
// Returns the league average when the team has no completed matches.
func (s *ProjectionService) DefensiveStrength(ctx context.Context, team string, season int) (float64, error) {
	cacheKey := DefenseCacheKey(team, season)
	var cached float64
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var matches []models.Match
	err := s.db.DB.Where("season = ? AND completed = ? AND (home_team = ? OR away_team = ?)",
		season, true, team, team).Find(&matches).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load matches for %s: %w", team, err)
	}

	conceded := s.concededScores(team, matches)
	rating := predictor.OpponentDefense(conceded)

	s.cache.Set(ctx, cacheKey, rating, s.cacheTTL)
	return rating, nil
}

// concededScores collects per-match average fantasy scores of the opponents
// the team faced.
func (s *ProjectionService) concededScores(team string, matches []models.Match) []float64 {
	var conceded []float64
	for _, match := range matches {
		opponent := match.Opponent(team)
		if opponent == "" {
			continue
		}

		var scores []models.FantasyScore
		err := s.db.DB.
			Joins("JOIN players ON players.id = fantasy_scores.player_id").
			Where("fantasy_scores.match_id = ? AND players.team = ?", match.ID, opponent).
			Find(&scores).Error
		if err != nil || len(scores) == 0 {
			continue
		}

		total := 0.0
		for _, score := range scores {
			total += score.FantasyPoints
		}
		conceded = append(conceded, total/float64(len(scores)))
	}
	return conceded
}

func (s *ProjectionService) buildProjection(ctx context.Context, playerID uint, season, round int) (*models.Projection, error) {
	var player models.Player
	if err := s.db.DB.First(&player, playerID).Error; err != nil {
		return nil, fmt.Errorf("%w: player %d", utils.ErrNotFound, playerID)
	}

	history, err := s.scoreHistory(playerID, season, predictor.ExtendedLookback)
	if err != nil {
		return nil, err
	}
	recentStats, err := s.recentStats(playerID, season, predictor.DefaultLookback)
	if err != nil {
		return nil, err
	}

	in := predictor.ContextInput{
		History:     history,
		RecentStats: recentStats,
		TargetRound: round,
	}

	// Upcoming fixture context, when the draw is loaded that far ahead.
	var fixture models.Match
	err = s.db.DB.Where("season = ? AND round = ? AND (home_team = ? OR away_team = ?)",
		season, round, player.Team, player.Team).First(&fixture).Error
	if err == nil {
		in.VenueFactor = predictor.VenueFactor(player.Team, fixture.Venue, fixture.HomeTeam == player.Team)
		if defense, err := s.DefensiveStrength(ctx, fixture.Opponent(player.Team), season); err == nil {
			in.OpponentDefense = defense
		}
	}

	prediction := s.contextual.Predict(in)

	return &models.Projection{
		PlayerID:              playerID,
		Round:                 round,
		Season:                season,
		PredictedPoints:       prediction.PredictedPoints,
		Confidence:            prediction.Confidence,
		Method:                prediction.Method,
		AvgAllGames:           prediction.Features.AvgAllGames,
		AvgLast3:              prediction.Features.AvgLast3,
		AvgMinutes:            prediction.Features.AvgMinutes,
		GamesAnalyzed:         prediction.Features.GamesAnalyzed,
		StdDev:                prediction.Features.StdDev,
		OpponentDefenseRating: in.OpponentDefense,
		VenueFactor:           in.VenueFactor,
	}, nil
}

// scoreHistory loads up to limit scores for the season, most recent first.
func (s *ProjectionService) scoreHistory(playerID uint, season, limit int) ([]models.FantasyScore, error) {
	var history []models.FantasyScore
	err := s.db.DB.Where("player_id = ? AND season = ?", playerID, season).
		Order("round DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load score history for player %d: %w", playerID, err)
	}
	return history, nil
}

func (s *ProjectionService) recentStats(playerID uint, season, limit int) ([]models.PlayerMatchStats, error) {
	var stats []models.PlayerMatchStats
	err := s.db.DB.
		Joins("JOIN matches ON matches.id = player_match_stats.match_id").
		Where("player_match_stats.player_id = ? AND matches.season = ?", playerID, season).
		Order("matches.round DESC").
		Limit(limit).
		Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent stats for player %d: %w", playerID, err)
	}
	return stats, nil
}

func (s *ProjectionService) avgMinutes(playerID uint, season int) float64 {
	stats, err := s.recentStats(playerID, season, predictor.DefaultLookback)
	if err != nil || len(stats) == 0 {
		return 0
	}
	total := 0.0
	for _, line := range stats {
		total += float64(line.Minutes)
	}
	return total / float64(len(stats))
}

// latestPrice returns the most recent recorded price for the season, or 0
// when the player has no price history.
func (s *ProjectionService) latestPrice(playerID uint, season int) int {
	var record models.PriceHistory
	err := s.db.DB.Where("player_id = ? AND season = ?", playerID, season).
		Order("round DESC").
		First(&record).Error
	if err != nil {
		return 0
	}
	return record.Price
}

// CleanupStale removes projections for rounds already played.
func (s *ProjectionService) CleanupStale(season, currentRound int) (int64, error) {
	result := s.db.DB.Where("season = ? AND round < ?", season, currentRound).
		Delete(&models.Projection{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up stale projections: %w", result.Error)
	}
	return result.RowsAffected, nil
}
