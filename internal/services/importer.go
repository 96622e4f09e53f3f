package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/providers"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/scoring"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/utils"
)

// ImportSummary reports what one season import touched.
type ImportSummary struct {
	Season         int `json:"season"`
	Matches        int `json:"matches"`
	Players        int `json:"players"`
	StatLines      int `json:"stat_lines"`
	ScoresComputed int `json:"scores_computed"`
	Skipped        int `json:"skipped"`
}

// ImportService pulls season feeds into the database and computes fantasy
// scores for every imported stat line. Imports are idempotent: existing
// matches and stat lines are updated in place, not duplicated.
type ImportService struct {
	db     *database.DB
	feed   *providers.NRLDataClient
	logger *logrus.Logger
}

func NewImportService(db *database.DB, feed *providers.NRLDataClient, logger *logrus.Logger) *ImportService {
	return &ImportService{db: db, feed: feed, logger: logger}
}

// ImportSeason fetches, stores and scores a full season of data.
func (s *ImportService) ImportSeason(ctx context.Context, season int) (*ImportSummary, error) {
	s.logger.Infof("Starting data import for season %d", season)
	summary := &ImportSummary{Season: season}

	if err := s.importMatches(ctx, season, summary); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrImportFailed, err)
	}
	if err := s.importPlayerStats(ctx, season, summary); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrImportFailed, err)
	}
	if err := s.computeScores(season, summary); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrImportFailed, err)
	}

	s.logger.Infof("Import complete for season %d: %d matches, %d players, %d stat lines, %d scores",
		season, summary.Matches, summary.Players, summary.StatLines, summary.ScoresComputed)
	return summary, nil
}

func (s *ImportService) importMatches(ctx context.Context, season int, summary *ImportSummary) error {
	records, err := s.feed.FetchSeasonMatches(ctx, season)
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.HomeTeam == "" || record.AwayTeam == "" || int(record.Round) <= 0 {
			summary.Skipped++
			continue
		}

		match := models.Match{
			Season:    season,
			Round:     int(record.Round),
			HomeTeam:  record.HomeTeam,
			AwayTeam:  record.AwayTeam,
			Venue:     record.Venue,
			HomeScore: int(record.HomeScore),
			AwayScore: int(record.AwayScore),
			Completed: record.Completed(),
		}
		if date, err := time.Parse("2006-01-02", record.Date); err == nil {
			match.Date = date
		}

		var existing models.Match
		err := s.db.DB.Where("season = ? AND round = ? AND home_team = ? AND away_team = ?",
			season, match.Round, match.HomeTeam, match.AwayTeam).First(&existing).Error
		if err == nil {
			match.ID = existing.ID
		}
		if err := s.db.DB.Save(&match).Error; err != nil {
			return fmt.Errorf("failed to save match round %d: %w", match.Round, err)
		}
		summary.Matches++
	}

	return nil
}

func (s *ImportService) importPlayerStats(ctx context.Context, season int, summary *ImportSummary) error {
	records, err := s.feed.FetchSeasonPlayerStats(ctx, season)
	if err != nil {
		return err
	}

	playerIDs := make(map[string]uint)

	for _, record := range records {
		if record.PlayerName == "" || int(record.Round) <= 0 {
			summary.Skipped++
			continue
		}

		playerID, ok := playerIDs[record.PlayerName+"|"+record.Team]
		if !ok {
			id, isNew, err := s.upsertPlayer(record)
			if err != nil {
				return err
			}
			playerID = id
			playerIDs[record.PlayerName+"|"+record.Team] = id
			if isNew {
				summary.Players++
			}
		}

		var match models.Match
		err := s.db.DB.Where("season = ? AND round = ? AND (home_team = ? OR away_team = ?)",
			season, int(record.Round), record.Team, record.Team).First(&match).Error
		if err != nil {
			summary.Skipped++
			continue
		}

		stats := statsFromRecord(record, playerID, match.ID)

		var existing models.PlayerMatchStats
		err = s.db.DB.Where("player_id = ? AND match_id = ?", playerID, match.ID).First(&existing).Error
		if err == nil {
			stats.ID = existing.ID
		}
		if err := s.db.DB.Save(&stats).Error; err != nil {
			return fmt.Errorf("failed to save stats for %s round %d: %w", record.PlayerName, record.Round, err)
		}
		summary.StatLines++
	}

	return nil
}

func (s *ImportService) upsertPlayer(record providers.PlayerStatsRecord) (uint, bool, error) {
	var player models.Player
	err := s.db.DB.Where("name = ? AND team = ?", record.PlayerName, record.Team).First(&player).Error
	if err == nil {
		if record.Position != "" && player.Positions == "" {
			player.Positions = record.Position
			s.db.DB.Save(&player)
		}
		return player.ID, false, nil
	}

	player = models.Player{
		Name:      record.PlayerName,
		Team:      record.Team,
		Positions: record.Position,
		Active:    true,
	}
	if err := s.db.DB.Create(&player).Error; err != nil {
		return 0, false, fmt.Errorf("failed to create player %s: %w", record.PlayerName, err)
	}
	return player.ID, true, nil
}

// computeScores scores every stat line of the season that has no score yet.
func (s *ImportService) computeScores(season int, summary *ImportSummary) error {
	var rules []models.ScoringRule
	if err := s.db.DB.Where("season = ?", season).Find(&rules).Error; err != nil {
		return fmt.Errorf("failed to load scoring rules: %w", err)
	}

	engine, err := scoring.NewEngine(season, rules)
	if err != nil {
		return err
	}

	var statLines []models.PlayerMatchStats
	err = s.db.DB.
		Joins("JOIN matches ON matches.id = player_match_stats.match_id").
		Where("matches.season = ?", season).
		Find(&statLines).Error
	if err != nil {
		return fmt.Errorf("failed to load stat lines: %w", err)
	}

	for _, stats := range statLines {
		var match models.Match
		if err := s.db.DB.First(&match, stats.MatchID).Error; err != nil {
			continue
		}

		points := engine.Score(&stats)
		score := models.FantasyScore{
			PlayerID:         stats.PlayerID,
			MatchID:          stats.MatchID,
			Round:            match.Round,
			Season:           season,
			FantasyPoints:    points,
			CalculatedPoints: points,
		}

		var existing models.FantasyScore
		err := s.db.DB.Where("player_id = ? AND match_id = ?", stats.PlayerID, stats.MatchID).First(&existing).Error
		if err == nil {
			score.ID = existing.ID
			// Preserve the published score when one was recorded and track
			// how far our calculation drifts from it.
			if existing.FantasyPoints != 0 && existing.FantasyPoints != existing.CalculatedPoints {
				score.FantasyPoints = existing.FantasyPoints
				score.ErrorMargin = engine.Validate(&stats, existing.FantasyPoints)
			}
		}
		if err := s.db.DB.Save(&score).Error; err != nil {
			return fmt.Errorf("failed to save score for player %d: %w", stats.PlayerID, err)
		}
		summary.ScoresComputed++
	}

	return nil
}

func statsFromRecord(record providers.PlayerStatsRecord, playerID, matchID uint) models.PlayerMatchStats {
	return models.PlayerMatchStats{
		PlayerID:          playerID,
		MatchID:           matchID,
		Minutes:           int(record.Minutes),
		Tries:             int(record.Tries),
		TryAssists:        int(record.TryAssists),
		LinebreakAssists:  int(record.LinebreakAssists),
		LineBreaks:        int(record.LineBreaks),
		RunMetres:         int(record.RunMetres),
		TackleBreaks:      int(record.TackleBreaks),
		Tackles:           int(record.Tackles),
		MissedTackles:     int(record.MissedTackles),
		Offloads:          int(record.Offloads),
		KickMetres:        int(record.KickMetres),
		ForcedDropouts:    int(record.ForcedDropouts),
		Intercepts:        int(record.Intercepts),
		Errors:            int(record.Errors),
		PenaltiesConceded: int(record.PenaltiesConceded),
		SinBins:           int(record.SinBins),
		SendOffs:          int(record.SendOffs),
	}
}
