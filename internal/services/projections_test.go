package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/predictor"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	// Named shared-cache databases keep one store per test across pooled
	// connections.
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	db, err := database.NewConnection(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.DB.AutoMigrate(
		&models.Player{},
		&models.Match{},
		&models.PlayerMatchStats{},
		&models.ScoringRule{},
		&models.FantasyScore{},
		&models.PriceHistory{},
		&models.Projection{},
	))

	return db
}

func newTestProjectionService(t *testing.T, db *database.DB) *ProjectionService {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewProjectionService(db, NewCacheService(nil), logger, nil, predictor.DefaultLookback, 2, time.Minute)
}

func seedPlayerWithHistory(t *testing.T, db *database.DB, name string, scores ...float64) models.Player {
	t.Helper()

	player := models.Player{Name: name, Team: "Cronulla Sharks", Positions: "HLF", Active: true}
	require.NoError(t, db.DB.Create(&player).Error)

	for i, points := range scores {
		round := len(scores) - i
		match := models.Match{
			Season: 2024, Round: round,
			HomeTeam: "Cronulla Sharks", AwayTeam: "Wests Tigers",
			Completed: true,
		}
		require.NoError(t, db.DB.Create(&match).Error)
		require.NoError(t, db.DB.Create(&models.FantasyScore{
			PlayerID: player.ID, MatchID: match.ID,
			Round: round, Season: 2024, FantasyPoints: points, CalculatedPoints: points,
		}).Error)
		require.NoError(t, db.DB.Create(&models.PlayerMatchStats{
			PlayerID: player.ID, MatchID: match.ID,
			Minutes: 80, Tackles: 25, RunMetres: 110,
		}).Error)
	}

	return player
}

func TestGetOrCreateProjectionPersists(t *testing.T) {
	db := testDB(t)
	svc := newTestProjectionService(t, db)

	player := seedPlayerWithHistory(t, db, "Test Half", 52, 48, 55, 50, 49)

	first, err := svc.GetOrCreateProjection(context.Background(), player.ID, 2024, 10)
	require.NoError(t, err)
	assert.Greater(t, first.PredictedPoints, 0.0)
	assert.GreaterOrEqual(t, first.Confidence, predictor.MinConfidence)
	assert.Equal(t, 5, first.GamesAnalyzed)

	// Second call returns the stored row instead of recomputing.
	second, err := svc.GetOrCreateProjection(context.Background(), player.ID, 2024, 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.DB.Model(&models.Projection{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreateProjectionNoHistory(t *testing.T) {
	db := testDB(t)
	svc := newTestProjectionService(t, db)

	player := models.Player{Name: "Debutant", Team: "Dolphins", Active: true}
	require.NoError(t, db.DB.Create(&player).Error)

	projection, err := svc.GetOrCreateProjection(context.Background(), player.ID, 2024, 5)
	require.NoError(t, err)

	// No history: the conservative default blend applies.
	assert.Equal(t, predictor.NoHistoryPoints, projection.AvgAllGames)
	assert.GreaterOrEqual(t, projection.Confidence, predictor.MinConfidence)
}

func TestGetOrCreateProjectionUnknownPlayer(t *testing.T) {
	db := testDB(t)
	svc := newTestProjectionService(t, db)

	_, err := svc.GetOrCreateProjection(context.Background(), 999, 2024, 5)
	require.Error(t, err)
}

func TestGenerateRoundCoversAllActivePlayers(t *testing.T) {
	db := testDB(t)
	svc := newTestProjectionService(t, db)

	for i := 0; i < 6; i++ {
		seedPlayerWithHistory(t, db, fmt.Sprintf("Player %d", i), 40, 45, 50)
	}
	retired := models.Player{Name: "Retired", Team: "Sydney Roosters", Active: false}
	require.NoError(t, db.DB.Create(&retired).Error)

	generated, err := svc.GenerateRound(context.Background(), 2024, 11)
	require.NoError(t, err)
	assert.Equal(t, 6, generated)

	var count int64
	db.DB.Model(&models.Projection{}).Where("round = ?", 11).Count(&count)
	assert.Equal(t, int64(6), count)
}

func TestDefensiveStrengthFromConcededScores(t *testing.T) {
	db := testDB(t)
	svc := newTestProjectionService(t, db)

	// One completed match against the Storm; the opposing player scored 60.
	opponent := models.Player{Name: "Opp Lock", Team: "Melbourne Storm", Active: true}
	require.NoError(t, db.DB.Create(&opponent).Error)

	match := models.Match{
		Season: 2024, Round: 1,
		HomeTeam: "Brisbane Broncos", AwayTeam: "Melbourne Storm",
		Completed: true,
	}
	require.NoError(t, db.DB.Create(&match).Error)
	require.NoError(t, db.DB.Create(&models.FantasyScore{
		PlayerID: opponent.ID, MatchID: match.ID,
		Round: 1, Season: 2024, FantasyPoints: 60,
	}).Error)

	rating, err := svc.DefensiveStrength(context.Background(), "Brisbane Broncos", 2024)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, rating, 0.001)

	// No completed matches: league average.
	rating, err = svc.DefensiveStrength(context.Background(), "Canberra Raiders", 2024)
	require.NoError(t, err)
	assert.Equal(t, predictor.LeagueAverageDefense, rating)
}

func TestCandidateProjectionsJoinsPriceAndForm(t *testing.T) {
	db := testDB(t)
	svc := newTestProjectionService(t, db)

	player := seedPlayerWithHistory(t, db, "Priced Half", 50, 50, 50)
	require.NoError(t, db.DB.Create(&models.PriceHistory{
		PlayerID: player.ID, Round: 2, Season: 2024, Price: 550,
	}).Error)
	require.NoError(t, db.DB.Create(&models.PriceHistory{
		PlayerID: player.ID, Round: 3, Season: 2024, Price: 580,
	}).Error)

	candidates, err := svc.CandidateProjections(context.Background(), []uint{player.ID}, 2024, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, "Priced Half", candidates[0].Name)
	assert.Equal(t, "HLF", candidates[0].Position)
	assert.Equal(t, 580, candidates[0].Price) // latest round wins
	assert.Greater(t, candidates[0].PredictedPoints, 0.0)
}

func TestCleanupStaleRemovesPastRounds(t *testing.T) {
	db := testDB(t)
	svc := newTestProjectionService(t, db)

	for round := 3; round <= 7; round++ {
		require.NoError(t, db.DB.Create(&models.Projection{
			PlayerID: 1, Round: round, Season: 2024, PredictedPoints: 40,
		}).Error)
	}

	removed, err := svc.CleanupStale(2024, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	var remaining int64
	db.DB.Model(&models.Projection{}).Count(&remaining)
	assert.Equal(t, int64(2), remaining)
}
