package handlers

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/optimizer"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/services"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/config"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/utils"
)

type PlayerHandler struct {
	db          *database.DB
	cache       *services.CacheService
	projections *services.ProjectionService
	cfg         *config.Config
}

func NewPlayerHandler(db *database.DB, cache *services.CacheService, projections *services.ProjectionService, cfg *config.Config) *PlayerHandler {
	return &PlayerHandler{
		db:          db,
		cache:       cache,
		projections: projections,
		cfg:         cfg,
	}
}

// ListPlayers returns players, optionally filtered by team, position or name.
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	query := h.db.DB.Model(&models.Player{}).Where("active = ?", true)

	if team := c.Query("team"); team != "" {
		query = query.Where("team = ?", team)
	}
	if position := c.Query("position"); position != "" {
		query = query.Where("positions LIKE ?", "%"+position+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var players []models.Player
	if err := query.Order("name ASC").Find(&players).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch players")
		return
	}

	utils.SendSuccess(c, players)
}

// GetPlayer returns a single player with their season score history.
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	playerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var player models.Player
	if err := h.db.DB.First(&player, playerID).Error; err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}

	season := h.seasonParam(c)
	var scores []models.FantasyScore
	h.db.DB.Where("player_id = ? AND season = ?", playerID, season).
		Order("round ASC").
		Find(&scores)

	utils.SendSuccess(c, gin.H{
		"player": player,
		"season": season,
		"scores": scores,
	})
}

// GetProjection returns the stored (or freshly computed) projection for a
// player's upcoming round.
func (h *PlayerHandler) GetProjection(c *gin.Context) {
	playerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	season := h.seasonParam(c)
	round, err := strconv.Atoi(c.DefaultQuery("round", "0"))
	if err != nil || round < 0 {
		utils.SendValidationError(c, "Invalid round", c.Query("round"))
		return
	}
	if round == 0 {
		round = h.nextRound(season)
	}

	projection, err := h.projections.GetOrCreateProjection(c.Request.Context(), playerID, season, round)
	if err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}

	utils.SendSuccess(c, projection)
}

// GetValuePicks ranks active players by projected points per price unit.
func (h *PlayerHandler) GetValuePicks(c *gin.Context) {
	season := h.seasonParam(c)
	round, _ := strconv.Atoi(c.DefaultQuery("round", "0"))
	if round == 0 {
		round = h.nextRound(season)
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 50 {
		utils.SendValidationError(c, "Invalid limit", c.Query("limit"))
		return
	}

	cacheKey := services.ValuePicksCacheKey(season, round)
	var cached []valuePick
	ctx := context.Background()
	if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
		utils.SendSuccess(c, truncatePicks(cached, limit))
		return
	}

	var players []models.Player
	if err := h.db.DB.Where("active = ?", true).Find(&players).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch players")
		return
	}

	playerIDs := make([]uint, len(players))
	for i, p := range players {
		playerIDs[i] = p.ID
	}

	candidates, err := h.projections.CandidateProjections(c.Request.Context(), playerIDs, season, round)
	if err != nil {
		utils.SendInternalError(c, "Failed to build projections")
		return
	}

	defaultPrice := optimizer.DefaultTradeOptions().DefaultPrice
	picks := make([]valuePick, len(candidates))
	for i, candidate := range candidates {
		picks[i] = valuePick{
			CandidateProjection: candidate,
			ValueScore:          optimizer.ValueScore(candidate, defaultPrice),
		}
	}
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].ValueScore > picks[j].ValueScore
	})

	h.cache.Set(ctx, cacheKey, picks, 10*time.Minute)
	utils.SendSuccess(c, truncatePicks(picks, limit))
}

type valuePick struct {
	optimizer.CandidateProjection
	ValueScore float64 `json:"value_score"`
}

func truncatePicks(picks []valuePick, limit int) []valuePick {
	if len(picks) > limit {
		return picks[:limit]
	}
	return picks
}

func (h *PlayerHandler) seasonParam(c *gin.Context) int {
	season, err := strconv.Atoi(c.DefaultQuery("season", "0"))
	if err != nil || season <= 0 {
		return h.cfg.CurrentSeason
	}
	return season
}

// nextRound is the first round with an uncompleted fixture, defaulting to 1
// when the draw is empty.
func (h *PlayerHandler) nextRound(season int) int {
	var match models.Match
	err := h.db.DB.Where("season = ? AND completed = ?", season, false).
		Order("round ASC").
		First(&match).Error
	if err != nil {
		return 1
	}
	return match.Round
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", c.Param(name))
		return 0, false
	}
	return uint(id), true
}
