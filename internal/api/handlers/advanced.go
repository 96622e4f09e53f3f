package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/byeplanner"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/optimizer"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/services"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/config"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/utils"
)

// AdvancedHandler serves the prediction, defense, bye-planning and data
// administration endpoints.
type AdvancedHandler struct {
	db          *database.DB
	projections *services.ProjectionService
	importer    *services.ImportService
	cfg         *config.Config
}

func NewAdvancedHandler(db *database.DB, projections *services.ProjectionService, importer *services.ImportService, cfg *config.Config) *AdvancedHandler {
	return &AdvancedHandler{
		db:          db,
		projections: projections,
		importer:    importer,
		cfg:         cfg,
	}
}

type predictRequest struct {
	PlayerID uint `json:"player_id" binding:"required"`
	Season   int  `json:"season"`
}

// Predict returns the context-free baseline forecast for a player, with its
// full feature snapshot. Useful for comparing against the contextual number.
func (h *AdvancedHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Season == 0 {
		req.Season = h.cfg.CurrentSeason
	}

	prediction, err := h.projections.BaselineProjection(req.PlayerID, req.Season)
	if err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}

	utils.SendSuccess(c, prediction)
}

// GetDefensiveStrength returns the fantasy points a team concedes on average.
func (h *AdvancedHandler) GetDefensiveStrength(c *gin.Context) {
	team := c.Param("team")
	if team == "" {
		utils.SendValidationError(c, "Team is required", "")
		return
	}

	season, err := strconv.Atoi(c.DefaultQuery("season", "0"))
	if err != nil || season < 0 {
		utils.SendValidationError(c, "Invalid season", c.Query("season"))
		return
	}
	if season == 0 {
		season = h.cfg.CurrentSeason
	}

	rating, err := h.projections.DefensiveStrength(c.Request.Context(), team, season)
	if err != nil {
		utils.SendInternalError(c, "Failed to compute defensive strength")
		return
	}

	utils.SendSuccess(c, gin.H{
		"team":             team,
		"season":           season,
		"defensive_rating": rating,
		"category":         defenseCategory(rating),
	})
}

// defenseCategory labels a rating for display. Lower conceded points means a
// stronger defense.
func defenseCategory(rating float64) string {
	switch {
	case rating < 40:
		return "strong"
	case rating > 50:
		return "weak"
	default:
		return "average"
	}
}

type byePlanRequest struct {
	PlayerIDs       []uint `json:"player_ids" binding:"required,min=1"`
	Season          int    `json:"season"`
	Round           int    `json:"round"`
	TradesAvailable int    `json:"trades_available"`
}

// CreateByePlan analyzes squad coverage across the bye rounds and plans the
// replacement trades that keep the side fieldable.
func (h *AdvancedHandler) CreateByePlan(c *gin.Context) {
	var req byePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Season == 0 {
		req.Season = h.cfg.CurrentSeason
	}
	if req.Round == 0 {
		req.Round = 12 // last round before the 2024 bye period
	}

	squad, err := h.projections.CandidateProjections(c.Request.Context(), req.PlayerIDs, req.Season, req.Round)
	if err != nil {
		utils.SendNotFound(c, "One or more players not found")
		return
	}

	available, err := h.replacementPool(c, req)
	if err != nil {
		utils.SendInternalError(c, "Failed to build replacement pool")
		return
	}

	opts := byeplanner.DefaultOptions()
	opts.MaxTradesPerRound = h.cfg.ByeTradesPerRound
	opts.AggressiveImpactThreshold = h.cfg.ByeAggressiveThreshold

	plan := byeplanner.CreatePlan(squad, available, byeplanner.Default2024Schedule, req.TradesAvailable, opts)

	utils.SendSuccess(c, plan)
}

// replacementPool projects every active player outside the squad.
func (h *AdvancedHandler) replacementPool(c *gin.Context, req byePlanRequest) ([]optimizer.CandidateProjection, error) {
	inSquad := make(map[uint]bool, len(req.PlayerIDs))
	for _, id := range req.PlayerIDs {
		inSquad[id] = true
	}

	var players []models.Player
	if err := h.db.DB.Where("active = ?", true).Find(&players).Error; err != nil {
		return nil, err
	}

	var poolIDs []uint
	for _, player := range players {
		if !inSquad[player.ID] {
			poolIDs = append(poolIDs, player.ID)
		}
	}

	return h.projections.CandidateProjections(c.Request.Context(), poolIDs, req.Season, req.Round)
}

// ImportData triggers a synchronous season import from the NRL data feed.
func (h *AdvancedHandler) ImportData(c *gin.Context) {
	season, err := strconv.Atoi(c.Param("season"))
	if err != nil || season < 2000 || season > 2100 {
		utils.SendValidationError(c, "Invalid season", c.Param("season"))
		return
	}

	summary, err := h.importer.ImportSeason(c.Request.Context(), season)
	if err != nil {
		if errors.Is(err, utils.ErrNoRuleSet) {
			utils.SendConfigurationError(c, fmt.Sprintf("No scoring rules configured for season %d", season))
			return
		}
		utils.SendError(c, 502, utils.NewAppError(utils.ErrCodeImport, "Season import failed", err.Error()))
		return
	}

	utils.SendSuccess(c, summary)
}

type generateRequest struct {
	Season int `json:"season"`
	Round  int `json:"round" binding:"required,min=1"`
}

// GenerateProjections builds projections for every active player for a round.
func (h *AdvancedHandler) GenerateProjections(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Season == 0 {
		req.Season = h.cfg.CurrentSeason
	}

	generated, err := h.projections.GenerateRound(c.Request.Context(), req.Season, req.Round)
	if err != nil {
		utils.SendError(c, 500, utils.NewAppError(utils.ErrCodeProjection, "Projection generation failed", err.Error()))
		return
	}

	utils.SendSuccess(c, gin.H{
		"season":    req.Season,
		"round":     req.Round,
		"generated": generated,
	})
}
