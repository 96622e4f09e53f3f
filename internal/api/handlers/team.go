package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/optimizer"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/services"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/config"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/utils"
)

type TeamHandler struct {
	db          *database.DB
	projections *services.ProjectionService
	cfg         *config.Config
}

func NewTeamHandler(db *database.DB, projections *services.ProjectionService, cfg *config.Config) *TeamHandler {
	return &TeamHandler{
		db:          db,
		projections: projections,
		cfg:         cfg,
	}
}

type teamProjectRequest struct {
	PlayerIDs []uint `json:"player_ids" binding:"required,min=1"`
	Season    int    `json:"season"`
	Round     int    `json:"round" binding:"required,min=1"`
}

// ProjectTeam projects every squad member's next score and recommends a
// captain and vice-captain.
func (h *TeamHandler) ProjectTeam(c *gin.Context) {
	var req teamProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Season == 0 {
		req.Season = h.cfg.CurrentSeason
	}

	candidates, err := h.projections.CandidateProjections(c.Request.Context(), req.PlayerIDs, req.Season, req.Round)
	if err != nil {
		utils.SendNotFound(c, "One or more players not found")
		return
	}

	captain, vice := optimizer.SuggestCaptain(candidates)

	utils.SendSuccess(c, gin.H{
		"season":          req.Season,
		"round":           req.Round,
		"projections":     candidates,
		"projected_total": optimizer.TeamProjection(candidates),
		"captain":         captain,
		"vice_captain":    vice,
	})
}

type tradeRequest struct {
	SquadPlayerIDs []uint `json:"squad_player_ids" binding:"required,min=1"`
	BankBalance    int    `json:"bank_balance"`
	Season         int    `json:"season"`
	Round          int    `json:"round" binding:"required,min=1"`
	Limit          int    `json:"limit"`
}

// SuggestTrades recommends player swaps that upgrade the squad's projected
// output within budget.
func (h *TeamHandler) SuggestTrades(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Season == 0 {
		req.Season = h.cfg.CurrentSeason
	}
	if req.Limit <= 0 || req.Limit > 20 {
		req.Limit = 5
	}

	squad, err := h.projections.CandidateProjections(c.Request.Context(), req.SquadPlayerIDs, req.Season, req.Round)
	if err != nil {
		utils.SendNotFound(c, "One or more squad players not found")
		return
	}

	available, err := h.availableCandidates(c, req)
	if err != nil {
		utils.SendInternalError(c, "Failed to build trade pool")
		return
	}

	opts := optimizer.DefaultTradeOptions()
	opts.ValueGain = h.cfg.TradeValueGainThreshold
	opts.PointsGain = h.cfg.TradePointsGainThreshold

	suggestions := optimizer.SuggestTrades(squad, available, req.BankBalance, req.Limit, opts)

	utils.SendSuccess(c, gin.H{
		"season":      req.Season,
		"round":       req.Round,
		"suggestions": suggestions,
	})
}

// availableCandidates projects the non-squad trade pool.
func (h *TeamHandler) availableCandidates(c *gin.Context, req tradeRequest) ([]optimizer.CandidateProjection, error) {
	inSquad := make(map[uint]bool, len(req.SquadPlayerIDs))
	for _, id := range req.SquadPlayerIDs {
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
