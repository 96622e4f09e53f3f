package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/api/handlers"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/services"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/config"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
)

// SetupRoutes registers all API routes on the given router group.
func SetupRoutes(
	group *gin.RouterGroup,
	db *database.DB,
	cache *services.CacheService,
	projections *services.ProjectionService,
	importer *services.ImportService,
	cfg *config.Config,
) {
	playerHandler := handlers.NewPlayerHandler(db, cache, projections, cfg)
	teamHandler := handlers.NewTeamHandler(db, projections, cfg)
	advancedHandler := handlers.NewAdvancedHandler(db, projections, importer, cfg)

	// Player endpoints
	group.GET("/players", playerHandler.ListPlayers)
	group.GET("/players/:id", playerHandler.GetPlayer)
	group.GET("/players/:id/projection", playerHandler.GetProjection)
	group.GET("/players/value-picks", playerHandler.GetValuePicks)

	// Team endpoints
	group.POST("/team/project", teamHandler.ProjectTeam)
	group.POST("/team/trades", teamHandler.SuggestTrades)

	// Advanced analytics and administration
	group.POST("/advanced/predict", advancedHandler.Predict)
	group.GET("/advanced/defensive-strength/:team", advancedHandler.GetDefensiveStrength)
	group.POST("/advanced/bye-plan", advancedHandler.CreateByePlan)
	group.POST("/advanced/import-data/:season", advancedHandler.ImportData)

	// Projection batch jobs
	group.POST("/projections/generate", advancedHandler.GenerateProjections)
}
