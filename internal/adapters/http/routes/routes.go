package routes

import (
	"maha-evoting/internal/adapters/http/handlers"
	"maha-evoting/internal/adapters/http/middleware"
	"maha-evoting/internal/adapters/persistence/repositories"
	"maha-evoting/internal/config"
	"maha-evoting/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	voterRepo := repositories.NewVoterRepository(db)
	electionRepo := repositories.NewElectionRepository(db)
	voteRepo := repositories.NewVoteRepository(db)

	// Initialize services
	voterService := services.NewVoterService(voterRepo)
	electionService := services.NewElectionService(electionRepo, voterRepo, voteRepo)
	dashboardService := services.NewDashboardService(db, cfg.Dashboard.TurnoutBaseline)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	voterHandler := handlers.NewVoterHandler(voterService)
	electionHandler := handlers.NewElectionHandler(electionService)
	resultHandler := handlers.NewResultHandler(dashboardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, voterHandler, electionHandler, resultHandler, dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	voterHandler *handlers.VoterHandler,
	electionHandler *handlers.ElectionHandler,
	resultHandler *handlers.ResultHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// Public election routes
	router.Get("/elections", electionHandler.List)
	router.Get("/elections/live", electionHandler.ListLive)
	router.Get("/results/declared", resultHandler.List)

	// Voter routes (authenticated)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, voterHandler)

	// Election routes (mixed public / voter / admin)
	electionRoutes := router.Group("/elections")
	setupElectionRoutes(electionRoutes, electionHandler, cfg)

	// Dashboard routes (Admin only)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.AdminOnly())
	dashboardRoutes.Get("/overview", dashboardHandler.Overview)
}

// setupUserRoutes configures voter profile routes (Authenticated)
func setupUserRoutes(router fiber.Router, handler *handlers.VoterHandler) {
	router.Post("/sync", handler.Sync)
	router.Get("/me", handler.Me)
	router.Post("/complete-profile", handler.CompleteProfile)

	// Admin only
	router.Get("/", middleware.AdminOnly(), handler.List)
}

// setupElectionRoutes configures election routes
func setupElectionRoutes(router fiber.Router, handler *handlers.ElectionHandler, cfg *config.Config) {
	// Authenticated routes. /my-election must register before /:id so the
	// literal segment is not captured as an election ID.
	router.Get("/my-election", middleware.AuthMiddleware(cfg), handler.MyElection)

	// Public single election
	router.Get("/:id", handler.GetByID)

	// Voter routes
	voterRoutes := router.Group("")
	voterRoutes.Use(middleware.AuthMiddleware(cfg))
	voterRoutes.Post("/:id/vote", middleware.VoterOnly(), middleware.VoteRateLimiter(), handler.CastVote)

	// Admin routes
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Post("/", handler.Create)
	adminRoutes.Put("/:id", handler.Update)
	adminRoutes.Delete("/:id", handler.Delete)
	adminRoutes.Put("/:id/activate", handler.Activate)
	adminRoutes.Put("/:id/declare-winner", handler.DeclareResult)
	adminRoutes.Post("/:id/declare-result", handler.DeclareResult)
	adminRoutes.Post("/:id/candidates", handler.AddCandidate)
	adminRoutes.Put("/:id/candidates/:candidate_id", handler.UpdateCandidate)
	adminRoutes.Delete("/:id/candidates/:candidate_id", handler.DeleteCandidate)
}
