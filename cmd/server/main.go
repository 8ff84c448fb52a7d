package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"maha-evoting/internal/adapters/http/middleware"
	"maha-evoting/internal/adapters/http/routes"
	"maha-evoting/internal/adapters/persistence/models"
	"maha-evoting/internal/adapters/persistence/repositories"
	"maha-evoting/internal/config"
	"maha-evoting/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "maha-evoting/docs" // Swagger docs
)

// @title MahaOnline E-Voting API
// @version 1.0
// @description Regional online voting platform for Maharashtra district elections.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@vote.mahaonline.gov.in

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.vote.mahaonline.gov.in
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity-provider session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed admin voter records from ADMIN_SUBJECTS
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed admin voters: %v", err)
	}

	// Start the lifecycle sweep (activates due elections, declares expired ones)
	if cfg.Sweep.Enabled {
		electionRepo := repositories.NewElectionRepository(db)
		voterRepo := repositories.NewVoterRepository(db)
		voteRepo := repositories.NewVoteRepository(db)
		electionService := services.NewElectionService(electionRepo, voterRepo, voteRepo)

		sweepService := services.NewSweepService(electionRepo, electionService, cfg.Sweep.Spec)
		if err := sweepService.Start(); err != nil {
			log.Fatalf("❌ Failed to start election sweep: %v", err)
		}
		defer sweepService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MahaOnline E-Voting API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
