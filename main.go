package main

import (
	"context"
	"log"

	"gocpd/adapters/postgres"
	"gocpd/app"
	"gocpd/internal/api"
	"gocpd/internal/config"
	"gocpd/internal/errors"
	"gocpd/internal/migration"
	"gocpd/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and brings the schema up to date
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Run migrations
	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Persistence is optional: without DATABASE_URL the planner still
	// resolves models and builds invocations, it just cannot store runs.
	var repository ports.RunRepository
	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		repository = postgres.NewRunRepository(db)
		log.Println("Run persistence enabled")
	} else {
		log.Println("DATABASE_URL not set, run persistence disabled")
	}

	planner := app.NewPlannerService(nil, nil, repository, appConfig.Version)

	server := api.NewServer(api.Config{
		Port:           appConfig.Server.Port,
		RequestTimeout: appConfig.Server.RequestTimeout,
	}, planner, repository)

	log.Fatal(server.Start())
}
