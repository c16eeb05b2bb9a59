package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"opportunity-search-api/internal/controller"
	"opportunity-search-api/internal/provider"
	"opportunity-search-api/internal/repo"
	"opportunity-search-api/internal/scheduler"
	"opportunity-search-api/internal/service"
	"opportunity-search-api/pkg/http_server"
	"opportunity-search-api/pkg/objectstore"
	"opportunity-search-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"
)

func runMigrations(postgresDB *postgres.Postgres, databaseName string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance("file://migrations", databaseName, driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func providerTimeout() time.Duration {
	seconds := 20
	if raw := os.Getenv("PROVIDER_TIMEOUT_SECONDS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			seconds = v
		}
	}

	return time.Duration(seconds) * time.Second
}

func buildObjectStore() objectstore.Store {
	endpoint := os.Getenv("OBJECT_STORE_ENDPOINT")
	if endpoint == "" {
		log.Println("OBJECT_STORE_ENDPOINT not set, staging attachments in memory")
		return objectstore.NewMemoryStore()
	}

	store, err := objectstore.NewMinioStore(
		endpoint,
		os.Getenv("OBJECT_STORE_ACCESS_KEY"),
		os.Getenv("OBJECT_STORE_SECRET_KEY"),
		os.Getenv("OBJECT_STORE_BUCKET"),
		os.Getenv("OBJECT_STORE_USE_SSL") == "true",
	)
	if err != nil {
		log.Fatal("Error occurred while creating object store client: ", err)
	}

	return store
}

func buildPipeline() service.PipelineTrigger {
	endpoint := os.Getenv("PIPELINE_ENDPOINT")
	if endpoint == "" {
		log.Println("PIPELINE_ENDPOINT not set, document pipeline trigger disabled")
		return service.NoopPipelineTrigger{}
	}

	return service.NewHTTPPipelineTrigger(endpoint)
}

func Run() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	serverAddressEnv := os.Getenv("SERVER_ADDRESS")
	dbConnEnv := os.Getenv("POSTGRES_CONN")
	databaseEnv := os.Getenv("POSTGRES_DATABASE")

	log.Println("Connecting database...")
	postgresDB, err := postgres.NewDB(dbConnEnv)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}
	defer postgresDB.Close()

	log.Println("Running migrations...")
	runMigrations(postgresDB, databaseEnv)

	timeout := providerTimeout()
	providers := provider.NewRegistry(
		provider.NewSamGovAdapter(os.Getenv("SAM_GOV_BASE_URL"), timeout),
		provider.NewDibbsAdapter(os.Getenv("DIBBS_BASE_URL"), timeout),
	)

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(service.Deps{
		Repos:           repositories,
		Providers:       providers,
		ObjectStore:     buildObjectStore(),
		Pipeline:        buildPipeline(),
		ProviderTimeout: timeout,
	})

	handler := echo.New()

	log.Println("Setup routes...")
	controller.SetupRoutesHandlers(handler, services)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if os.Getenv("SCHEDULER_ENABLED") == "true" {
		runner := scheduler.New(repositories.SavedSearch, services.Search, services.Importer)
		if err := runner.Start(ctx); err != nil {
			log.Fatal("Error occurred while starting scheduler: ", err)
		}
		defer runner.Stop()
	}

	log.Println("Starting server...")
	httpServer := http_server.New(handler, serverAddressEnv)

	log.Println("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Println("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.Fatal("Notify error: ", err)
	}

	log.Println("Shutting down...")
	if err := httpServer.Shutdown(); err != nil {
		log.Fatal("Shutdown error: ", err)
	} else {
		log.Println("Successful shutdown")
	}
}
