package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	api "github.com/hidromont/site-backend/api"
	"github.com/hidromont/site-backend/cache"
	"github.com/hidromont/site-backend/config"
	"github.com/hidromont/site-backend/database"
	"github.com/hidromont/site-backend/models"
	"github.com/hidromont/site-backend/services"
	"github.com/hidromont/site-backend/session"
	"github.com/hidromont/site-backend/uploads"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)

	if path := config.GetString(c, "SSM_PARAMETER_PATH", ""); path != "" {
		overlaySSM(c, path)
	}

	opts := database.OptionsFromConfig(c)
	opts.Logger = logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	fmt.Printf("DB_TYPE: %s\n", opts.Type)
	db, err := database.Open(opts)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			fmt.Printf("Error generating models: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		report, err := models.GenerateColumnMismatchReport(db)
		if err != nil {
			fmt.Printf("Error generating report: %v\n", err)
			os.Exit(1)
		}
		printColumnReport(report)
		return
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}
	currentDB := database.New(db)
	defer currentDB.Close()

	auth := services.NewAuthService(currentDB)

	// If creating an admin, do it and exit
	if email := config.GetString(c, "CREATE_ADMIN_EMAIL", ""); email != "" {
		admin, err := auth.CreateAdmin(context.Background(), email, config.GetString(c, "CREATE_ADMIN_PASSWORD", ""))
		if err != nil {
			fmt.Printf("Error creating admin: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Admin %s ready (id %d)\n", admin.Email, admin.ID)
		return
	}

	deps, err := buildDependencies(c, currentDB, auth)
	if err != nil {
		fmt.Printf("Error initializing services: %v\n", err)
		os.Exit(1)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogging switches zerolog to debug level when APP_DEBUG is on.
func setupLogging(c map[string]string) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if config.GetBool(c, "APP_DEBUG", false) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// overlaySSM fills config keys missing from the environment with values
// from SSM Parameter Store.
func overlaySSM(c map[string]string, path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := config.NewSSMClient(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("failed to load AWS config, skipping SSM overlay")
		return
	}
	n, err := config.OverlaySSM(ctx, c, client, path)
	if err != nil {
		zlog.Error().Err(err).Str("path", path).Msg("failed to read SSM parameters")
		return
	}
	zlog.Info().Int("parameters", n).Str("path", path).Msg("loaded configuration from SSM")
}

func buildDependencies(c map[string]string, db database.Database, auth *services.AuthService) (api.Dependencies, error) {
	projectFiles, err := uploads.FromConfig(c, "projects")
	if err != nil {
		return api.Dependencies{}, err
	}
	productFiles, err := uploads.FromConfig(c, "products")
	if err != nil {
		return api.Dependencies{}, err
	}

	if bucket := config.GetString(c, "UPLOAD_S3_BUCKET", ""); bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		mirror, err := uploads.NewS3MirrorFromEnv(ctx, bucket, config.GetString(c, "UPLOAD_S3_PREFIX", ""))
		cancel()
		if err != nil {
			return api.Dependencies{}, fmt.Errorf("failed to set up S3 mirror: %w", err)
		}
		projectFiles.Mirror = mirror
		productFiles.Mirror = mirror
		zlog.Info().Str("bucket", bucket).Msg("mirroring uploads to S3")
	}

	responseCache, err := cache.FromConfig(c)
	if err != nil {
		return api.Dependencies{}, err
	}

	sessions, err := session.FromConfig(c)
	if err != nil {
		return api.Dependencies{}, err
	}

	return api.Dependencies{
		Config:       c,
		Content:      services.NewContentService(db, projectFiles, productFiles),
		Orders:       services.NewOrderService(db, services.NotifierFromConfig(c)),
		Auth:         auth,
		Sessions:     sessions,
		Cache:        responseCache,
		ProjectFiles: projectFiles,
		ProductFiles: productFiles,
	}, nil
}

func printColumnReport(report map[string][]string) {
	if len(report) == 0 {
		return
	}
	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	fmt.Printf("Tables needing attention: %s\n", strings.Join(tables, ", "))
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
