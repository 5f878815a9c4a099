package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/blog-platform/api"
	"github.com/rpupo63/blog-platform/config"
	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/database/memory"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/identity"
	"github.com/rpupo63/blog-platform/services"
	"github.com/rpupo63/blog-platform/views"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)

	log.Info().Msg("Initializing app...")

	ctx := context.Background()
	if err := config.ResolveSecrets(ctx, c); err != nil {
		log.Fatal().Err(err).Msg("Error resolving secrets")
	}

	stores, err := openStores(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	gateway, err := newIdentityGateway(c, stores)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing identity provider")
	}

	images, err := newImageEncoder(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing image storage")
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing templates")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, api.Dependencies{
		Stores:   stores,
		Identity: gateway,
		Images:   images,
		Renderer: renderer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// openStores builds the document store selected by DB_TYPE.
func openStores(c map[string]string) (database.Stores, error) {
	dbType := config.GetString(c, "DB_TYPE", "memory")
	log.Info().Str("dbType", dbType).Msg("Opening store")

	var connStr string
	switch dbType {
	case "memory":
		log.Warn().Msg("Using the in-memory store, data is lost on restart")
		return memory.New(), nil
	case "postgres":
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", ""),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", ""),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		)
	case "supa":
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
	default:
		return nil, errs.NewInvalidConfigError("DB_TYPE", dbType)
	}

	newLogger := logger.New(
		stdlog.New(log.Logger, "", 0),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect", "database", err)
	}

	if replica := config.GetString(c, "DB_REPLICA_DSN", ""); replica != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replica,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, errs.NewDatabaseError("register replica", "database", err)
		}
		log.Info().Msg("Read replica registered")
	}

	// gen_random_uuid() lives in pgcrypto on older servers
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return nil, errs.NewDatabaseError("enable pgcrypto", "database", err)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, errs.NewDatabaseError("ping", "database", err)
	}

	if config.GetBool(c, "COLUMN_REPORT", false) {
		report, err := database.UnmappedColumns(db)
		if err != nil {
			return nil, errs.NewDatabaseError("column report", "database", err)
		}
		for _, table := range report.Tables() {
			log.Warn().Str("table", table).Strs("columns", report[table]).Msg("Columns not mapped by any model")
		}
	}

	if err := database.Migrate(db); err != nil {
		return nil, errs.NewDatabaseError("migrate", "database", err)
	}

	return database.New(db), nil
}

// newIdentityGateway builds the provider selected by IDENTITY_PROVIDER.
func newIdentityGateway(c map[string]string, stores database.Stores) (identity.Gateway, error) {
	provider := strings.ToLower(config.GetString(c, "IDENTITY_PROVIDER", "local"))
	log.Info().Str("identityProvider", provider).Msg("Configuring identity provider")

	switch provider {
	case "local":
		ttl := time.Duration(config.GetInt(c, "TOKEN_TTL_MINUTES", 60)) * time.Minute
		return identity.NewLocalGateway(stores.CredentialRepo(), []byte(config.GetString(c, "JWT_SECRET", "")), ttl)
	case "descope":
		return identity.NewDescopeGateway(
			config.GetString(c, "DESCOPE_PROJECT_ID", ""),
			config.GetString(c, "DESCOPE_MANAGEMENT_KEY", ""),
		)
	default:
		return nil, errs.NewInvalidConfigError("IDENTITY_PROVIDER", provider)
	}
}

// newImageEncoder builds the encoder selected by IMAGE_STORAGE.
func newImageEncoder(ctx context.Context, c map[string]string) (services.ImageEncoder, error) {
	storage := strings.ToLower(config.GetString(c, "IMAGE_STORAGE", "inline"))

	switch storage {
	case "inline":
		return services.InlineImageEncoder{}, nil
	case "s3":
		region := config.GetString(c, "AWS_REGION", "us-east-1")
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return nil, errs.NewConfigError("AWS_REGION", err)
		}
		return services.NewS3ImageEncoder(s3.NewFromConfig(awsCfg), config.GetString(c, "IMAGE_BUCKET", ""), region)
	default:
		return nil, errs.NewInvalidConfigError("IMAGE_STORAGE", storage)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
