// Command api serves the catalog REST API.
//
//	@title			Catalog API
//	@version		1.0
//	@description	Courses, books, news and reviews with JWT authentication.
//	@BasePath		/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/api"
	"github.com/dars410/catalog-api/internal/api/handler"
	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
	"github.com/dars410/catalog-api/internal/core/service"
	"github.com/dars410/catalog-api/internal/infrastructure/config"
	mongodb "github.com/dars410/catalog-api/internal/infrastructure/db/mongo"
	"github.com/dars410/catalog-api/internal/infrastructure/db/postgres"
	redisdb "github.com/dars410/catalog-api/internal/infrastructure/db/redis"
	"github.com/dars410/catalog-api/internal/infrastructure/queue"
	"github.com/dars410/catalog-api/internal/infrastructure/storage"
	"github.com/dars410/catalog-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-api",
	})
	if cfg.SecretKey == "" {
		log.Warn().Msg("SECRET_KEY is empty: authentication routes will answer 500")
	}

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.DB.URL})
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	checks := []handler.DependencyCheck{{Name: "postgres", Ping: postgres.Pinger(pool)}}

	// Optional Redis: login throttling.
	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer client.Close()
		throttle = redisdb.NewLoginThrottle(client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)
		checks = append(checks, handler.DependencyCheck{Name: "redis", Ping: redisdb.Pinger(client)})
	}

	// Optional MongoDB: audit trail.
	var auditRepo ports.AuditRepository
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo unavailable")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}
		auditRepo = mongodb.NewAuditRepository(db)
		checks = append(checks, handler.DependencyCheck{Name: "mongo", Ping: mongodb.Pinger(client)})
	}

	hasher := service.NewPasswordHasher(cfg.SecretKey, service.DefaultArgonParams)
	tokens := service.NewTokenService(cfg.SecretKey, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := postgres.NewUserRepository(pool)

	if cfg.SecretKey != "" {
		seed := service.AdminSeed{Login: cfg.Admin.Login, Password: cfg.Admin.Password, FullName: cfg.Admin.FullName}
		if err := service.BootstrapAdmin(ctx, userRepo, hasher, seed, logger.Component("bootstrap")); err != nil {
			log.Fatal().Err(err).Msg("admin bootstrap failed")
		}
	}

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers,
		service.NewAuditService(auditRepo, logger.Component("audit")), logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	store := storage.NewDiskStore(cfg.Upload.Dir, "/uploads", logger.Component("storage"))

	e := api.NewRouter(api.Deps{
		Log:   log,
		Debug: cfg.IsDevelopment(),

		Tokens:  tokens,
		Auth:    service.NewAuthService(userRepo, hasher, tokens, throttle, logger.Component("auth")),
		Users:   service.NewUserService(userRepo, hasher, logger.Component("users")),
		Uploads: service.NewUploadService(store, cfg.Upload.MaxBytes, logger.Component("uploads")),
		Audit:   dispatcher,

		Catalog:       newCatalog(pool, log),
		CourseReviews: service.NewReviewService(domain.TargetCourse, postgres.NewCourseReviewRepository(pool), log),
		BookReviews:   service.NewReviewService(domain.TargetBook, postgres.NewBookReviewRepository(pool), log),

		UploadMaxBytes:  cfg.Upload.MaxBytes,
		LoginRatePerSec: cfg.Auth.LoginRatePerSec,
		HealthChecks:    checks,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// Requests are finished; flush pending audit entries.
	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
}

func newCatalog(pool *pgxpool.Pool, log zerolog.Logger) api.Catalog {
	return api.Catalog{
		Authors: service.NewResourceService[domain.Author]("authors", postgres.NewTable[domain.Author](pool, postgres.TableConfig{
			Name: "authors", Columns: "id, first_name, last_name, middle_name, created_at, updated_at",
		}), log),
		Categories: service.NewResourceService[domain.Category]("categories", titleTable[domain.Category](pool, "categories"), log),
		Levels:     service.NewResourceService[domain.Level]("levels", titleTable[domain.Level](pool, "levels"), log),
		Sections:   service.NewResourceService[domain.Section]("sections", titleTable[domain.Section](pool, "sections"), log),
		Languages: service.NewResourceService[domain.Language]("languages", postgres.NewTable[domain.Language](pool, postgres.TableConfig{
			Name: "languages", Columns: "id, title, code, created_at, updated_at",
		}), log),
		Courses: service.NewResourceService[domain.Course]("courses", postgres.NewTable[domain.Course](pool, postgres.TableConfig{
			Name: "courses",
			Columns: "id, title, image_url, discount_price, price, views, likes_count, " +
				"author_id, section_id, level_id, category_id, language_id, created_at, updated_at",
		}), log),
		Books: service.NewResourceService[domain.Book]("books", postgres.NewTable[domain.Book](pool, postgres.TableConfig{
			Name: "books",
			Columns: "id, title, image_url, discount_price, price, views, likes_count, " +
				"author_id, level_id, category_id, language_id, created_at, updated_at",
		}), log),
		News: service.NewResourceService[domain.News]("news", postgres.NewTable[domain.News](pool, postgres.TableConfig{
			Name: "news", Columns: "id, title, description, date, news_img_url, created_at, updated_at",
		}), log),
	}
}

func titleTable[T any](pool *pgxpool.Pool, name string) *postgres.Table[T] {
	return postgres.NewTable[T](pool, postgres.TableConfig{Name: name, Columns: "id, title, created_at, updated_at"})
}
