package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/api/handler"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/dashboard"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/directory"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/dispatch"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/localization"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/realtime"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/session"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/storage"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/tagging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func setupDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}
	if cfg.AutoMigrate {
		if err := storage.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		log.Info().Msg("migrations complete")
	}
	return db
}

// setupFeed returns the change feed and a function releasing its connections.
func setupFeed(ctx context.Context, cfg *config.Config, db *gorm.DB) (realtime.Feed, func()) {
	switch cfg.FeedBackend {
	case "postgres":
		feed, err := realtime.NewPostgresFeed(cfg.DatabaseDSN, db)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to listen for PostgreSQL notifications")
		}
		return feed, func() { _ = feed.Close() }
	case "memory":
		log.Warn().Msg("in-memory change feed: updates from other processes are only seen by polling")
		return realtime.NewLocalFeed(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect Redis")
	}
	return realtime.NewRedisFeed(rdb), func() { _ = rdb.Close() }
}

func setupMedia(cfg *config.Config) dispatch.MediaStore {
	if !cfg.S3.Enabled() {
		log.Info().Msg("S3 not configured, attachments are stored inline")
		return nil
	}
	media, err := dispatch.NewS3Media(cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure S3 media storage")
	}
	return media
}

func main() {
	cfg := config.Load()
	setupLogging(cfg)
	log.Info().Str("feed", cfg.FeedBackend).Msg("starting conversation console backend")

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := setupDatabase(cfg)
	s := storage.NewStorageService(db)
	feed, closeFeed := setupFeed(ctx, cfg, db)
	defer closeFeed()

	l, err := localization.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load translations")
	}

	loader := dashboard.NewLoader(s, l, time.Local)
	dispatcher := dispatch.NewDispatcher(s, feed, dispatch.NewRelay(cfg.WebhookURL, cfg.WebhookTimeout), setupMedia(cfg))
	hub := realtime.NewHub(feed, cfg.RefreshInterval, func(ctx context.Context, actor models.Actor) any {
		return loader.Load(ctx, actor)
	})
	go hub.Run(ctx)

	h := handler.NewHandler(hub, loader, dispatcher, tagging.NewEditor(s, feed), directory.NewService(s, feed), s, l, cfg.DefaultLang)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger())
	h.Register(r, session.Middleware(session.NewResolver(s, cfg.JWTSecret)))

	// Sessions travel as bearer tokens, never cookies.
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Company-ID"},
		MaxAge:         300,
	})

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        c.Handler(r),
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	dispatcher.Wait()
}
