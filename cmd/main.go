package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/vsp-live/profile-service/internal/cache"
	"github.com/vsp-live/profile-service/internal/config"
	"github.com/vsp-live/profile-service/internal/consumer"
	"github.com/vsp-live/profile-service/internal/domain"
	"github.com/vsp-live/profile-service/internal/handler"
	"github.com/vsp-live/profile-service/internal/repository"
	"github.com/vsp-live/profile-service/internal/service"
	"github.com/vsp-live/profile-service/pkg/database"
	pkglog "github.com/vsp-live/profile-service/pkg/log"
	"github.com/vsp-live/profile-service/pkg/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pkglog.Init(cfg.Log)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database using GORM
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db, &domain.AvatarModel{}, &domain.ProfileModel{}); err != nil {
		log.Fatalf("Failed to auto-migrate: %v", err)
	}
	log.Println("Database migration completed")

	// Object store
	store, err := storage.NewS3Storage(rootCtx, cfg.S3)
	if err != nil {
		log.Fatalf("Failed to create S3 storage: %v", err)
	}

	// Avatar cache (optional)
	var avatarCache cache.AvatarCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisAvatarCache(cfg.Redis, cfg.Cache.Prefix, cfg.Cache.TTL)
		if err != nil {
			log.Fatalf("Failed to connect avatar cache: %v", err)
		}
		defer redisCache.Close()
		avatarCache = redisCache
	}

	// Repositories and services
	avatarRepo := repository.NewGormAvatarRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)
	avatarService := service.NewAvatarService(avatarRepo, store, avatarCache)
	profileService := service.NewProfileService(profileRepo, avatarService)

	// Account event consumer
	dispatcher := consumer.NewDispatcher(
		cfg.Kafka.ProfileSetupTopic,
		cfg.Kafka.DeleteUserDataTopic,
		consumer.NewProfileEventHandler(profileService),
	)
	eventConsumer, err := consumer.NewConfluentConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, dispatcher)
	if err != nil {
		log.Fatalf("Failed to create event consumer: %v", err)
	}
	if err := eventConsumer.Start(rootCtx); err != nil {
		log.Fatalf("Failed to start event consumer: %v", err)
	}
	defer eventConsumer.Close()

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(pkglog.GinMiddleware(pkglog.L()), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.NewHandler(avatarService, profileService).RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		log.Printf("Profile Service starting on %s (driver: %s)", addr, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Profile Service stopped: %v", err)
	}
	log.Println("Profile Service stopped")
}
