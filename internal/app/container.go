package app

import (
	"context"
	"log"
	"time"

	"job-finder/internal/config"
	"job-finder/internal/database"
	dbpostgres "job-finder/internal/database/postgres"
	"job-finder/internal/domain/recommend"
	"job-finder/internal/infrastructure/cache"
	"job-finder/internal/infrastructure/embedding"
	"job-finder/internal/pkg/jwt"
	"job-finder/internal/refresh"
	"job-finder/internal/repository"
	"job-finder/internal/usecase"
)

type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis

	Users           repository.UserRepository
	Recommendations *usecase.Recommendation
	Trigger         *refresh.Trigger
	JWT             jwt.Service
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(logger)

	embedClient := embedding.NewClient(cfg.Embedding.BaseURL, cfg.Embedding.Model, cfg.Embedding.Timeout, logger)
	embedder := embedding.NewLazyEmbedder(embedClient, logger)
	semantic := recommend.NewSemanticScorer(embedder, logger)

	ranker, err := recommend.NewRanker(cfg.Recommend.Weights, semantic)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRepo := repository.NewPostgresRecommendationCacheRepository(db)
	vacancyRepo := repository.NewPostgresVacancyRepository(db)
	userSkillRepo := repository.NewPostgresUserSkillRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	rec := usecase.NewRecommendationUsecase(
		cacheRepo,
		vacancyRepo,
		userSkillRepo,
		profileRepo,
		ranker,
		redisCache,
		cfg.Recommend.SnapshotTTL,
		cfg.Recommend.DefaultLimit,
		logger,
	)

	trigger := refresh.NewTrigger(rec.RefreshCache, redisCache, refresh.Options{
		Workers: cfg.Recommend.RefreshWorkers,
		Buffer:  cfg.Recommend.RefreshBuffer,
		LockTTL: cfg.Recommend.LockTTL,
		Timeout: cfg.Recommend.RefreshTimeout,
	}, logger)
	rec.SetScheduler(trigger)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		Cache:           redisCache,
		Users:           userRepo,
		Recommendations: rec,
		Trigger:         trigger,
		JWT:             jwtSvc,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Trigger != nil {
		c.Trigger.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
