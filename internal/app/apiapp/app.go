package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/romatertia749-eng/StudNet/internal/config"
	s3infra "github.com/romatertia749-eng/StudNet/internal/infra/s3"
	pgrepo "github.com/romatertia749-eng/StudNet/internal/repo/postgres"
	redrepo "github.com/romatertia749-eng/StudNet/internal/repo/redis"
	authsvc "github.com/romatertia749-eng/StudNet/internal/services/auth"
	feedsvc "github.com/romatertia749-eng/StudNet/internal/services/feed"
	matchessvc "github.com/romatertia749-eng/StudNet/internal/services/matches"
	mediasvc "github.com/romatertia749-eng/StudNet/internal/services/media"
	profilesvc "github.com/romatertia749-eng/StudNet/internal/services/profiles"
	ratesvc "github.com/romatertia749-eng/StudNet/internal/services/rate"
	swipesvc "github.com/romatertia749-eng/StudNet/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg.CORS, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	profileRepo := pgrepo.NewProfileRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	feedRepo := pgrepo.NewFeedRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, cfg.Bot.Token, cfg.Auth.RefreshTTL)

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
	mediaService := mediasvc.NewService(mediaStorage, mediasvc.Config{
		MaxPhotoSize: cfg.Media.MaxPhotoSizeBytes,
		PutTimeout:   cfg.Media.UploadTimeout,
	})

	profileService := profilesvc.NewService(profileRepo, mediaService)
	feedService := feedsvc.NewService(feedRepo, profileRepo, swipeRepo, matchRepo)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.LikesPerMinute, cfg.Limits.LikesPer10Seconds)
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:         pool,
		SwipeStore:   swipeRepo,
		ProfileStore: profileRepo,
		MatchStore:   matchRepo,
		RateLimiter:  rateLimiter,
	})
	matchesService := matchessvc.NewService(matchRepo, profileRepo)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		ProfileService: profileService,
		FeedService:    feedService,
		SwipeService:   swipeService,
		MatchService:   matchesService,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
