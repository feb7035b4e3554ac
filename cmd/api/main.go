package main

import (
	"context"
	"errors"
	"net/http"
	"omigec/cmd/internal/config"
	"omigec/cmd/internal/domain/plans"
	"omigec/cmd/internal/domain/policy"
	"omigec/cmd/internal/domain/sqlite"
	"omigec/cmd/internal/domain/sqlite/repository"
	"omigec/cmd/internal/http/handler"
	authmw "omigec/cmd/internal/http/middleware"
	cognitoclient "omigec/cmd/internal/infrastructure/aws/cognito"
	"omigec/cmd/internal/infrastructure/aws/storage"
	"omigec/cmd/internal/infrastructure/cache"
	"omigec/cmd/internal/service"
	"omigec/cmd/internal/service/jobs"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/uid"
	"omigec/cmd/internal/utils/validators"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads env vars depending on environment
	if err := config.LoadEnv(ctx); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	uid.Init(cfg.SnowflakeNode)
	validate := validators.New()

	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	cogClient, err := cognitoclient.NewCognitoClient(ctx, cfg.CognitoRegion, cfg.UserPoolID, cfg.AppClientID)
	if err != nil {
		log.Fatalf("failed to init cognito client: %v", err)
	}

	s3Client, err := storage.NewStorageClient(ctx, cfg.S3Region, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("failed to init S3 client: %v", err)
	}

	verifier, err := utils.NewJWKSVerifier(cfg.CognitoRegion, cfg.UserPoolID, cfg.AppClientID)
	if err != nil {
		log.Fatalf("failed to init token verifier: %v", err)
	}

	dirCache, closeCache := directoryCache(ctx, cfg)
	defer closeCache()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	entrepriseRepo := repository.NewEntrepriseRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	sponsorRepo := repository.NewSponsorRepository(db)
	regRepo := repository.NewRegistrationRepository(db)

	adminPolicy := policy.NewAdminPolicy()
	ownership := policy.NewOwnershipPolicy()

	// Services
	subService := service.NewSubscriptionService(subRepo, entrepriseRepo, jobRepo, paymentRepo, plans.Default(), adminPolicy, validate)
	jobService := service.NewJobService(jobRepo, entrepriseRepo, subService, ownership, validate)
	appService := service.NewApplicationService(appRepo, jobRepo, profileRepo, entrepriseRepo, ownership, validate)
	authService := service.NewAuthService(userRepo, profileRepo, entrepriseRepo, validate, cogClient)
	regService := service.NewRegistrationService(regRepo, userRepo, profileRepo, entrepriseRepo, verificationRepo, cogClient, s3Client, validate)
	verificationService := service.NewVerificationService(profileRepo, verificationRepo, paymentRepo, s3Client, dirCache, adminPolicy, ownership, validate)
	entrepriseService := service.NewEntrepriseService(entrepriseRepo, adminPolicy, validate)
	profileService := service.NewProfileService(profileRepo, dirCache, cfg.DirectoryCacheTTL, validate)
	sponsorService := service.NewSponsorService(sponsorRepo, s3Client, adminPolicy, validate)

	routes := &handler.Routes{
		Auth:          handler.NewAuthDefault(authService),
		Registration:  handler.NewRegistrationDefault(regService),
		Profiles:      handler.NewProfileDefault(profileService),
		Verification:  handler.NewVerificationDefault(verificationService),
		Entreprises:   handler.NewEntrepriseDefault(entrepriseService),
		Subscriptions: handler.NewSubscriptionDefault(subService),
		Jobs:          handler.NewJobDefault(jobService),
		Applications:  handler.NewApplicationDefault(appService),
		Sponsors:      handler.NewSponsorDefault(sponsorService),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	auth := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{
		UserRepo: userRepo,
		Verifier: verifier,
	})
	routes.Register(e, auth)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		jobs.NewSubscriptionSweeper(subRepo, cfg.SweepInterval).Start(ctx)
	}()
	go func() {
		defer wg.Done()
		jobs.NewOfferSweeper(jobRepo, cfg.SweepInterval).Start(ctx)
	}()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down http server: %v", err)
	}

	wg.Wait()
	if err := sqlite.Close(db); err != nil {
		log.Errorf("failed to close database: %v", err)
	}
}

// directoryCache connects to Redis when REDIS_ADDR is set. Without it, or
// when Redis is unreachable at startup, the directory is served uncached.
func directoryCache(ctx context.Context, cfg *config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, directory cache disabled")
		return cache.Nop{}, func() {}
	}

	client, err := cache.NewRedisClient(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warnf("redis at %s unreachable, directory cache disabled: %v", cfg.RedisAddr, err)
		return cache.Nop{}, func() {}
	}

	return cache.NewRedisCache(client), func() {
		if err := client.Close(); err != nil {
			log.Warnf("failed to close redis client: %v", err)
		}
	}
}
