package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fitforge/fitforge-backend/internal/clients/redis"
	"github.com/fitforge/fitforge-backend/internal/data/db"
	"github.com/fitforge/fitforge-backend/internal/data/repos"
	apphttp "github.com/fitforge/fitforge-backend/internal/http"
	"github.com/fitforge/fitforge-backend/internal/http/handlers"
	"github.com/fitforge/fitforge-backend/internal/http/middleware"
	"github.com/fitforge/fitforge-backend/internal/observability"
	"github.com/fitforge/fitforge-backend/internal/platform/gcp"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/platform/sendgrid"
	"github.com/fitforge/fitforge-backend/internal/pricing"
	"github.com/fitforge/fitforge-backend/internal/services"
	"github.com/fitforge/fitforge-backend/internal/temporalx"
	"github.com/fitforge/fitforge-backend/internal/temporalx/planrun"
	"github.com/fitforge/fitforge-backend/internal/temporalx/temporalworker"
	"github.com/fitforge/fitforge-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: utils.GetEnv("OTEL_SERVICE_NAME", "fitforge-backend", log),
		Environment: utils.GetEnv("APP_ENV", "development", log),
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 86400, log)
	releaseWaitHours := utils.GetEnvAsInt("PLAN_RELEASE_WAIT_HOURS", 24, log)

	// Postgres
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	if err := db.SeedCoaches(ctx, dbService.DB()); err != nil {
		log.Warn("Coach catalog seed failed", "error", err)
	}
	thePG := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	txRepo := repos.NewTokenTransactionRepo(thePG, log)
	coachRepo := repos.NewCoachRepo(thePG, log)
	bookingRepo := repos.NewBookingRepo(thePG, log)
	requestRepo := repos.NewCoachRequestRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)

	// Optional infrastructure
	balanceCache, err := redis.NewBalanceCache(log)
	if err != nil {
		log.Warn("Could not init balance cache; balances are read from Postgres only", "error", err)
		balanceCache = nil
	}
	mailClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("Could not init SendGrid client; plan-ready emails disabled", "error", err)
		mailClient = nil
	}
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService; PDF uploads disabled", "error", err)
		bucketService = nil
	}

	// Pricing
	table, err := pricing.LoadTable(os.Getenv("PRICING_TABLE_PATH"))
	if err != nil {
		log.Error("Could not load pricing table", "error", err)
		os.Exit(1)
	}
	engine := pricing.NewEngine(table)

	// Temporal
	temporalClient, err := temporalx.NewClient(log)
	if err != nil {
		log.Warn("Could not connect to Temporal; coach requests will stay pending until a worker picks them up", "error", err)
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	ledgerService := services.NewLedgerService(thePG, log, txRepo, balanceCache)
	topupService := services.NewTopupService(log, ledgerService)
	coachService := services.NewCoachService(thePG, log, coachRepo)
	bookingService := services.NewBookingService(thePG, log, engine, bookingRepo, coachRepo, ledgerService)
	generator := services.NewStubPlanGenerator(log)
	renderer := services.NewStubPDFRenderer(log)
	courseService := services.NewCourseService(thePG, log, engine, courseRepo, ledgerService, generator, renderer, bucketService)

	var notifier services.PlanNotifier
	if mailClient != nil {
		notifier = services.NewEmailPlanNotifier(log, mailClient)
	}

	var starter services.PlanRunStarter
	if temporalClient != nil {
		starter, err = temporalx.NewPlanRunStarter(log, temporalClient)
		if err != nil {
			log.Warn("Could not init plan run starter", "error", err)
		}
	}
	requestService := services.NewCoachRequestService(
		thePG,
		log,
		engine,
		requestRepo,
		coachRepo,
		ledgerService,
		starter,
		time.Duration(releaseWaitHours)*time.Hour,
	)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	topupHandler := handlers.NewTopupHandler(topupService)
	coachHandler := handlers.NewCoachHandler(coachService)
	bookingHandler := handlers.NewBookingHandler(bookingService, ledgerService)
	pricingHandler := handlers.NewPricingHandler(engine)
	requestHandler := handlers.NewCoachRequestHandler(requestService)
	courseHandler := handlers.NewCourseHandler(courseService)
	healthHandler := handlers.NewHealthHandler()

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	srv := apphttp.NewServer(apphttp.RouterConfig{
		ServiceName:         utils.GetEnv("OTEL_SERVICE_NAME", "fitforge-backend", log),
		AuthHandler:         authHandler,
		AuthMiddleware:      authMiddleware,
		LedgerHandler:       ledgerHandler,
		TopupHandler:        topupHandler,
		CoachHandler:        coachHandler,
		BookingHandler:      bookingHandler,
		PricingHandler:      pricingHandler,
		CoachRequestHandler: requestHandler,
		CourseHandler:       courseHandler,
		HealthHandler:       healthHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	httpServer := &nethttp.Server{
		Addr:    ":" + port,
		Handler: srv.Engine,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if temporalClient != nil {
		acts := &planrun.Activities{
			Log:       log,
			DB:        thePG,
			Requests:  requestRepo,
			Users:     userRepo,
			Courses:   courseRepo,
			Generator: generator,
			CourseSvc: courseService,
			Notify:    notifier,
		}
		runner, err := temporalworker.NewRunner(log, temporalClient, acts)
		if err != nil {
			log.Error("Could not init Temporal worker", "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			return runner.Start(gctx)
		})
		defer temporalClient.Close()
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
	log.Info("Shutdown complete")
}
