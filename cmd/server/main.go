package main // entry point

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/clock"
	"github.com/padelclub/court-auction/internal/config"
	"github.com/padelclub/court-auction/internal/database"
	"github.com/padelclub/court-auction/internal/handler"
	"github.com/padelclub/court-auction/internal/lock"
	"github.com/padelclub/court-auction/internal/middleware"
	"github.com/padelclub/court-auction/internal/queue"
	"github.com/padelclub/court-auction/internal/repository"
	"github.com/padelclub/court-auction/internal/router"
	"github.com/padelclub/court-auction/internal/service"
	"github.com/padelclub/court-auction/internal/ws"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	auctionCfg := config.LoadAuctionConfig()

	db, err := database.Open(database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,

		MaxConns:     cfg.DBMaxConns,
		ConnLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("mysql schema: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		// The auction store and the claim lock both live in Redis; without
		// it the platform cannot arbitrate anything.
		log.Fatal("redis: not reachable and required")
	}

	locks := lock.NewRedisStore(rdb, auctionCfg.LockFailOpen)
	clk := clock.NewSystem()

	auctionRepo := repository.NewAuctionRepo(rdb, auctionCfg.AuctionTTL)
	bookingRepo := repository.NewBookingRepo(db)
	clubRepo := repository.NewClubRepo(db)
	courtRepo := repository.NewCourtRepo(db)
	playerRepo := repository.NewPlayerRepo(db)

	hub := ws.NewHub()
	notifier := service.NewQueuePublisher()

	auctionSvc := service.NewAuctionService(auctionRepo, clubRepo, hub, notifier, clk, auctionCfg)
	claimSvc := service.NewClaimService(locks, auctionRepo, bookingRepo, courtRepo, notifier, clk, auctionCfg)
	bookingSvc := service.NewBookingService(locks, bookingRepo, courtRepo, notifier, clk, auctionCfg)
	sweeper := service.NewSweeper(auctionRepo, notifier, clk, auctionCfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sweeper.Run(ctx)
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notify-consumer: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	healthH := handler.NewHealthHandler(db, rdb)
	auctionH := handler.NewAuctionHandler(auctionSvc, claimSvc)
	bookingH := handler.NewBookingHandler(bookingSvc)
	clubH := handler.NewClubHandler(clubRepo, cfg.JWTSecret)
	courtH := handler.NewCourtHandler(courtRepo)
	playerH := handler.NewPlayerHandler(playerRepo, cfg.JWTSecret)
	wsH := handler.NewWSHandler(hub)

	router.RegisterHealth(e, healthH)
	router.RegisterPublic(e, clubH, courtH, playerH)
	router.RegisterProtected(e, cfg.JWTSecret, rateLimit, auctionH, bookingH, courtH, playerH, wsH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
