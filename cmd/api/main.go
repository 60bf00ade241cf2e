package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/cache"
	"app/internal/infra/db"
	"app/internal/infra/gateway"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

func main() {
	// .env is optional outside dev
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "inventory-ledger").
		Logger()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.ProductDetail{},
		&model.Inflow{},
		&model.InflowDetail{},
		&model.Outflow{},
		&model.OutflowDetail{},
		&model.Hold{},
		&model.HoldGroup{},
		&model.Order{},
		&model.Member{},
	); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	tx := infraRepo.NewTxManagerGorm(gormDB)
	gate := infraRepo.NewMemberGormRepository(gormDB)
	holdGroups := infraRepo.NewHoldGroupGormRepository(gormDB)

	var orderCache usecase.OrderCache = cache.NoopCache{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		orderCache = cache.NewOrderStatusCache(client, 30*time.Second)
	}

	payments := gateway.NewClient(cfg.PaymentGatewayURL, cfg.PaymentGatewayToken)

	idGen := &uuidGenerator{}
	clock := &realClock{}
	holdTTL := time.Duration(cfg.HoldTTLMinutes) * time.Minute

	movementUC := usecase.NewMovementUsecase(tx, clock, log)
	holdUC := usecase.NewHoldUsecase(tx, clock, holdTTL, log)
	checkoutUC := usecase.NewCheckoutUsecase(tx, holdUC, payments, orderCache, idGen, log)
	webhookUC := usecase.NewWebhookUsecase(tx, holdUC, movementUC, orderCache, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HoldReaperIntervalSeconds > 0 {
		interval := time.Duration(cfg.HoldReaperIntervalSeconds) * time.Second
		usecase.NewHoldReaper(holdUC, holdGroups, clock, interval, log).Start(ctx)
	}

	e := server.New(cfg, server.Handlers{
		Movements: handler.NewMovementHandler(movementUC, gate),
		Holds:     handler.NewHoldHandler(holdUC, gate),
		Checkout:  handler.NewCheckoutHandler(checkoutUC),
		Webhook:   handler.NewWebhookHandler(webhookUC, cfg.WebhookSecret),
	}, log)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	go func() {
		if err := e.Start(addr); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
