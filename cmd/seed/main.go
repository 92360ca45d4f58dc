package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"customer-onboarding/internal/config"
	"customer-onboarding/internal/db"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/logger"
	"customer-onboarding/internal/onboarding"
	"customer-onboarding/internal/repository/city"
	"customer-onboarding/internal/seed"
	citysvc "customer-onboarding/internal/service/city"
	"customer-onboarding/internal/validation"
)

func main() {
	var (
		demo     int
		fakeSeed uint64
	)
	flag.IntVar(&demo, "demo", 0, "Also create this many fake customers through the record API")
	flag.Uint64Var(&fakeSeed, "seed", uint64(time.Now().UnixNano()), "Random seed for fake customers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, citysvc.New(city.NewPostgres(pool))); err != nil {
		log.Fatal("seed apply", zap.Error(err))
	}
	log.Info("cities seeded", zap.Int("count", len(seed.Cities())))

	if demo <= 0 {
		return
	}

	gw := gateway.NewHTTP(gateway.Config{
		CustomerURL:      cfg.Gateway.CustomerURL,
		AddressURL:       cfg.Gateway.AddressURL,
		ContactMediumURL: cfg.Gateway.ContactMediumURL,
		CityURL:          cfg.Gateway.CityURL,
		Timeout:          cfg.Gateway.Timeout,
		RateLimit:        cfg.Gateway.RateLimit,
		RateBurst:        cfg.Gateway.RateBurst,
	}, log, nil)
	deps := onboarding.Deps{
		Gateway:   gw,
		Validator: validation.New(cfg.Onboarding.MinAge),
		Cities:    onboarding.NewCityDirectory(gw),
		Logger:    log,
	}
	created, err := seed.Demo(ctx, func() *onboarding.Creator {
		return onboarding.NewCreator(deps, onboarding.CreatorConfig{})
	}, demo, fakeSeed, log)
	if err != nil {
		log.Fatal("demo customers", zap.Error(err), zap.Int("created", created))
	}
	log.Info("demo customers created", zap.Int("created", created), zap.Int("requested", demo))
}
