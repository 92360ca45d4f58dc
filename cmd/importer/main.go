package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"customer-onboarding/internal/config"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/handoff"
	"customer-onboarding/internal/importer"
	"customer-onboarding/internal/logger"
	"customer-onboarding/internal/metrics"
	"customer-onboarding/internal/onboarding"
	"customer-onboarding/internal/validation"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to the customer CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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
	mode, err := onboarding.ParseMode(cfg.Onboarding.AddressMode)
	if err != nil {
		log.Fatal("address mode", zap.Error(err))
	}

	store, closeStore, err := handoff.Open(ctx, cfg.Redis, "importer-"+uuid.NewString(), time.Hour)
	if err != nil {
		log.Fatal("open handoff store", zap.Error(err))
	}
	defer func() { _ = closeStore() }()

	m := metrics.New()
	gw := gateway.NewHTTP(gateway.Config{
		CustomerURL:      cfg.Gateway.CustomerURL,
		AddressURL:       cfg.Gateway.AddressURL,
		ContactMediumURL: cfg.Gateway.ContactMediumURL,
		CityURL:          cfg.Gateway.CityURL,
		Timeout:          cfg.Gateway.Timeout,
		RateLimit:        cfg.Gateway.RateLimit,
		RateBurst:        cfg.Gateway.RateBurst,
	}, log, m)
	deps := onboarding.Deps{
		Gateway:   gw,
		Handoff:   store,
		Validator: validation.New(cfg.Onboarding.MinAge),
		Cities:    onboarding.NewCityDirectory(gw),
		Logger:    log,
		Metrics:   m,
	}
	creatorCfg := onboarding.CreatorConfig{
		Mode:            mode,
		Compensate:      cfg.Onboarding.Compensate,
		AddressPageSize: cfg.Onboarding.AddressPageSize,
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, func() *onboarding.Creator {
		return onboarding.NewCreator(deps, creatorCfg)
	}, log)

	start := time.Now()
	sum, err := imp.Run(ctx)
	if err != nil {
		log.Fatal("import failed", zap.Error(err), zap.Int("imported", sum.Imported))
	}

	fmt.Printf("Imported %d customers in %s\n", sum.Imported, time.Since(start).Truncate(time.Millisecond))
	for _, fail := range sum.Failures {
		msg := onboarding.UserMessage(fail.Err)
		if fail.Stage == onboarding.StageNone {
			msg = fail.Err.Error()
		}
		if fail.CustomerID != "" {
			fmt.Printf("  line %d (%s): customer %s created, %s\n", fail.Line, fail.NationalID, fail.CustomerID, msg)
			continue
		}
		fmt.Printf("  line %d (%s): %s\n", fail.Line, fail.NationalID, msg)
	}
	if len(sum.Failures) > 0 {
		os.Exit(1)
	}
}
