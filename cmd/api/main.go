package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"customer-onboarding/internal/config"
	"customer-onboarding/internal/db"
	"customer-onboarding/internal/httpserver"
	"customer-onboarding/internal/logger"
	"customer-onboarding/internal/metrics"
	addressrepo "customer-onboarding/internal/repository/address"
	barepo "customer-onboarding/internal/repository/billingaccount"
	cityrepo "customer-onboarding/internal/repository/city"
	cmrepo "customer-onboarding/internal/repository/contactmedium"
	customerrepo "customer-onboarding/internal/repository/customer"
	addresssvc "customer-onboarding/internal/service/address"
	citysvc "customer-onboarding/internal/service/city"
	cmsvc "customer-onboarding/internal/service/contactmedium"
	customersvc "customer-onboarding/internal/service/customer"
)

func main() {
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
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	customerRepo := customerrepo.NewPostgres(dbpool, log)
	addressRepo := addressrepo.NewPostgres(dbpool, log)
	contactRepo := cmrepo.NewPostgres(dbpool)
	cityRepo := cityrepo.NewPostgres(dbpool)
	accountRepo := barepo.NewPostgres(dbpool)

	srv, err := httpserver.New(cfg.HTTP.Addr, log, dbpool, httpserver.Deps{
		CustomerSvc: customersvc.New(customerRepo, addressRepo, contactRepo, accountRepo),
		AddressSvc:  addresssvc.New(addressRepo),
		ContactSvc:  cmsvc.New(contactRepo),
		CitySvc:     citysvc.New(cityRepo),
		Metrics:     metrics.New(),
		CORSOrigins: cfg.HTTP.CORSAllowOrigins,
		MinAge:      cfg.Onboarding.MinAge,
	})
	if err != nil {
		log.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("server stopped")
	}
}
