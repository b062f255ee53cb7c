package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tiendanorte/internal/config"
	"tiendanorte/internal/db"
	"tiendanorte/internal/httpserver"
	"tiendanorte/internal/payment"
	cartrepo "tiendanorte/internal/repository/cart"
	customerrepo "tiendanorte/internal/repository/customer"
	orderrepo "tiendanorte/internal/repository/order"
	productrepo "tiendanorte/internal/repository/product"
	tokenrepo "tiendanorte/internal/repository/token"
	cartsvc "tiendanorte/internal/service/cart"
	checkoutsvc "tiendanorte/internal/service/checkout"
	customersvc "tiendanorte/internal/service/customer"
	productsvc "tiendanorte/internal/service/product"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.Options{
		MaxConns:    int32(cfg.DBMaxConns),
		PingTimeout: cfg.DBPingTimeout,
	})
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	cartService := cartsvc.New(cartRepo, productRepo, cfg.StoreCurrency)
	productService := productsvc.New(productRepo)
	customerService := customersvc.New(customerRepo, tokenRepo)

	var provider payment.Provider
	if cfg.StripeSecretKey != "" {
		provider = payment.NewStripe(cfg.StripeSecretKey)
		logger.Printf("payment provider configured")
	} else {
		logger.Printf("no payment provider configured, checkout uses fallback path")
	}
	checkoutService := checkoutsvc.New(cartService, productRepo, orderRepo, provider, cfg.PublicBaseURL, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts:     cartService,
		Checkout:  checkoutService,
		Products:  productService,
		Customers: customerService,
		Orders:    orderRepo,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
