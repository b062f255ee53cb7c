package httpserver

import (
	"errors"
	"log"
	"time"

	cartsvc "tiendanorte/internal/service/cart"
	checkoutsvc "tiendanorte/internal/service/checkout"
	customersvc "tiendanorte/internal/service/customer"
	productsvc "tiendanorte/internal/service/product"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the router exposes.
type Deps struct {
	Carts     *cartsvc.Service
	Checkout  *checkoutsvc.Service
	Products  *productsvc.Service
	Customers *customersvc.Service
	Orders    orderReader
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.Carts == nil || deps.Checkout == nil || deps.Products == nil || deps.Customers == nil || deps.Orders == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	router.GET("/products", h.listProducts)
	router.GET("/products/:slug", h.getProduct)

	router.GET("/cart", h.getCart)
	router.POST("/cart", h.upsertCartItem)
	router.PATCH("/cart", h.updateCartItem)
	router.DELETE("/cart", h.removeCartItem)

	router.POST("/checkout", h.checkout)

	router.POST("/auth/signup", h.signup)
	router.POST("/auth/login", h.login)
	router.POST("/auth/logout", h.logout)

	account := router.Group("/account", h.requireAuth)
	account.GET("", h.getAccount)
	account.GET("/orders", h.listOrders)
	account.GET("/orders/:id", h.getOrder)
	account.GET("/addresses", h.listAddresses)
	account.POST("/addresses", h.addAddress)
	account.DELETE("/addresses/:id", h.deleteAddress)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
