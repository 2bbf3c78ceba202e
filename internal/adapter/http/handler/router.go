package handler

import (
	"wallet-ledger-core/internal/adapter/http/middleware"
	"wallet-ledger-core/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	LedgerSvc      ports.LedgerService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check, deep: verifies PostgreSQL and Redis
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	walletHandler := NewWalletHandler(deps.WalletSvc)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)

	// API v1 routes. Owner identity comes from the X-Owner-ID header set by
	// the upstream gateway; every route below is owner-scoped.
	v1 := r.Group("/api/v1", middleware.OwnerIdentity(deps.Logger))

	owners := v1.Group("/owners")
	{
		owners.POST("/provision", walletHandler.Provision)
	}

	wallets := v1.Group("/wallets")
	{
		wallets.POST("", walletHandler.Create)
		wallets.GET("", walletHandler.List)
		wallets.GET("/:currency", walletHandler.Get)
	}

	v1.POST("/deposits", ledgerHandler.Deposit)
	v1.POST("/withdrawals", ledgerHandler.Withdraw)
	v1.POST("/transfers", ledgerHandler.Transfer)
	v1.GET("/transactions", ledgerHandler.ListTransactions)

	return r
}
