package api

import (
	"finapi/internal/ledger"
	"finapi/internal/middleware"
	"finapi/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RouterConfig carries everything the route table needs. Cache may be nil,
// which disables Redis caching (tests run without it).
type RouterConfig struct {
	Users      storage.UserStore
	Statements storage.StatementStore
	Ledger     *ledger.Ledger
	Cache      *redis.Client
	JWTSecret  string
	RateLimit  rate.Limit // requests per second; 0 disables the limiter
	RateBurst  int
}

// NewRouter builds the gin engine with all API routes. Shared by cmd/server
// and the handler tests.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	v1 := r.Group("/api/v1")
	if cfg.RateLimit > 0 {
		v1.Use(middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst))
	}

	v1.POST("/users", RegisterHandler(cfg.Users))
	v1.POST("/sessions", LoginHandler(cfg.Users, cfg.JWTSecret))

	authed := v1.Group("")
	authed.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	authed.GET("/profile", ProfileHandler(cfg.Users))

	statements := authed.Group("/statements")
	statements.POST("/deposit", DepositHandler(cfg.Ledger, cfg.Cache))
	statements.POST("/withdraw", WithdrawHandler(cfg.Ledger, cfg.Cache))
	statements.POST("/transfer/:user_id", TransferHandler(cfg.Ledger, cfg.Cache))
	statements.GET("/balance", BalanceHandler(cfg.Ledger, cfg.Cache))
	statements.GET("/:statement_id", GetStatementHandler(cfg.Ledger))

	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnlyMiddleware(cfg.Users))
	admin.GET("/users", ListUsersHandler(cfg.Users, cfg.Cache))
	admin.GET("/statements", ListStatementsHandler(cfg.Statements, cfg.Cache))

	return r
}
