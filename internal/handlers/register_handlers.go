package handlers

import (
	"github.com/SscSPs/mobile_banking_api/cmd/docs"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
	"github.com/SscSPs/mobile_banking_api/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the infrastructure the money movement routes are guarded with.
// Nil fields disable the matching guard.
type RouteDeps struct {
	Idempotency     portsrepo.IdempotencyRepository
	MovementLimiter *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	RegisterValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Rate limiting runs before the idempotency lookup so replays are limited too.
	var guards []gin.HandlerFunc
	if deps.MovementLimiter != nil {
		guards = append(guards, middleware.RateLimit(deps.MovementLimiter))
	}
	if deps.Idempotency != nil {
		guards = append(guards, middleware.Idempotency(deps.Idempotency))
	}

	accounts := v1.Group("/accounts")
	registerTransferRoutes(accounts, service.Transfer, guards)
	registerAccountRoutes(accounts, service.Account)
	registerBillRoutes(v1, service.Transfer, service.Biller, guards)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
