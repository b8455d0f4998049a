package handlers

import (
	"github.com/Africall/sote-minimart/cmd/docs"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/Africall/sote-minimart/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// apiLimiter may be nil to disable rate limiting on /api/v1.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
) error {
	r.GET("/health", getHealth)

	// Register public authentication routes
	if err := registerAuthRoutes(r, services.Auth, cfg.LoginRateLimit); err != nil {
		return err
	}

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, apiLimiter)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	if apiLimiter != nil {
		v1.Use(middleware.RateLimit(apiLimiter))
	}

	registerShiftRoutes(v1, services)
	registerCheckoutRoutes(v1, services.Checkout)
	registerExpenseRoutes(v1, services.Expense)
	registerInvoiceRoutes(v1, services.Invoice)
	registerJournalRoutes(v1, services.Journal)
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
