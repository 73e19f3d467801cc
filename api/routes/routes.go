package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/handlers"
	"github.com/spinquest/spinwheel-backend/internal/middleware"
	"github.com/spinquest/spinwheel-backend/internal/models"
)

// HandlerDependencies carries the handlers wired in main
type HandlerDependencies struct {
	AuthHandler  *handlers.AuthHandler
	TokenHandler *handlers.TokenHandler
	WheelHandler *handlers.WheelHandler
	AdminHandler *handlers.AdminHandler
}

// SetupRouter sets up the router. The wheel endpoints and the token status
// probes are public by design: end users redeeming a token are not
// operators and hold no credentials. Everything that mutates tokens or
// prizes outside the redemption path sits behind JWT auth.
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "OK"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)

			superadmin := auth.Group("")
			superadmin.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireRole(models.RoleSuperadmin))
			{
				superadmin.POST("/create-admin", deps.AuthHandler.CreateAdmin)
				superadmin.GET("/admins", deps.AuthHandler.GetAdmins)
				superadmin.DELETE("/admin/:adminId", deps.AuthHandler.DeleteAdmin)
			}
		}

		// Public wheel routes
		wheel := api.Group("/wheel")
		{
			wheel.GET("/health", deps.WheelHandler.Health)
			wheel.GET("/prizes", deps.WheelHandler.GetPrizes)
			wheel.GET("/stats", deps.WheelHandler.GetStats)
			wheel.POST("/spin", deps.WheelHandler.Spin)
		}

		// Token routes: status probes are public, everything else is
		// operator-only
		tokens := api.Group("/tokens")
		{
			tokens.POST("/validate", deps.TokenHandler.Validate)
			tokens.POST("/check-history", deps.TokenHandler.CheckHistory)

			protected := tokens.Group("")
			protected.Use(middleware.JWTAuthMiddleware(cfg))
			{
				protected.POST("/create", deps.TokenHandler.CreateTokens)
				protected.GET("", deps.TokenHandler.GetAllTokens)
				protected.GET("/history", deps.TokenHandler.GetHistory)
				protected.GET("/stats", deps.TokenHandler.GetStats)
				protected.DELETE("/soft-cleanup-expired", deps.TokenHandler.SoftCleanupExpired)
				protected.DELETE("/bulk/:type", deps.TokenHandler.BulkDelete)

				superonly := protected.Group("")
				superonly.Use(middleware.RequireRole(models.RoleSuperadmin))
				{
					superonly.DELETE("/hard-cleanup-expired", deps.TokenHandler.HardCleanupExpired)
				}

				protected.DELETE("/:tokenId", deps.TokenHandler.DeleteToken)
			}
		}

		// Admin dashboard routes
		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuthMiddleware(cfg))
		{
			admin.GET("/stats", deps.AdminHandler.GetStats)

			admin.GET("/prizes", deps.AdminHandler.GetPrizes)
			admin.POST("/prizes", deps.AdminHandler.CreatePrize)
			admin.PUT("/prizes/:prizeId", deps.AdminHandler.UpdatePrize)
			admin.DELETE("/prizes/:prizeId", deps.AdminHandler.DeletePrize)

			admin.GET("/results", deps.AdminHandler.GetResults)
			admin.GET("/results/stats", deps.AdminHandler.GetResultStats)
			admin.DELETE("/results/:resultId", deps.AdminHandler.DeleteResult)
		}
	}

	return router
}
