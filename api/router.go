package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petshop/api/handlers"
	"petshop/api/middleware"
)

func NewRouter(petHandler *handlers.PetHandler, cartHandler *handlers.CartHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.Identity())

	api := router.Group("/api")
	{
		pets := api.Group("/pets")
		{
			pets.GET("", petHandler.GetPets)
			pets.GET("/:id", petHandler.GetPetByID)
			pets.POST("", middleware.RequireAdmin(), petHandler.CreatePet)
			pets.PUT("/:id", middleware.RequireAdmin(), petHandler.UpdatePet)
			pets.DELETE("/:id", middleware.RequireAdmin(), petHandler.DeletePet)
		}

		cart := api.Group("/cart", middleware.RequireUser())
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("", cartHandler.AddToCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.PUT("/:itemId", cartHandler.UpdateCartItem)
			cart.DELETE("/:itemId", cartHandler.RemoveFromCart)
		}

		api.GET("/health", handlers.HealthCheck)
	}

	// Debug endpoints in development
	if gin.Mode() != gin.ReleaseMode {
		router.GET("/debug/metrics", handlers.Metrics)
	}

	return router
}
