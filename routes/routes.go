package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rental-backend/controllers"
	"rental-backend/middleware"
)

// SetupRouter wires the HTTP surface. CORS origins come from config, not
// from the environment, so tests can pass their own.
func SetupRouter(
	pc *controllers.PropertyController,
	ac *controllers.AmenityController,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		properties := api.Group("/properties")
		{
			properties.GET("", pc.GetProperties)
			properties.GET("/:id", pc.GetProperty)
			properties.PUT("/:id", pc.UpdateProperty)
			properties.POST("/:id/photos/update", pc.UpdatePhotos)
			properties.POST("/:id/photo/:imageId/delete", pc.DeletePhoto)
		}

		amenities := api.Group("/amenities")
		{
			amenities.GET("", ac.GetAmenities)
			amenities.POST("", ac.CreateAmenity)
		}
	}

	return r
}
