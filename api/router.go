package api

import (
	"net/http"

	"visionaryiq/db"
	"visionaryiq/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware
)

// NewRouter builds the Gin engine with every route of the service.
func NewRouter(database *db.Database, notifier Notifier) *gin.Engine {
	// gin.New plus explicit Logger/Recovery; gin.Default would register them twice.
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(MetricsMiddleware())

	apiGroup := router.Group("/api")
	{
		// POST /api/contact
		apiGroup.POST("/contact", func(c *gin.Context) {
			SubmitContactHandler(c, database, notifier)
		})
	}

	router.GET("/healthz", HealthHandler)
	router.GET("/metrics", MetricsHandler())
	router.NoRoute(func(c *gin.Context) {
		utils.GinNotFound(c, "Not found")
	})

	// Swagger UI reads docs/swagger.json, served from the docs directory.
	router.StaticFS("/docs", http.Dir("docs"))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.json")))

	return router
}
