package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"person-registry/internal/shared/middleware"
	"person-registry/internal/shared/response"
	"person-registry/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupAccountRoutes(v1, c)
		setupPersonRoutes(v1, c)
	}

	// The method guard: a request for a known path with the wrong verb is
	// rejected with 405 naming the accepted verbs, before any auth or
	// business logic runs.
	router.HandleMethodNotAllowed = true
	router.NoMethod(middleware.MethodGuard(middleware.AllowedMethods(router.Routes())))

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.AccountHandler.Register)
		auth.POST("/login", c.AccountHandler.Login)
		auth.POST("/token", c.AccountHandler.OperatorToken)
	}
}

func setupAccountRoutes(v1 *gin.RouterGroup, c *container.Container) {
	acc := v1.Group("/account")
	acc.Use(middleware.Auth(c.JWTManager))
	{
		acc.PUT("", c.AccountHandler.UpdateMe)
		acc.DELETE("", c.AccountHandler.DeleteMe)
	}
}

func setupPersonRoutes(v1 *gin.RouterGroup, c *container.Container) {
	person := v1.Group("/person")
	person.Use(middleware.Auth(c.JWTManager))
	{
		person.POST("", c.PersonHandler.Insert)
		person.GET("", c.PersonHandler.Query)
		person.PUT("", c.PersonHandler.Update)
		person.DELETE("", c.PersonHandler.Delete)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{
			"status":   "ok",
			"database": "up",
			"cache":    "up",
		}

		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			// Degraded but serving: reads fall through to the database.
			status["cache"] = "down"
		}
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["status"] = "unavailable"
			status["database"] = "down"
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}

		response.Success(ctx, http.StatusOK, "health check", status)
	}
}
