package server

import (
	"github.com/causewaykb/causeway/internal/server/middleware"
	"github.com/causewaykb/causeway/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Graph routes
	apiRoutes.GET("/graphs/:slug", routes.GetGraphHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.POST("/graphs/:slug/traverse", routes.TraverseGraphHandler, middleware.RequirePermission("graph.view"))

	// Coverage routes
	apiRoutes.GET("/coverage", routes.GetCoverageHandler, middleware.RequirePermission("coverage.view"))
	apiRoutes.GET("/coverage/pages/:slug", routes.GetEntityCoverageHandler, middleware.RequirePermission("coverage.view"))

	// Index maintenance routes
	apiRoutes.POST("/reindex", routes.PostReindexHandler, middleware.RequirePermission("wiki.reindex"))
}
