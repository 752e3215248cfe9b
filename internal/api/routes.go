package api

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Khonsu Labs Projects API
// @version 1.0
// @description Activity digest for the organization's GitHub repositories
// @host localhost:8080
// @BasePath /api/v1

// SetupRouter configures the web routes: the HTML index, static assets, the
// JSON API, metrics, and the swagger UI.
func SetupRouter(h *Handler, webDir string) *gin.Engine {
	r := gin.Default()

	r.LoadHTMLGlob(filepath.Join(webDir, "templates", "*.html"))
	r.Static("/static", filepath.Join(webDir, "static"))

	r.GET("/", h.Index)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/digest", h.GetDigest)
		v1.GET("/projects", h.GetProjects)
	}

	return r
}
