package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/khonsulabs/projects/internal/models"
	"github.com/khonsulabs/projects/internal/projects"
)

// DigestBuilder computes the activity digest for the window ending at now.
type DigestBuilder interface {
	Build(ctx context.Context, now time.Time) ([]models.DayEvents, error)
}

type Handler struct {
	digest   DigestBuilder
	registry *projects.Registry
	logger   *logrus.Logger
}

func NewHandler(digest DigestBuilder, registry *projects.Registry, logger *logrus.Logger) *Handler {
	return &Handler{
		digest:   digest,
		registry: registry,
		logger:   logger,
	}
}

// Index renders the HTML activity page. The digest is recomputed on every
// request; ingestion failures only ever show up here as stale data.
func (h *Handler) Index(c *gin.Context) {
	days, err := h.digest.Build(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build digest")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"days":     days,
		"projects": h.registry.All(),
	})
}

// GetDigest godoc
// @Summary Get the activity digest
// @Description Per-day, per-repository summary of recent organization activity, newest day first
// @Tags digest
// @Produce json
// @Success 200 {array} models.DayEvents
// @Failure 500 {object} ErrorResponse
// @Router /digest [get]
func (h *Handler) GetDigest(c *gin.Context) {
	days, err := h.digest.Build(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build digest")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build digest"})
		return
	}

	if days == nil {
		days = []models.DayEvents{}
	}
	c.JSON(http.StatusOK, days)
}

// GetProjects godoc
// @Summary List registered projects
// @Tags projects
// @Produce json
// @Success 200 {array} projects.Project
// @Router /projects [get]
func (h *Handler) GetProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.All())
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
