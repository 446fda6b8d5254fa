package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves GET /api/profile.
type Handler struct {
	profile *Profile
}

// NewHandler returns a Handler serving p. p is never modified.
func NewHandler(p *Profile) *Handler {
	return &Handler{profile: p}
}

// RegisterRoutes mounts the profile route on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/profile", h.get)
}

func (h *Handler) get(c *gin.Context) {
	c.JSON(http.StatusOK, h.profile)
}
