package kanban

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "biocareer/opportunity-service/internal/errors"
)

// Handler serves the tracker routes:
//
//	GET  /api/tracker                   → board (columns + cards)
//	POST /api/tracker/cards             → save a card in the saved column
//	POST /api/tracker/cards/:id/move    → move card to a new status
//	POST /api/tracker/cards/:id/note    → add/update free-text note
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.Named("tracker.http")}
}

// RegisterRoutes mounts all tracker routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/tracker")
	g.GET("", h.board)
	g.POST("/cards", h.createCard)
	g.POST("/cards/:id/move", h.moveCard)
	g.POST("/cards/:id/note", h.addNote)
}

func (h *Handler) board(c *gin.Context) {
	b, err := h.svc.Board(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) createCard(c *gin.Context) {
	var body NewCard
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, apperrors.InvalidInput("invalid JSON body", err))
		return
	}
	card, err := h.svc.CreateCard(c.Request.Context(), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *Handler) moveCard(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		h.fail(c, apperrors.InvalidInput("body must contain status", err))
		return
	}
	card, err := h.svc.MoveCard(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) addNote(c *gin.Context) {
	var body struct {
		Note *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Note == nil {
		h.fail(c, apperrors.InvalidInput("body must contain note", err))
		return
	}
	card, err := h.svc.AddNote(c.Request.Context(), c.Param("id"), *body.Note)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("tracker request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}
