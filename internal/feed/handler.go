package feed

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "biocareer/opportunity-service/internal/errors"
	"biocareer/opportunity-service/internal/model"
)

// Searcher runs a search. *Service implements it.
type Searcher interface {
	Search(ctx context.Context, q model.SearchQuery) (model.SearchResult, error)
}

// Details looks up a curated record by id.
type Details interface {
	Find(id string) (model.DetailedOpportunity, bool)
}

// Handler serves the opportunity routes:
//
//	GET /api/opportunities       → {total, items}
//	GET /api/opportunities/:id   → detail record, 404 when unknown
type Handler struct {
	search  Searcher
	details Details
	logger  *zap.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(search Searcher, details Details, logger *zap.Logger) *Handler {
	return &Handler{search: search, details: details, logger: logger.Named("feed.http")}
}

// RegisterRoutes mounts the opportunity routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/opportunities")
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *Handler) list(c *gin.Context) {
	q := ParseQuery(c.Request.URL.Query())

	res, err := h.search.Search(c.Request.Context(), q)
	if err != nil {
		// The client went away; there is nobody to answer.
		h.logger.Debug("search abandoned", zap.Error(err))
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) detail(c *gin.Context) {
	id := c.Param("id")
	opp, ok := h.details.Find(id)
	if !ok {
		err := apperrors.NotFound("opportunity not found", nil)
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, opp)
}
