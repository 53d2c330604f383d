package queries

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docqa/docqa/internal/api/middleware"
	"github.com/docqa/docqa/internal/domain"
	"github.com/docqa/docqa/internal/service"
)

// Handler handles query API requests
type Handler struct {
	queryService *service.QueryService
}

// NewHandler creates a new queries handler
func NewHandler(queryService *service.QueryService) *Handler {
	return &Handler{queryService: queryService}
}

// RegisterRoutes registers query routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Ask)
}

func (h *Handler) Ask(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req domain.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.queryService.Ask(c.Request.Context(), user, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
