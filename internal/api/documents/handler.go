package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docqa/docqa/internal/api/middleware"
	"github.com/docqa/docqa/internal/domain"
	"github.com/docqa/docqa/internal/service"
)

// Handler handles document API requests
type Handler struct {
	ingestService *service.IngestService
}

// NewHandler creates a new documents handler
func NewHandler(ingestService *service.IngestService) *Handler {
	return &Handler{ingestService: ingestService}
}

// RegisterRoutes registers document routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	tags := c.QueryArray("tags")

	doc, err := h.ingestService.Upload(c.Request.Context(), user.Username, file, tags)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	documents, err := h.ingestService.List(user.Username, c.Query("tag"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if documents == nil {
		documents = []*domain.Document{}
	}

	c.JSON(http.StatusOK, documents)
}

func (h *Handler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	doc, err := h.ingestService.Get(user.Username, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

type updateDocumentRequest struct {
	Tags *[]string `json:"tags"`
}

func (h *Handler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tags := []string{}
	if req.Tags != nil {
		tags = *req.Tags
	}

	doc, err := h.ingestService.UpdateTags(user.Username, c.Param("id"), tags)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	removed, err := h.ingestService.Delete(c.Request.Context(), user.Username, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document deleted successfully"})
}
