package chats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docqa/docqa/internal/api/middleware"
	"github.com/docqa/docqa/internal/domain"
	"github.com/docqa/docqa/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chats handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.GET("/count", h.Count)
	r.GET("/:id", h.Get)
	r.POST("", h.Create)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	r.POST("/:id/messages", h.AddMessage)
	r.DELETE("/:id/messages/:messageId", h.DeleteMessage)
}

func (h *Handler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	chats, err := h.chatService.List(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if chats == nil {
		chats = []*domain.Chat{}
	}

	c.JSON(http.StatusOK, chats)
}

func (h *Handler) Count(c *gin.Context) {
	user := middleware.CurrentUser(c)

	count, err := h.chatService.Count(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, count)
}

func (h *Handler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	chat, err := h.chatService.Get(user.Username, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if chat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}

	c.JSON(http.StatusOK, chat)
}

func (h *Handler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req domain.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chatService.Create(user.Username, user.ID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, chat)
}

func (h *Handler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var patch domain.ChatUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chatService.Update(user.Username, c.Param("id"), &patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chat)
}

func (h *Handler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	removed, err := h.chatService.Delete(user.Username, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat deleted successfully"})
}

func (h *Handler) AddMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var msg domain.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chatService.AddMessage(user.Username, c.Param("id"), msg)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chat)
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)

	chat, err := h.chatService.DeleteMessage(user.Username, c.Param("id"), c.Param("messageId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chat)
}
