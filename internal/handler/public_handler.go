package handler

import (
	"errors"
	"net/http"

	"event-content-service/internal/service"
	apperrors "event-content-service/pkg/app_errors"
	"event-content-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PublicHandler 公開 API：訪客透過子網域看活動內容，不需要認證
type PublicHandler struct {
	service service.EventService
}

func NewPublicHandler(service service.EventService) *PublicHandler {
	return &PublicHandler{service: service}
}

func (h *PublicHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/public")
	{
		router.GET("events/:subdomain", h.GetBySubDomain)
		router.GET("subdomains/:subdomain/available", h.CheckSubDomainAvailable)
	}
}

func (h *PublicHandler) GetBySubDomain(c *gin.Context) {
	subdomain := c.Param("subdomain")

	event, err := h.service.GetBySubDomain(c, subdomain)
	if err != nil {
		h.handleError(c, err, "GetBySubDomain")
		return
	}
	c.JSON(http.StatusOK, event)
}

// CheckSubDomainAvailableQuery user_id 讓擁有者查自己已佔用的子網域也回報可用
type CheckSubDomainAvailableQuery struct {
	UserID int `form:"user_id"`
}

func (h *PublicHandler) CheckSubDomainAvailable(c *gin.Context) {
	subdomain := c.Param("subdomain")

	var query CheckSubDomainAvailableQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	available, err := h.service.CheckSubDomainAvailable(c, subdomain, query.UserID)
	if err != nil {
		h.handleError(c, err, "CheckSubDomainAvailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *PublicHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
