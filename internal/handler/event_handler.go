package handler

import (
	"errors"
	"net/http"
	"time"

	"event-content-service/internal/model"
	"event-content-service/internal/service"
	apperrors "event-content-service/pkg/app_errors"
	"event-content-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler 私有 API：活動擁有者的建立、更新、查詢與訂閱請求
type EventHandler struct {
	service       service.EventService
	subscriptions service.SubscriptionService
}

func NewEventHandler(service service.EventService, subscriptions service.SubscriptionService) *EventHandler {
	return &EventHandler{service: service, subscriptions: subscriptions}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	router := r.Group("/private")
	router.Use(AuthMiddleware(jwtSecret))
	{
		router.POST("events", h.Create)
		router.GET("events", h.GetByUser)
		router.PUT("events", h.Update)
		router.POST("events/skip-setup-wizard", h.SkipSetupWizard)
		router.POST("events/subscription", h.RequestSubscription)
	}
}

func (h *EventHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c, currentUserID(c), req, time.Now())
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) GetByUser(c *gin.Context) {
	event, err := h.service.GetByUser(c, currentUserID(c))
	if err != nil {
		h.handleError(c, err, "GetByUser")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req model.UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	params := model.UpdateEventParams{
		Title:                  req.Title,
		PictureSet:             req.PictureSet,
		SubEventDetails:        req.SubEventDetails,
		CurrentActiveSubDomain: req.CurrentActiveSubDomain,
	}
	if params.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		return
	}

	updated, err := h.service.Update(c, currentUserID(c), params, time.Now())
	if err != nil {
		h.handleError(c, err, "Update")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) SkipSetupWizard(c *gin.Context) {
	updated, err := h.service.SkipSetupWizard(c, currentUserID(c), time.Now())
	if err != nil {
		h.handleError(c, err, "SkipSetupWizard")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) RequestSubscription(c *gin.Context) {
	job, err := h.subscriptions.Request(c, currentUserID(c))
	if err != nil {
		h.handleError(c, err, "RequestSubscription")
		return
	}
	// 開通由 worker 非同步完成
	c.JSON(http.StatusAccepted, job)
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrEventRemoved):
		log.Warn("Event removed")
		c.JSON(http.StatusGone, gin.H{"error": "Event removed"})
	case errors.Is(err, apperrors.ErrEventAlreadyExists):
		log.Warn("Event already exists")
		c.JSON(http.StatusConflict, gin.H{"error": "Event already exists"})
	case errors.Is(err, apperrors.ErrSubDomainInUse):
		log.Warn("Subdomain in use")
		c.JSON(http.StatusConflict, gin.H{"error": "Subdomain in use"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
