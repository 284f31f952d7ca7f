package handler

import (
	"net/http"

	"event-content-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TestHandler 測試專用 API，只在 local/test 環境掛載。
// 提供高層操作（清空測試資料）給端對端測試使用。
type TestHandler struct {
	pool *pgxpool.Pool
}

func NewTestHandler(pool *pgxpool.Pool) *TestHandler {
	return &TestHandler{pool: pool}
}

func (h *TestHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/test")
	{
		router.POST("clear-out", h.ClearOut)
	}
}

func (h *TestHandler) ClearOut(c *gin.Context) {
	_, err := h.pool.Exec(c, "TRUNCATE event_subdomains, event_events, events RESTART IDENTITY CASCADE")
	if err != nil {
		logger.WithComponent("handler").Error("clear-out failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusOK)
}
