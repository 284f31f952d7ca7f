package main

import (
	"context"
	"fmt"
	"log"

	"event-content-service/config"
	"event-content-service/internal/billing"
	"event-content-service/internal/cache"
	"event-content-service/internal/database"
	"event-content-service/internal/handler"
	"event-content-service/internal/queue"
	"event-content-service/internal/repository"
	"event-content-service/internal/service"
	"event-content-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	eventRepository := repository.NewEventRepository(pool)
	subdomainRepository := repository.NewSubdomainRepository(pool)
	historyRepository := repository.NewHistoryRepository(pool)

	siteCache := cache.NewSiteCache(rdb, 0)

	// 訂閱開通走 Redis Stream，worker 非同步處理
	provisionQueue, err := queue.NewRedisStreamProvisionQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize provision queue: %v", err)
	}

	provider := billing.NewHTTPProvider(cfg.Billing.ProviderURL, cfg.Billing.ProviderToken)

	eventService := service.NewEventService(pool, eventRepository, subdomainRepository, historyRepository, siteCache)
	subscriptionService := service.NewSubscriptionService(pool, eventRepository, historyRepository, provider, provisionQueue)

	subscriptionWorker := worker.NewSubscriptionWorker(subscriptionService, provisionQueue)
	if err := subscriptionWorker.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start subscription worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewEventHandler(eventService, subscriptionService).RegisterRoutes(router, cfg.Auth.JWTSecret)
	handler.NewPublicHandler(eventService).RegisterRoutes(router)
	if cfg.Server.IsLocalOrTest() {
		// 測試用 clear-out，只在本地與測試環境開放
		handler.NewTestHandler(pool).RegisterRoutes(router)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Address, cfg.Server.Port)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
