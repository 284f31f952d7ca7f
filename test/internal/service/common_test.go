package service

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"event-content-service/internal/cache"
	"event-content-service/internal/model"
	"event-content-service/internal/repository"
	"event-content-service/internal/service"
	"event-content-service/test/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var (
	testDB  *pgxpool.Pool
	testRdb *redis.Client
)

func TestMain(m *testing.M) {
	var cleanup func()
	var err error
	testDB, testRdb, cleanup, err = testutil.Setup()
	if err != nil {
		log.Fatalf("Failed to setup test dependencies: %v", err)
	}

	log.Println("Running service tests...")

	code := m.Run()
	cleanup()

	os.Exit(code)
}

func setupTestWithTruncate(t *testing.T) func() {
	t.Helper()
	ctx := context.Background()

	_, err := testDB.Exec(ctx, "TRUNCATE event_subdomains, event_events, events RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	// 快取也要清，避免上一個測試的站台內容殘留
	if err := testRdb.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test redis: %v", err)
	}

	return func() {}
}

// testNow 固定的測試時間戳，caller 提供時間讓測試可重現
var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// newEventService 輔助函數：組出接真實 DB 與 Redis 的 service
func newEventService() service.EventService {
	eventRepo := repository.NewEventRepository(testDB)
	subdomainRepo := repository.NewSubdomainRepository(testDB)
	historyRepo := repository.NewHistoryRepository(testDB)
	siteCache := cache.NewSiteCache(testRdb, time.Minute)
	return service.NewEventService(testDB, eventRepo, subdomainRepo, historyRepo, siteCache)
}

// completeUpdateParams 輔助函數：讓 looksActive 變成 true 的完整欄位
func completeUpdateParams(title string) model.UpdateEventParams {
	when := time.Date(2026, 6, 20, 15, 0, 0, 0, time.UTC)
	details := []model.SubEventDetails{
		{Title: "Civil Ceremony", Slug: "civil-ceremony", Address: "City Hall", Coordinates: []float64{47.16, 27.58}, DateAndTime: &when},
		{Title: "Reception", Slug: "reception", Address: "Grand Ballroom", Coordinates: []float64{47.17, 27.59}, DateAndTime: &when},
	}
	return model.UpdateEventParams{
		Title:           &title,
		SubEventDetails: details,
	}
}

// historyTypes 輔助函數：取出活動的歷史類型序列
func historyTypes(t *testing.T, eventID int) []model.EventHistoryType {
	t.Helper()
	historyRepo := repository.NewHistoryRepository(testDB)
	entries, err := historyRepo.ListByEventID(context.Background(), eventID)
	if err != nil {
		t.Fatalf("Failed to list history: %v", err)
	}

	types := make([]model.EventHistoryType, 0, len(entries))
	for _, entry := range entries {
		types = append(types, entry.Type)
	}
	return types
}

// markEventRemoved 輔助函數：模擬管理端直接把活動標記為 Removed
func markEventRemoved(t *testing.T, eventID int) {
	t.Helper()

	_, err := testDB.Exec(context.Background(),
		"UPDATE events SET state = $1, time_removed = $2 WHERE id = $3",
		model.EventStateRemoved, testNow, eventID,
	)
	if err != nil {
		t.Fatalf("Failed to mark event removed: %v", err)
	}
}
