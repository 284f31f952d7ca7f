package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"event-content-service/internal/model"
	"event-content-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendEntry(t *testing.T, repo repository.HistoryRepository, eventID int, historyType model.EventHistoryType, at time.Time, data json.RawMessage) *model.EventHistoryEntry {
	t.Helper()
	ctx := context.Background()

	tx, err := testDB.Begin(ctx)
	require.NoError(t, err)

	entry, err := repo.Append(ctx, tx, &model.EventHistoryEntry{
		Type:      historyType,
		Timestamp: at,
		Data:      data,
		EventID:   eventID,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	return entry
}

func TestHistoryRepository_Append(t *testing.T) {
	repo := repository.NewHistoryRepository(getTestDB())

	t.Run("Success_WithData", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, 1, "Wedding")
		payload := json.RawMessage(`{"title":"Our Wedding"}`)

		entry := appendEntry(t, repo, eventID, model.EventHistoryCreated, testNow, payload)

		assert.NotZero(t, entry.ID)
		assert.Equal(t, model.EventHistoryCreated, entry.Type)
		assert.Equal(t, eventID, entry.EventID)
		assert.JSONEq(t, `{"title":"Our Wedding"}`, string(entry.Data))
	})

	t.Run("Success_NilData", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, 1, "Wedding")

		entry := appendEntry(t, repo, eventID, model.EventHistoryActivated, testNow, nil)

		assert.NotZero(t, entry.ID)
		assert.Empty(t, entry.Data)
	})
}

func TestHistoryRepository_ListByEventID(t *testing.T) {
	repo := repository.NewHistoryRepository(getTestDB())
	ctx := context.Background()

	t.Run("OrderedByTimestampThenID", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, 1, "Wedding")

		appendEntry(t, repo, eventID, model.EventHistoryCreated, testNow, nil)
		appendEntry(t, repo, eventID, model.EventHistoryUpdated, testNow.Add(time.Minute), nil)
		// 同一個 timestamp 的兩筆依插入順序
		appendEntry(t, repo, eventID, model.EventHistoryUpdated, testNow.Add(2*time.Minute), nil)
		appendEntry(t, repo, eventID, model.EventHistoryActivated, testNow.Add(2*time.Minute), nil)

		entries, err := repo.ListByEventID(ctx, eventID)

		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, model.EventHistoryCreated, entries[0].Type)
		assert.Equal(t, model.EventHistoryUpdated, entries[1].Type)
		assert.Equal(t, model.EventHistoryUpdated, entries[2].Type)
		assert.Equal(t, model.EventHistoryActivated, entries[3].Type)
	})

	t.Run("OnlyOwnEntries", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event1 := createTestEvent(t, 1, "First")
		event2 := createTestEvent(t, 2, "Second")

		appendEntry(t, repo, event1, model.EventHistoryCreated, testNow, nil)
		appendEntry(t, repo, event2, model.EventHistoryCreated, testNow, nil)

		entries, err := repo.ListByEventID(ctx, event1)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, event1, entries[0].EventID)
	})

	t.Run("Empty", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, 1, "Wedding")

		entries, err := repo.ListByEventID(ctx, eventID)

		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
