package model

import (
	"encoding/json"
	"time"
)

// EventHistoryType 歷史紀錄類型，對應 event_events.type (smallint)
type EventHistoryType int

const (
	EventHistoryCreated                    EventHistoryType = 1
	EventHistoryUpdated                    EventHistoryType = 2
	EventHistoryActivated                  EventHistoryType = 3
	EventHistoryDeactivated                EventHistoryType = 4
	EventHistoryUiMarkedSkippedSetupWizard EventHistoryType = 5
	EventHistorySubscriptionActivated      EventHistoryType = 6
)

// IsValid 驗證類型是否有效
func (t EventHistoryType) IsValid() bool {
	switch t {
	case EventHistoryCreated,
		EventHistoryUpdated,
		EventHistoryActivated,
		EventHistoryDeactivated,
		EventHistoryUiMarkedSkippedSetupWizard,
		EventHistorySubscriptionActivated:
		return true
	}
	return false
}

// EventHistoryEntry 歷史紀錄，append-only 審計用，不會被更新或刪除
type EventHistoryEntry struct {
	ID        int              `json:"id" db:"id"`
	Type      EventHistoryType `json:"type" db:"type"`
	Timestamp time.Time        `json:"timestamp" db:"timestamp"`
	Data      json.RawMessage  `json:"data,omitempty" db:"data"`
	EventID   int              `json:"event_id" db:"event_id"`
}
