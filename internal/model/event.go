package model

import "time"

// EventState 活動狀態類型，對應 events.state (smallint)
type EventState int

const (
	EventStateCreated EventState = 1 // 已建立但內容不完整
	EventStateActive  EventState = 2 // 對外公開
	EventStateRemoved EventState = 3 // 軟刪除，終態
)

// IsValid 驗證狀態是否有效
func (s EventState) IsValid() bool {
	switch s {
	case EventStateCreated, EventStateActive, EventStateRemoved:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s EventState) CanTransitionTo(target EventState) bool {
	transitions := map[EventState][]EventState{
		EventStateCreated: {EventStateActive, EventStateRemoved},
		EventStateActive:  {EventStateCreated, EventStateRemoved},
		EventStateRemoved: {}, // 終態，不能轉換到任何狀態
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == target {
			return true
		}
	}
	return false
}

// Picture 活動相片，picture_set 內依 Position 排序
type Picture struct {
	Position     int    `json:"position"`
	URI          string `json:"uri"`
	ThumbnailURI string `json:"thumbnail_uri"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// PictureSet 有序的相片集合
type PictureSet struct {
	Pictures []Picture `json:"pictures"`
}

// SubEventDetails 子活動描述（儀式、婚宴等）
type SubEventDetails struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Address     string     `json:"address"`
	Coordinates []float64  `json:"coordinates"`
	DateAndTime *time.Time `json:"date_and_time"`
}

// IsComplete 子活動內容是否填寫完整
func (d SubEventDetails) IsComplete() bool {
	return d.Title != "" &&
		d.Address != "" &&
		len(d.Coordinates) == 2 &&
		d.DateAndTime != nil
}

// UiState 前端的暫態旗標，持久化但不參與業務不變量
type UiState struct {
	ShowSetupWizard bool `json:"show_setup_wizard"`
}

// Event 活動模型，每個使用者最多一筆未刪除的活動
type Event struct {
	ID                     int               `json:"id" db:"id"`
	State                  EventState        `json:"state" db:"state"`
	Title                  string            `json:"title" db:"title"`
	PictureSet             PictureSet        `json:"picture_set" db:"picture_set"`
	SubEventDetails        []SubEventDetails `json:"subevent_details" db:"subevent_details"`
	UiState                UiState           `json:"ui_state" db:"ui_state"`
	UserID                 int               `json:"user_id" db:"user_id"`
	CurrentActiveSubDomain string            `json:"current_active_subdomain" db:"current_active_subdomain"`
	SubscriptionID         *string           `json:"subscription_id,omitempty" db:"subscription_id"`
	SubscriptionCustomerID *string           `json:"subscription_customer_id,omitempty" db:"subscription_customer_id"`
	SubscriptionActive     bool              `json:"subscription_active" db:"subscription_active"`
	TimeCreated            time.Time         `json:"time_created" db:"time_created"`
	TimeLastUpdated        time.Time         `json:"time_last_updated" db:"time_last_updated"`
	TimeRemoved            *time.Time        `json:"time_removed,omitempty" db:"time_removed"`
}

// IsRemoved 檢查活動是否已刪除
func (e *Event) IsRemoved() bool {
	return e.State == EventStateRemoved
}

// LooksActive 活動內容是否完整到可以對外公開。
// 純判斷式：標題已填、至少一個子活動、且每個子活動內容完整。
func (e *Event) LooksActive() bool {
	if e.Title == "" {
		return false
	}
	if len(e.SubEventDetails) == 0 {
		return false
	}
	for _, details := range e.SubEventDetails {
		if !details.IsComplete() {
			return false
		}
	}
	return true
}

// DefaultSubEventDetails 建立活動時的固定子活動範本
func DefaultSubEventDetails() []SubEventDetails {
	return []SubEventDetails{
		{Title: "Civil Ceremony", Slug: "civil-ceremony", Coordinates: []float64{}},
		{Title: "Religious Ceremony", Slug: "religious-ceremony", Coordinates: []float64{}},
		{Title: "Reception", Slug: "reception", Coordinates: []float64{}},
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title string `json:"title"`
}

// UpdateEventParams 更新活動參數，nil 欄位表示不變更
type UpdateEventParams struct {
	Title                  *string
	PictureSet             *PictureSet
	SubEventDetails        []SubEventDetails
	CurrentActiveSubDomain *string
}

// IsEmpty 是否沒有任何欄位要更新
func (p UpdateEventParams) IsEmpty() bool {
	return p.Title == nil &&
		p.PictureSet == nil &&
		p.SubEventDetails == nil &&
		p.CurrentActiveSubDomain == nil
}

// UpdateEventRequest 更新活動請求（handler 層綁定用）
type UpdateEventRequest struct {
	Title                  *string           `json:"title"`
	PictureSet             *PictureSet       `json:"picture_set"`
	SubEventDetails        []SubEventDetails `json:"subevent_details"`
	CurrentActiveSubDomain *string           `json:"current_active_subdomain"`
}
