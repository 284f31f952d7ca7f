package model

// ProvisionJob 訂閱開通工作，經由 queue 交給 worker 處理
type ProvisionJob struct {
	RequestID string `json:"request_id"`
	EventID   int    `json:"event_id"`
	UserID    int    `json:"user_id"`
}
