package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Provider 外部訂閱（金流）服務的邊界。
// 成功時回傳一組識別碼 (customer id, subscription id)，失敗就整個失敗。
type Provider interface {
	CreateSubscription(ctx context.Context, userID int, eventID int) (customerID string, subscriptionID string, err error)
}

type HTTPProvider struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPProvider(baseURL, token string) Provider {
	return &HTTPProvider{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type createSubscriptionRequest struct {
	UserID  int `json:"user_id"`
	EventID int `json:"event_id"`
}

type createSubscriptionResponse struct {
	CustomerID     string `json:"customer_id"`
	SubscriptionID string `json:"subscription_id"`
}

func (p *HTTPProvider) CreateSubscription(ctx context.Context, userID int, eventID int) (string, string, error) {
	body, err := json.Marshal(createSubscriptionRequest{UserID: userID, EventID: eventID})
	if err != nil {
		return "", "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/subscriptions", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("call billing provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("billing provider returned status %d", resp.StatusCode)
	}

	var result createSubscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}

	if result.CustomerID == "" || result.SubscriptionID == "" {
		return "", "", fmt.Errorf("billing provider returned incomplete identifier pair")
	}

	return result.CustomerID, result.SubscriptionID, nil
}
