package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"event-content-service/internal/billing"
	"event-content-service/internal/database"
	"event-content-service/internal/model"
	"event-content-service/internal/queue"
	"event-content-service/internal/repository"
	apperrors "event-content-service/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionService 訂閱開通流程。
// Request 只發佈工作到隊列就回應，實際呼叫外部金流服務
// 與寫回識別碼由 worker 透過 Provision 完成。
type SubscriptionService interface {
	Request(ctx context.Context, userID int) (*model.ProvisionJob, error)
	// Provision worker 呼叫：向外部服務建立訂閱並寫回識別碼
	Provision(ctx context.Context, job *model.ProvisionJob) error
}

type SubscriptionServiceImpl struct {
	pool     *pgxpool.Pool
	events   repository.EventRepository
	history  repository.HistoryRepository
	provider billing.Provider
	jobs     queue.ProvisionQueue
}

func NewSubscriptionService(
	pool *pgxpool.Pool,
	eventRepository repository.EventRepository,
	historyRepository repository.HistoryRepository,
	provider billing.Provider,
	jobs queue.ProvisionQueue,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		pool:     pool,
		events:   eventRepository,
		history:  historyRepository,
		provider: provider,
		jobs:     jobs,
	}
}

func (s *SubscriptionServiceImpl) Request(ctx context.Context, userID int) (*model.ProvisionJob, error) {
	event, err := s.events.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if event.IsRemoved() {
		return nil, apperrors.ErrEventRemoved
	}

	if event.SubscriptionActive {
		// 已經開通過，不再重複請款
		return nil, apperrors.ErrEventAlreadyExists
	}

	job := &model.ProvisionJob{
		RequestID: uuid.New().String(),
		EventID:   event.ID,
		UserID:    userID,
	}

	if err := s.jobs.PublishJob(ctx, job); err != nil {
		return nil, apperrors.ErrInternalServerError
	}

	return job, nil
}

func (s *SubscriptionServiceImpl) Provision(ctx context.Context, job *model.ProvisionJob) error {
	customerID, subscriptionID, err := s.provider.CreateSubscription(ctx, job.UserID, job.EventID)
	if err != nil {
		return err
	}

	return s.activate(ctx, job, customerID, subscriptionID, time.Now())
}

func (s *SubscriptionServiceImpl) activate(ctx context.Context, job *model.ProvisionJob, customerID, subscriptionID string, now time.Time) error {
	tx, err := database.BeginSerializableTx(ctx, s.pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	updated, err := s.events.RecordSubscription(ctx, tx, job.EventID, customerID, subscriptionID, now)
	if err != nil {
		return err
	}

	data, err := json.Marshal(map[string]string{
		"request_id":      job.RequestID,
		"customer_id":     customerID,
		"subscription_id": subscriptionID,
	})
	if err != nil {
		return err
	}

	_, err = s.history.Append(ctx, tx, &model.EventHistoryEntry{
		Type:      model.EventHistorySubscriptionActivated,
		Timestamp: now.UTC(),
		Data:      data,
		EventID:   updated.ID,
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit subscription activation: %w", err)
	}

	return nil
}
