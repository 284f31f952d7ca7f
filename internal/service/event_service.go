package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"event-content-service/internal/cache"
	"event-content-service/internal/database"
	"event-content-service/internal/model"
	"event-content-service/internal/repository"
	apperrors "event-content-service/pkg/app_errors"
	"event-content-service/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// EventService 活動的公開操作集合。
// 所有寫入都包在單一 SERIALIZABLE 交易內：欄位變更、歷史紀錄、
// 子網域 claim 與生命週期轉換要嘛全部生效要嘛全部回滾
// （唯一例外：對已刪除活動的欄位更新，見 Update）。
type EventService interface {
	// Create 建立活動，state=Created，並 claim 一個產生的子網域
	Create(ctx context.Context, userID int, req model.CreateEventRequest, now time.Time) (*model.Event, error)
	// Update 套用欄位變更並重新評估生命週期轉換
	Update(ctx context.Context, userID int, params model.UpdateEventParams, now time.Time) (*model.Event, error)
	GetByUser(ctx context.Context, userID int) (*model.Event, error)
	// GetBySubDomain 公開查詢，只回傳 Active 的活動
	GetBySubDomain(ctx context.Context, subdomain string) (*model.Event, error)
	CheckSubDomainAvailable(ctx context.Context, subdomain string, userID int) (bool, error)
	// SkipSetupWizard 清除 ui_state 的設定精靈旗標
	SkipSetupWizard(ctx context.Context, userID int, now time.Time) (*model.Event, error)
}

type EventServiceImpl struct {
	pool       *pgxpool.Pool
	events     repository.EventRepository
	subdomains repository.SubdomainRepository
	history    repository.HistoryRepository
	siteCache  cache.SiteCache
}

func NewEventService(
	pool *pgxpool.Pool,
	eventRepository repository.EventRepository,
	subdomainRepository repository.SubdomainRepository,
	historyRepository repository.HistoryRepository,
	siteCache cache.SiteCache,
) EventService {
	return &EventServiceImpl{
		pool:       pool,
		events:     eventRepository,
		subdomains: subdomainRepository,
		history:    historyRepository,
		siteCache:  siteCache,
	}
}

// lifecycleTransition 生命週期轉換規則：
// Created 且內容完整 -> Active；Active 且內容不再完整 -> Created。
// Removed 是終態，這裡永遠不會轉進或轉出。
func lifecycleTransition(event *model.Event) (model.EventState, model.EventHistoryType, bool) {
	switch {
	case event.State == model.EventStateCreated && event.LooksActive():
		return model.EventStateActive, model.EventHistoryActivated, true
	case event.State == model.EventStateActive && !event.LooksActive():
		return model.EventStateCreated, model.EventHistoryDeactivated, true
	}
	return event.State, 0, false
}

func (s *EventServiceImpl) Create(ctx context.Context, userID int, req model.CreateEventRequest, now time.Time) (*model.Event, error) {
	tx, err := database.BeginSerializableTx(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event := &model.Event{
		State:                  model.EventStateCreated,
		Title:                  req.Title,
		PictureSet:             model.PictureSet{Pictures: []model.Picture{}},
		SubEventDetails:        model.DefaultSubEventDetails(),
		UiState:                model.UiState{ShowSetupWizard: true},
		UserID:                 userID,
		CurrentActiveSubDomain: model.NewSubDomainCandidate(),
		TimeCreated:            now.UTC(),
		TimeLastUpdated:        now.UTC(),
	}

	created, err := s.events.Create(ctx, tx, event)
	if err != nil {
		return nil, err
	}

	// 剛產生的隨機子網域，claim 預期一定成功
	err = s.subdomains.Claim(ctx, tx, created.CurrentActiveSubDomain, created.ID, userID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	_, err = s.history.Append(ctx, tx, &model.EventHistoryEntry{
		Type:      model.EventHistoryCreated,
		Timestamp: now.UTC(),
		Data:      data,
		EventID:   created.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit create: %w", err)
	}

	return created, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, userID int, params model.UpdateEventParams, now time.Time) (*model.Event, error) {
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}

	if params.CurrentActiveSubDomain != nil {
		normalized, err := model.NormalizeSubDomain(*params.CurrentActiveSubDomain)
		if err != nil {
			return nil, err
		}
		params.CurrentActiveSubDomain = &normalized
	}

	tx, err := database.BeginSerializableTx(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updated, err := s.events.UpdateFields(ctx, tx, userID, params, now)
	if err != nil {
		return nil, err
	}

	if updated.IsRemoved() {
		// Removed 是終態，欄位更新無害：提交後才回報錯誤，
		// 讓這筆已套用的寫入留著而不是回滾
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit update on removed event: %w", err)
		}
		return nil, apperrors.ErrEventRemoved
	}

	if params.CurrentActiveSubDomain != nil {
		err = s.subdomains.Claim(ctx, tx, *params.CurrentActiveSubDomain, updated.ID, userID)
		if err != nil {
			return nil, err
		}
	}

	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	_, err = s.history.Append(ctx, tx, &model.EventHistoryEntry{
		Type:      model.EventHistoryUpdated,
		Timestamp: now.UTC(),
		Data:      data,
		EventID:   updated.ID,
	})
	if err != nil {
		return nil, err
	}

	if newState, historyType, changed := lifecycleTransition(updated); changed {
		if err := s.events.UpdateState(ctx, tx, updated.ID, newState, now); err != nil {
			return nil, err
		}
		updated.State = newState
		updated.TimeLastUpdated = now.UTC()

		_, err = s.history.Append(ctx, tx, &model.EventHistoryEntry{
			Type:      historyType,
			Timestamp: now.UTC(),
			EventID:   updated.ID,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}

	s.invalidateSiteCache(ctx, updated.ID)

	return updated, nil
}

func (s *EventServiceImpl) GetByUser(ctx context.Context, userID int) (*model.Event, error) {
	event, err := s.events.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if event.IsRemoved() {
		return nil, apperrors.ErrEventRemoved
	}

	return event, nil
}

func (s *EventServiceImpl) GetBySubDomain(ctx context.Context, subdomain string) (*model.Event, error) {
	normalized, err := model.NormalizeSubDomain(subdomain)
	if err != nil {
		return nil, apperrors.ErrEventNotFound
	}

	cached, err := s.siteCache.GetEvent(ctx, normalized)
	if err != nil {
		logger.WithComponent("service").Warn("site cache read failed", zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	event, err := s.events.FindActiveBySubDomain(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if err := s.siteCache.SetEvent(ctx, normalized, event); err != nil {
		logger.WithComponent("service").Warn("site cache write failed", zap.Error(err))
	}

	return event, nil
}

func (s *EventServiceImpl) CheckSubDomainAvailable(ctx context.Context, subdomain string, userID int) (bool, error) {
	normalized, err := model.NormalizeSubDomain(subdomain)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			// 格式不合法的子網域一律視為不可用
			return false, nil
		}
		return false, err
	}

	return s.subdomains.IsAvailable(ctx, normalized, userID)
}

func (s *EventServiceImpl) SkipSetupWizard(ctx context.Context, userID int, now time.Time) (*model.Event, error) {
	tx, err := database.BeginSerializableTx(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updated, err := s.events.SetShowSetupWizard(ctx, tx, userID, false, now)
	if err != nil {
		return nil, err
	}

	if updated.IsRemoved() {
		// 與 Update 相同的終態處理
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit ui update on removed event: %w", err)
		}
		return nil, apperrors.ErrEventRemoved
	}

	_, err = s.history.Append(ctx, tx, &model.EventHistoryEntry{
		Type:      model.EventHistoryUiMarkedSkippedSetupWizard,
		Timestamp: now.UTC(),
		EventID:   updated.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit ui update: %w", err)
	}

	s.invalidateSiteCache(ctx, updated.ID)

	return updated, nil
}

// invalidateSiteCache 在成功 commit 後刪除活動所有 active 子網域的快取。
// 快取只是加速層，失敗時記 log 不影響操作結果。
func (s *EventServiceImpl) invalidateSiteCache(ctx context.Context, eventID int) {
	claims, err := s.subdomains.ActiveClaimsByEventID(ctx, eventID)
	if err != nil {
		logger.WithComponent("service").Warn("list active claims for cache invalidation failed", zap.Int("event_id", eventID), zap.Error(err))
		return
	}

	subdomains := make([]string, 0, len(claims))
	for _, claim := range claims {
		subdomains = append(subdomains, claim.SubDomain)
	}

	if err := s.siteCache.Invalidate(ctx, subdomains...); err != nil {
		logger.WithComponent("service").Warn("site cache invalidation failed", zap.Int("event_id", eventID), zap.Error(err))
	}
}
