package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-content-service/internal/model"
	apperrors "event-content-service/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// 唯一約束名稱，違反時對應到錯誤分類
	constraintEventsUserID          = "events_user_id"
	constraintActiveSubDomainUnique = "event_subdomains_active_subdomain"
)

type EventRepository interface {
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByUserID(ctx context.Context, userID int) (*model.Event, error)
	// FindActiveBySubDomain 透過 active claim 找公開中的活動
	FindActiveBySubDomain(ctx context.Context, subdomain string) (*model.Event, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error)
	FindByUserIDTx(ctx context.Context, tx pgx.Tx, userID int) (*model.Event, error)
	UpdateFields(ctx context.Context, tx pgx.Tx, userID int, params model.UpdateEventParams, now time.Time) (*model.Event, error)
	UpdateState(ctx context.Context, tx pgx.Tx, id int, state model.EventState, now time.Time) error
	SetShowSetupWizard(ctx context.Context, tx pgx.Tx, userID int, show bool, now time.Time) (*model.Event, error)
	RecordSubscription(ctx context.Context, tx pgx.Tx, id int, customerID, subscriptionID string, now time.Time) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, state, title, picture_set, subevent_details, ui_state, user_id,
	       current_active_subdomain, subscription_id, subscription_customer_id, subscription_active,
	       time_created, time_last_updated, time_removed`

// scanEvent 統一的 row -> model 轉換，jsonb 欄位由 pgx 直接反序列化
func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.State,
		&event.Title,
		&event.PictureSet,
		&event.SubEventDetails,
		&event.UiState,
		&event.UserID,
		&event.CurrentActiveSubDomain,
		&event.SubscriptionID,
		&event.SubscriptionCustomerID,
		&event.SubscriptionActive,
		&event.TimeCreated,
		&event.TimeLastUpdated,
		&event.TimeRemoved,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// isUniqueViolation 判斷是否為指定唯一約束的違反 (SQLSTATE 23505)
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func (r *EventRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			state, title, picture_set, subevent_details, ui_state, user_id,
			current_active_subdomain, time_created, time_last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + eventColumns

	created, err := scanEvent(tx.QueryRow(ctx, query,
		event.State,
		event.Title,
		event.PictureSet,
		event.SubEventDetails,
		event.UiState,
		event.UserID,
		event.CurrentActiveSubDomain,
		event.TimeCreated,
	))
	if err != nil {
		// 每個使用者最多一筆活動
		if isUniqueViolation(err, constraintEventsUserID) {
			return nil, apperrors.ErrEventAlreadyExists
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return created, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindByUserID(ctx context.Context, userID int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindByUserIDTx(ctx context.Context, tx pgx.Tx, userID int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1
	`

	event, err := scanEvent(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindActiveBySubDomain(ctx context.Context, subdomain string) (*model.Event, error) {
	query := `
		SELECT e.id, e.state, e.title, e.picture_set, e.subevent_details, e.ui_state, e.user_id,
		       e.current_active_subdomain, e.subscription_id, e.subscription_customer_id, e.subscription_active,
		       e.time_created, e.time_last_updated, e.time_removed
		FROM events e
		JOIN event_subdomains s ON s.event_id = e.id
		WHERE s.subdomain = $1 AND s.state = $2 AND e.state = $3
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query,
		subdomain, model.SubDomainStateActive, model.EventStateActive,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) UpdateFields(ctx context.Context, tx pgx.Tx, userID int, params model.UpdateEventParams, now time.Time) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argPos))
		args = append(args, *params.Title)
		argPos++
	}

	if params.PictureSet != nil {
		sets = append(sets, fmt.Sprintf("picture_set = $%d", argPos))
		args = append(args, *params.PictureSet)
		argPos++
	}

	if params.SubEventDetails != nil {
		sets = append(sets, fmt.Sprintf("subevent_details = $%d", argPos))
		args = append(args, params.SubEventDetails)
		argPos++
	}

	if params.CurrentActiveSubDomain != nil {
		sets = append(sets, fmt.Sprintf("current_active_subdomain = $%d", argPos))
		args = append(args, *params.CurrentActiveSubDomain)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add time_last_updated
	sets = append(sets, fmt.Sprintf("time_last_updated = $%d", argPos))
	args = append(args, now.UTC())
	argPos++

	// add user_id
	args = append(args, userID)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE user_id = $%d
		RETURNING `+eventColumns, strings.Join(sets, ", "), argPos)

	event, err := scanEvent(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) UpdateState(ctx context.Context, tx pgx.Tx, id int, state model.EventState, now time.Time) error {
	query := `
		UPDATE events
		SET state = $1, time_last_updated = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, state, now.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update event state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) SetShowSetupWizard(ctx context.Context, tx pgx.Tx, userID int, show bool, now time.Time) (*model.Event, error) {
	query := `
		UPDATE events
		SET ui_state = jsonb_set(ui_state, '{show_setup_wizard}', to_jsonb($1::boolean)),
		    time_last_updated = $2
		WHERE user_id = $3
		RETURNING ` + eventColumns

	event, err := scanEvent(tx.QueryRow(ctx, query, show, now.UTC(), userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) RecordSubscription(ctx context.Context, tx pgx.Tx, id int, customerID, subscriptionID string, now time.Time) (*model.Event, error) {
	query := `
		UPDATE events
		SET subscription_customer_id = $1,
		    subscription_id = $2,
		    subscription_active = TRUE,
		    time_last_updated = $3
		WHERE id = $4
		RETURNING ` + eventColumns

	event, err := scanEvent(tx.QueryRow(ctx, query, customerID, subscriptionID, now.UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}
