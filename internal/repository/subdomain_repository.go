package repository

import (
	"context"
	"fmt"

	"event-content-service/internal/model"
	apperrors "event-content-service/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubdomainRepository 子網域佔用的唯一寫入者。
// 唯一性由兩層保證：交易內先讀 active claim 再決定，
// 以及 storage 層的 partial unique index 作為並發時的最後防線。
type SubdomainRepository interface {
	// IsAvailable 沒有 active claim，或 active claim 全部屬於該使用者時可用
	IsAvailable(ctx context.Context, subdomain string, userID int) (bool, error)
	FindActiveBySubDomain(ctx context.Context, subdomain string) ([]*model.SubdomainClaim, error)
	ActiveClaimsByEventID(ctx context.Context, eventID int) ([]*model.SubdomainClaim, error)

	// Transaction methods
	Claim(ctx context.Context, tx pgx.Tx, subdomain string, eventID int, userID int) error
	Deactivate(ctx context.Context, tx pgx.Tx, subdomain string, eventID int) error
}

type SubdomainRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSubdomainRepository(pool *pgxpool.Pool) SubdomainRepository {
	return &SubdomainRepositoryImpl{
		pool: pool,
	}
}

const subdomainColumns = `id, state, subdomain, event_id, user_id`

func scanClaims(rows pgx.Rows) ([]*model.SubdomainClaim, error) {
	defer rows.Close()

	claims := make([]*model.SubdomainClaim, 0)
	for rows.Next() {
		var claim model.SubdomainClaim
		err := rows.Scan(
			&claim.ID,
			&claim.State,
			&claim.SubDomain,
			&claim.EventID,
			&claim.UserID,
		)
		if err != nil {
			return nil, err
		}
		claims = append(claims, &claim)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return claims, nil
}

func (r *SubdomainRepositoryImpl) IsAvailable(ctx context.Context, subdomain string, userID int) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM event_subdomains
		WHERE subdomain = $1 AND state = $2 AND user_id != $3
	`

	var count int
	err := r.pool.QueryRow(ctx, query, subdomain, model.SubDomainStateActive, userID).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == 0, nil
}

func (r *SubdomainRepositoryImpl) FindActiveBySubDomain(ctx context.Context, subdomain string) ([]*model.SubdomainClaim, error) {
	query := `
		SELECT ` + subdomainColumns + `
		FROM event_subdomains
		WHERE subdomain = $1 AND state = $2
	`

	rows, err := r.pool.Query(ctx, query, subdomain, model.SubDomainStateActive)
	if err != nil {
		return nil, err
	}

	return scanClaims(rows)
}

func (r *SubdomainRepositoryImpl) ActiveClaimsByEventID(ctx context.Context, eventID int) ([]*model.SubdomainClaim, error) {
	query := `
		SELECT ` + subdomainColumns + `
		FROM event_subdomains
		WHERE event_id = $1 AND state = $2
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, eventID, model.SubDomainStateActive)
	if err != nil {
		return nil, err
	}

	return scanClaims(rows)
}

func (r *SubdomainRepositoryImpl) Claim(ctx context.Context, tx pgx.Tx, subdomain string, eventID int, userID int) error {
	// 交易內重新檢查 active claim
	query := `
		SELECT ` + subdomainColumns + `
		FROM event_subdomains
		WHERE subdomain = $1 AND state = $2
	`

	rows, err := tx.Query(ctx, query, subdomain, model.SubDomainStateActive)
	if err != nil {
		return err
	}

	claims, err := scanClaims(rows)
	if err != nil {
		return err
	}

	for _, claim := range claims {
		if claim.UserID != userID {
			// 別人已經佔用
			return apperrors.ErrSubDomainInUse
		}
		// 同一個使用者重複 claim，冪等成功，不插入重複的 active 紀錄
		return nil
	}

	insert := `
		INSERT INTO event_subdomains (state, subdomain, event_id, user_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err = tx.Exec(ctx, insert, model.SubDomainStateActive, subdomain, eventID, userID)
	if err != nil {
		// 並發的另一筆交易先 commit 時由 partial unique index 擋下
		if isUniqueViolation(err, constraintActiveSubDomainUnique) {
			return apperrors.ErrSubDomainInUse
		}
		return fmt.Errorf("failed to claim subdomain: %w", err)
	}

	return nil
}

// Deactivate 將 claim 標記為 inactive。
// 目前沒有任何操作路徑呼叫：claim 不會自動停用舊的 claim，
// 讓舊子網域在 DNS 傳播期間仍然有效。
func (r *SubdomainRepositoryImpl) Deactivate(ctx context.Context, tx pgx.Tx, subdomain string, eventID int) error {
	query := `
		UPDATE event_subdomains
		SET state = $1
		WHERE subdomain = $2 AND event_id = $3 AND state = $4
	`

	result, err := tx.Exec(ctx, query,
		model.SubDomainStateInactive, subdomain, eventID, model.SubDomainStateActive,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
