package model

import (
	"regexp"
	"strings"

	apperrors "event-content-service/pkg/app_errors"

	"github.com/google/uuid"
)

// SubDomainState 子網域狀態類型，對應 event_subdomains.state (enum)
type SubDomainState string

const (
	SubDomainStateActive   SubDomainState = "active"
	SubDomainStateInactive SubDomainState = "inactive"
)

// IsValid 驗證狀態是否有效
func (s SubDomainState) IsValid() bool {
	switch s {
	case SubDomainStateActive, SubDomainStateInactive:
		return true
	}
	return false
}

// SubdomainClaim 子網域佔用紀錄。
// 同一個 subdomain 字串最多只有一筆 active（由 partial unique index 保證）。
type SubdomainClaim struct {
	ID        int            `json:"id" db:"id"`
	State     SubDomainState `json:"state" db:"state"`
	SubDomain string         `json:"subdomain" db:"subdomain"`
	EventID   int            `json:"event_id" db:"event_id"`
	UserID    int            `json:"user_id" db:"user_id"`
}

// subDomainPattern 小寫英數與連字號，連字號不可在頭尾
var subDomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,62}[a-z0-9])?$`)

// NormalizeSubDomain 正規化子網域字串並驗證格式
func NormalizeSubDomain(subdomain string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(subdomain))
	if !subDomainPattern.MatchString(normalized) {
		return "", apperrors.ErrInvalidInput
	}
	return normalized, nil
}

// NewSubDomainCandidate 產生建立活動時的初始子網域，
// 隨機識別碼抗碰撞，之後使用者可自行更換
func NewSubDomainCandidate() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "event-" + id[:12]
}
