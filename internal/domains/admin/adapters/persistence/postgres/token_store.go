package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/boutique-orders/internal/domains/admin/ports"
)

// TokenStore persists admin tokens in PostgreSQL so they survive restarts.
type TokenStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTokenStore wires a PostgreSQL-backed token store. Caller owns DB lifecycle.
func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *TokenStore) WithClock(now func() time.Time) *TokenStore {
	if now != nil {
		s.now = now
	}
	return s
}

// sessionRecord maps an admin token to the admin_sessions table.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:128"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "admin_sessions" }

// Save upserts a token.
func (s *TokenStore) Save(ctx context.Context, token string, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	rec := sessionRecord{Token: token}
	if !expiresAt.IsZero() {
		expiry := expiresAt.UTC()
		rec.ExpiresAt = &expiry
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *TokenStore) Exists(ctx context.Context, token string) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&sessionRecord{}).
		Where("token = ? AND (expires_at IS NULL OR expires_at > ?)", token, s.now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "token = ?", token).Error
}

// PurgeExpired removes expired tokens. Use for housekeeping or cron.
func (s *TokenStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *TokenStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres admin token store not configured")
	}
	return nil
}

var _ ports.TokenStore = (*TokenStore)(nil)
