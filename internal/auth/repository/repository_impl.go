package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/domain"
	"gorm.io/gorm"
)

type sessionRepo struct{}

func ProvideSession() domain.SessionRepository {
	return &sessionRepo{}
}

func (r *sessionRepo) Create(ctx context.Context, db *gorm.DB, session *domain.Session) error {
	return db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) FindByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	err := db.WithContext(ctx).Where("session_token_hash = ?", tokenHash).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Touch(ctx context.Context, db *gorm.DB, id snowflake.ID, seenAt time.Time) error {
	return db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ?", id).
		Update("last_seen_at", seenAt).Error
}

func (r *sessionRepo) Revoke(ctx context.Context, db *gorm.DB, id snowflake.ID, revokedAt time.Time) error {
	return db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", revokedAt).Error
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}
