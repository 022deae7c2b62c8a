package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, db *gorm.DB, session *Session) error
	FindByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) (*Session, error)
	Touch(ctx context.Context, db *gorm.DB, id snowflake.ID, seenAt time.Time) error
	Revoke(ctx context.Context, db *gorm.DB, id snowflake.ID, revokedAt time.Time) error
	DeleteExpired(ctx context.Context, db *gorm.DB, before time.Time) (int64, error)
}
