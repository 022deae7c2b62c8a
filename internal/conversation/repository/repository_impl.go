package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, conv *domain.Conversation) error {
	return db.WithContext(ctx).Create(conv).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.Conversation, error) {
	var convs []*domain.Conversation
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, conv *domain.Conversation) error {
	return db.WithContext(ctx).Save(conv).Error
}

func (r *repo) Touch(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Conversation{}).Error
}

func (r *repo) InsertMessage(ctx context.Context, db *gorm.DB, msg *domain.ChatMessage) error {
	return db.WithContext(ctx).Create(msg).Error
}

func (r *repo) ListMessages(ctx context.Context, db *gorm.DB, conversationID string) ([]*domain.ChatMessage, error) {
	var msgs []*domain.ChatMessage
	err := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
