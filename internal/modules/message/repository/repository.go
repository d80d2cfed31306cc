package repository

import (
	"context"
	"fmt"

	"gator.dev/studygator/internal/entity"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindByRecipient(ctx context.Context, userID uint) ([]*entity.MessageDetail, error)
	FindBySender(ctx context.Context, userID uint) ([]*entity.MessageDetail, error)
	DeleteReceived(ctx context.Context, userID, messageID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.*, su.name AS sender_name, ru.name AS recipient_name, l.title AS listing_title").
		Joins("JOIN users su ON su.id = m.sender_user_id").
		Joins("JOIN users ru ON ru.id = m.recipient_user_id").
		Joins("JOIN listings l ON l.id = m.listing_id").
		Order("m.date_created DESC, m.id DESC")
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (r *messageRepository) FindByRecipient(ctx context.Context, userID uint) ([]*entity.MessageDetail, error) {
	var messages []*entity.MessageDetail
	if err := r.detailQuery(ctx).Where("m.recipient_user_id = ?", userID).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("find received messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) FindBySender(ctx context.Context, userID uint) ([]*entity.MessageDetail, error) {
	var messages []*entity.MessageDetail
	if err := r.detailQuery(ctx).Where("m.sender_user_id = ?", userID).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("find sent messages: %w", err)
	}
	return messages, nil
}

// DeleteReceived deletes the message only when userID is its recipient.
func (r *messageRepository) DeleteReceived(ctx context.Context, userID, messageID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_user_id = ?", messageID, userID).
		Delete(&entity.Message{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete message %d: %w", messageID, result.Error)
	}
	return result.RowsAffected, nil
}
