package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "carpool/internal/errors"
	"carpool/internal/model"
)

// ChatRepository defines chat message persistence operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	Conversation(ctx context.Context, a, b uuid.UUID, limit int) ([]model.Chat, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Chat, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *model.Chat) error {
	if err := r.db.WithContext(ctx).Omit("Sender", "Recipient", "Carpool").Create(chat).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return classifyChatForeignKey(chat, func(id uuid.UUID) (bool, error) {
				var n int64
				err := r.db.WithContext(ctx).Model(&model.Carpool{}).Where("id = ?", id).Count(&n).Error
				return n > 0, err
			})
		}
		return err
	}
	return nil
}

// classifyChatForeignKey names the reference that broke a chat insert. A
// chat points at two users and optionally a carpool; the driver error does
// not say which, so a linked carpool is checked and users are blamed
// otherwise.
func classifyChatForeignKey(chat *model.Chat, carpoolExists func(uuid.UUID) (bool, error)) error {
	if chat.CarpoolID == nil {
		return apperrors.ErrUserNotFound
	}
	exists, err := carpoolExists(*chat.CarpoolID)
	if err != nil {
		return fmt.Errorf("look up carpool %s: %w", *chat.CarpoolID, err)
	}
	if !exists {
		return apperrors.ErrCarpoolNotFound
	}
	return apperrors.ErrUserNotFound
}

// Conversation returns the latest messages exchanged between a and b,
// oldest first.
func (r *chatRepository) Conversation(ctx context.Context, a, b uuid.UUID, limit int) ([]model.Chat, error) {
	var chats []model.Chat
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at DESC").Limit(limit).
		Find(&chats).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(chats)-1; i < j; i, j = i+1, j-1 {
		chats[i], chats[j] = chats[j], chats[i]
	}
	return chats, nil
}

// ListForUser returns the newest messages sent or received by userID.
func (r *chatRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Chat, error) {
	var chats []model.Chat
	if err := r.db.WithContext(ctx).
		Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").Limit(limit).
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}
