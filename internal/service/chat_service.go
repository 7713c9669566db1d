package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	apperrors "carpool/internal/errors"
	"carpool/internal/model"
	"carpool/internal/repository"
)

const (
	conversationLimit = 100
	inboxScanLimit    = 200
)

// Conversation is the message history between the viewer and one other user.
type Conversation struct {
	With     model.User
	Messages []model.Chat
}

// ConversationSummary is the latest message exchanged with one counterpart.
type ConversationSummary struct {
	With model.User
	Last model.Chat
}

// ChatService exposes chat operations between users.
type ChatService interface {
	Send(ctx context.Context, senderID, recipientID uuid.UUID, body string, carpoolID *uuid.UUID) (*model.Chat, error)
	Conversation(ctx context.Context, userID, otherID uuid.UUID) (*Conversation, error)
	Inbox(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error)
}

type chatService struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	carpoolRepo repository.CarpoolRepository
	policy      *bluemonday.Policy
}

// NewChatService creates a new chat service. Message bodies are stripped of
// all markup before storage.
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, carpoolRepo repository.CarpoolRepository) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		carpoolRepo: carpoolRepo,
		policy:      bluemonday.StrictPolicy(),
	}
}

// SanitizeMessage strips markup from body and returns plain text. Templates
// escape it again on output.
func (s *chatService) SanitizeMessage(body string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(body)))
}

// Send stores a message from senderID to recipientID.
func (s *chatService) Send(ctx context.Context, senderID, recipientID uuid.UUID, body string, carpoolID *uuid.UUID) (*model.Chat, error) {
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: cannot message yourself", apperrors.ErrInvalidMessage)
	}
	clean := s.SanitizeMessage(body)
	if clean == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", apperrors.ErrInvalidMessage)
	}
	if utf8.RuneCountInString(clean) > model.MaxChatBodyLength {
		return nil, fmt.Errorf("%w: message is longer than %d characters", apperrors.ErrInvalidMessage, model.MaxChatBodyLength)
	}

	if _, err := s.userRepo.FindByID(ctx, recipientID); err != nil {
		return nil, fmt.Errorf("find recipient: %w", err)
	}
	if carpoolID != nil {
		if _, err := s.carpoolRepo.FindByID(ctx, *carpoolID); err != nil {
			return nil, fmt.Errorf("find carpool: %w", err)
		}
	}

	chat := &model.Chat{
		SenderID:    senderID,
		RecipientID: recipientID,
		CarpoolID:   carpoolID,
		Body:        clean,
	}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

// Conversation loads the counterpart and the messages exchanged with them.
func (s *chatService) Conversation(ctx context.Context, userID, otherID uuid.UUID) (*Conversation, error) {
	other, err := s.userRepo.FindByID(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	messages, err := s.chatRepo.Conversation(ctx, userID, otherID, conversationLimit)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return &Conversation{With: *other, Messages: messages}, nil
}

// Inbox returns one summary per counterpart, most recent first.
func (s *chatService) Inbox(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error) {
	chats, err := s.chatRepo.ListForUser(ctx, userID, inboxScanLimit)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	summaries := make([]ConversationSummary, 0)
	for _, chat := range chats {
		other := chat.Counterpart(userID)
		if seen[other] {
			continue
		}
		seen[other] = true

		with := chat.Recipient
		if chat.RecipientID == userID {
			with = chat.Sender
		}
		summaries = append(summaries, ConversationSummary{With: with, Last: chat})
	}
	return summaries, nil
}
