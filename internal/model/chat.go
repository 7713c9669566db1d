package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxChatBodyLength bounds a single chat message, in characters.
const MaxChatBodyLength = 1000

// Chat is a single message sent from one user to another, optionally about an offer.
type Chat struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	SenderID    uuid.UUID  `json:"sender_id" gorm:"type:char(36);not null;index:idx_chat_pair,priority:1"`
	RecipientID uuid.UUID  `json:"recipient_id" gorm:"type:char(36);not null;index:idx_chat_pair,priority:2"`
	CarpoolID   *uuid.UUID `json:"carpool_id,omitempty" gorm:"type:char(36);index"`
	Body        string     `json:"body" gorm:"type:text;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`

	// Relations
	Sender    User     `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Recipient User     `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Carpool   *Carpool `json:"-" gorm:"foreignKey:CarpoolID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Counterpart returns the other participant of the message from the view of userID.
func (c *Chat) Counterpart(userID uuid.UUID) uuid.UUID {
	if c.SenderID == userID {
		return c.RecipientID
	}
	return c.SenderID
}
