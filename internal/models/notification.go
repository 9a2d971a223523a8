package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType classifies what engagement action produced a notification
type NotificationType string

const (
	NotificationFollow  NotificationType = "follow"
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
)

// Notification is a fan-out record addressed to a recipient as a side effect
// of another user's engagement action. Never self-addressed.
type Notification struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	RecipientID string `gorm:"not null;index" json:"recipient_id"`
	Recipient   User   `gorm:"foreignKey:RecipientID" json:"-"`
	SenderID    string `gorm:"not null;index" json:"sender_id"`
	Sender      User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	Type   NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	PostID *string          `gorm:"type:uuid;index" json:"post_id,omitempty"`

	Read bool `gorm:"default:false;index" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = generateUUID()
	}
	return nil
}
