package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType is the event a notification reports
type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationFollow  NotificationType = "FOLLOW"
	NotificationComment NotificationType = "COMMENT"
)

// Notification tells RecipientID that IssuerID did something
type Notification struct {
	ID          string           `gorm:"primaryKey;size:36" json:"id"`
	RecipientID string           `gorm:"size:36;not null;index:idx_notifications_recipient_created,priority:1" json:"recipient_id"`
	Recipient   User             `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	IssuerID    string           `gorm:"size:36;not null" json:"issuer_id"`
	Issuer      User             `gorm:"foreignKey:IssuerID;constraint:OnDelete:CASCADE" json:"issuer"`
	PostID      *string          `gorm:"size:36" json:"post_id,omitempty"`
	Post        *Post            `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Type        NotificationType `gorm:"size:16;not null" json:"type"`
	Read        bool             `gorm:"default:false;not null" json:"read"`

	CreatedAt time.Time `gorm:"index:idx_notifications_recipient_created,priority:2" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = generateUUID()
	}
	return nil
}

// All returns every model managed by migrations, in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Follow{},
		&Like{},
		&Bookmark{},
		&Comment{},
		&Notification{},
	}
}
