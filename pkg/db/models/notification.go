package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// Notification stores in-app alerts scoped to a user. Seq is the
// time-derived id in numeric form and orders rows by insertion.
type Notification struct {
	ID        string                     `gorm:"column:id;primaryKey"`
	Seq       int64                      `gorm:"column:seq;not null;index"`
	UserID    uuid.UUID                  `gorm:"column:user_id;type:uuid;not null;index"`
	Type      enums.NotificationType     `gorm:"column:type;not null"`
	Title     string                     `gorm:"column:title;not null"`
	Message   string                     `gorm:"column:message;not null"`
	Priority  enums.NotificationPriority `gorm:"column:priority;not null"`
	ActionURL string                     `gorm:"column:action_url;not null"`
	Read      bool                       `gorm:"column:read;not null;default:false"`
	CreatedAt time.Time                  `gorm:"column:created_at;not null"`
}
