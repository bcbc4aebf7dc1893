package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists notifications so stores survive restarts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id string) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID uuid.UUID, ids ...string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	TrimToCapacity(ctx context.Context, capacity int) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) MarkRead(ctx context.Context, userID uuid.UUID, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read = ?", id, userID, false).
		UpdateColumn("read", true).Error
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		UpdateColumn("read", true)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) Delete(ctx context.Context, userID uuid.UUID, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.Notification{}).Error
}

// DeleteOlderThan removes read notifications created before cutoff.
func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// TrimToCapacity keeps only the newest capacity rows per user.
func (r *repositoryImpl) TrimToCapacity(ctx context.Context, capacity int) (int64, error) {
	ranked := r.db.
		Table("notifications").
		Select("id, ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY seq DESC) AS user_rank")
	overflow := r.db.
		Table("(?) AS ranked", ranked).
		Select("id").
		Where("user_rank > ?", capacity)
	result := r.db.WithContext(ctx).
		Where("id IN (?)", overflow).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func toModel(userID uuid.UUID, n Notification) models.Notification {
	return models.Notification{
		ID:        n.ID,
		Seq:       n.seq,
		UserID:    userID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		ActionURL: n.ActionURL,
		Read:      n.Read,
		CreatedAt: n.Timestamp,
	}
}

func fromModel(m models.Notification) Notification {
	return Notification{
		ID:        m.ID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Timestamp: m.CreatedAt.UTC(),
		Read:      m.Read,
		Priority:  m.Priority,
		ActionURL: m.ActionURL,
		seq:       m.Seq,
	}
}
