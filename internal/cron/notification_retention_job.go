package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	defaultNotificationRetention = 30 * 24 * time.Hour
	defaultNotificationCapacity  = 50
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type NotificationRetentionJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository notifications.Repository
	Retention  time.Duration
	Capacity   int
}

// NewNotificationRetentionJob drops read notifications older than the
// retention window and trims every user to the store capacity.
func NewNotificationRetentionJob(params NotificationRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultNotificationRetention
	}
	capacity := params.Capacity
	if capacity <= 0 {
		capacity = defaultNotificationCapacity
	}
	return &notificationRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		capacity:  capacity,
		now:       time.Now,
	}, nil
}

type notificationRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      notifications.Repository
	retention time.Duration
	capacity  int
	now       func() time.Time
}

func (j *notificationRetentionJob) Name() string { return "notification-retention" }

func (j *notificationRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	var expired, trimmed int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repo.WithTx(tx)
		rows, err := repo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("delete expired: %w", err)
		}
		expired = rows
		rows, err = repo.TrimToCapacity(ctx, j.capacity)
		if err != nil {
			return fmt.Errorf("trim to capacity: %w", err)
		}
		trimmed = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("notification retention: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"capacity":     j.capacity,
		"rows_expired": expired,
		"rows_trimmed": trimmed,
	}), "cron.notification_retention")
	return nil
}
