package enums

import "fmt"

// NotificationType maps to the notification_type column.
type NotificationType string

const (
	NotificationTypeTransaction NotificationType = "transaction"
	NotificationTypeEscrow      NotificationType = "escrow"
	NotificationTypeSecurity    NotificationType = "security"
	NotificationTypeMessage     NotificationType = "message"
	NotificationTypeSystem      NotificationType = "system"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeTransaction,
	NotificationTypeEscrow,
	NotificationTypeSecurity,
	NotificationTypeMessage,
	NotificationTypeSystem,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

type NotificationPriority string

const (
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

func (p NotificationPriority) IsValid() bool {
	return p == NotificationPriorityNormal || p == NotificationPriorityHigh
}

func ParseNotificationPriority(value string) (NotificationPriority, error) {
	p := NotificationPriority(value)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid notification priority %q", value)
	}
	return p, nil
}
