package enums

import "fmt"

// NotificationType categorizes notifications delivered to users.
type NotificationType string

const (
	NotificationTypeListingReported  NotificationType = "listing_reported"
	NotificationTypeListingSuspended NotificationType = "listing_suspended"
	NotificationTypeSystem           NotificationType = "system"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeListingReported,
	NotificationTypeListingSuspended,
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
