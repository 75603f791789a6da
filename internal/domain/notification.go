package domain

import "fmt"

// NotificationPermission mirrors the tri-state permission of desktop
// notification systems.
type NotificationPermission string

const (
	PermissionDefault NotificationPermission = "default"
	PermissionGranted NotificationPermission = "granted"
	PermissionDenied  NotificationPermission = "denied"
)

// ParseNotificationPermission validates a stored permission value.
func ParseNotificationPermission(s string) (NotificationPermission, error) {
	switch p := NotificationPermission(s); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	}
	return PermissionDefault, fmt.Errorf("%w %q", ErrInvalidPermission, s)
}

// NotificationTitle is the title of every completion notification.
const NotificationTitle = "PurrModoro Timer Complete!"
