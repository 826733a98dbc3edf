package session

import "strings"

// Owner keys route write-through events to the right backing store:
// "device:<id>" goes to the local store, "user:<id>" to the remote one.
const (
	ownerDevicePrefix = "device:"
	ownerUserPrefix   = "user:"
)

// OwnerForDevice builds the owner key for an anonymous session.
func OwnerForDevice(deviceID string) string {
	return ownerDevicePrefix + deviceID
}

// OwnerForUser builds the owner key for an authenticated session.
func OwnerForUser(userID string) string {
	return ownerUserPrefix + userID
}

func splitOwner(key string) (kind, id string) {
	switch {
	case strings.HasPrefix(key, ownerDevicePrefix):
		return "device", key[len(ownerDevicePrefix):]
	case strings.HasPrefix(key, ownerUserPrefix):
		return "user", key[len(ownerUserPrefix):]
	default:
		return "", ""
	}
}
