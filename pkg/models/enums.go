package models

import "strings"

type DeviceStatus string

const (
	DeviceStatusActive   DeviceStatus = "active"
	DeviceStatusInactive DeviceStatus = "inactive"
)

var DeviceStatuses = []DeviceStatus{DeviceStatusActive, DeviceStatusInactive}

// ParseDeviceStatus accepts any casing, e.g. "ACTIVE" or "active".
func ParseDeviceStatus(s string) (DeviceStatus, bool) {
	return parseEnum(s, DeviceStatuses)
}

type AlertLevel string

const (
	AlertLevelLow      AlertLevel = "low"
	AlertLevelMedium   AlertLevel = "medium"
	AlertLevelHigh     AlertLevel = "high"
	AlertLevelCritical AlertLevel = "critical"
)

var AlertLevels = []AlertLevel{AlertLevelLow, AlertLevelMedium, AlertLevelHigh, AlertLevelCritical}

func ParseAlertLevel(s string) (AlertLevel, bool) {
	return parseEnum(s, AlertLevels)
}

func EnumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func parseEnum[T ~string](s string, legal []T) (T, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, v := range legal {
		if string(v) == normalized {
			return v, true
		}
	}
	var zero T
	return zero, false
}
