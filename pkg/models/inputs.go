package models

import "time"

// Patch types use nil for "no change". A JSON null is also treated as no change.

type UserPatch struct {
	Email *string
	Name  *string
	Phone *string
	Age   *int
}

type DevicePatch struct {
	Status    *string
	Timestamp *time.Time
}

type RecordInput struct {
	Level       int
	Description *string
	Timestamp   *time.Time
	DeviceID    *string
}

type AlertInput struct {
	DeviceID string
	Level    *string
	Message  *string
}

type AlertFilter struct {
	DeviceID string
	Level    string
	Page     Page
}

type ContactInput struct {
	Email string
	Name  *string
	Phone *string
}

type ContactPatch struct {
	Email *string
	Name  *string
	Phone *string
}

// Page is a limit/skip window. Nil fields fall back to defaults.
type Page struct {
	Limit *int
	Skip  *int
}
