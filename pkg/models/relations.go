package models

// OnDelete is what happens to a child row when its parent is deleted.
type OnDelete string

const (
	// OnDeleteCascade deletes the children with the parent.
	OnDeleteCascade OnDelete = "cascade"
	// OnDeleteRetain keeps the children; their reference to the parent dangles.
	OnDeleteRetain OnDelete = "retain"
)

type Relation struct {
	Name       string
	Child      any
	ForeignKey string
	OnDelete   OnDelete
}

// DeviceRelations: alerts die with their device, records outlive it.
var DeviceRelations = []Relation{
	{Name: "alerts", Child: &Alert{}, ForeignKey: "device_id", OnDelete: OnDeleteCascade},
	{Name: "records", Child: &Record{}, ForeignKey: "device_id", OnDelete: OnDeleteRetain},
}

// UserRelations: everything a user owns is deleted with the user. Devices are
// expanded through DeviceRelations first.
var UserRelations = []Relation{
	{Name: "devices", Child: &Device{}, ForeignKey: "user_id", OnDelete: OnDeleteCascade},
	{Name: "records", Child: &Record{}, ForeignKey: "user_id", OnDelete: OnDeleteCascade},
	{Name: "contacts", Child: &Contact{}, ForeignKey: "user_id", OnDelete: OnDeleteCascade},
}
