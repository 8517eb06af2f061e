package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email          string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string  `gorm:"type:varchar(255);not null" json:"-"`
	Name           *string `gorm:"type:varchar(100)" json:"name"`
	Phone          *string `gorm:"type:varchar(20)" json:"phone"`
	Age            *int    `json:"age"`

	Devices  []Device  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Records  []Record  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Contacts []Contact `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Device struct {
	ID        string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Status    DeviceStatus `gorm:"type:varchar(16);not null;check:status IN ('active','inactive')" json:"status"`
	Timestamp time.Time    `gorm:"not null;index" json:"timestamp"`
	UserID    string       `gorm:"type:varchar(36);not null;index" json:"user_id"`

	// records deliberately have no association here, see DeviceRelations
	Alerts []Alert `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type Record struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Level       int       `gorm:"not null" json:"level"`
	Description *string   `gorm:"type:text" json:"description"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
	UserID      string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	DeviceID    *string   `gorm:"type:varchar(36);index" json:"device_id"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Alert struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Message   *string    `gorm:"type:varchar(255)" json:"message"`
	Level     AlertLevel `gorm:"type:varchar(16);not null;check:level IN ('low','medium','high','critical')" json:"level"`
	Timestamp time.Time  `gorm:"not null;index" json:"timestamp"`
	DeviceID  string     `gorm:"type:varchar(36);not null;index" json:"device_id"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type Contact struct {
	ID     string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email  string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name   *string `gorm:"type:varchar(100)" json:"name"`
	Phone  *string `gorm:"type:varchar(20)" json:"phone"`
	UserID string  `gorm:"type:varchar(36);not null;index" json:"user_id"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// AllModels lists every table in migration order.
func AllModels() []any {
	return []any{&User{}, &Device{}, &Record{}, &Alert{}, &Contact{}}
}
