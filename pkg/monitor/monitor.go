package monitor

import (
	"time"

	"liyu1981.xyz/glucova-service/pkg/auth"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/db"
	"liyu1981.xyz/glucova-service/pkg/models"
)

//go:generate mockgen -source=monitor.go -destination=mocks/mock_monitor.go -package=mocks

type IIdentity interface {
	SignUp(email, password string) (*models.User, error)
	SignIn(email, password string) (string, error)
	Authenticate(token string) (*models.User, error)
	UpdateSelf(user *models.User, patch *models.UserPatch) (*models.User, error)
	DeleteSelf(user *models.User) error
}

type IDevice interface {
	CreateDevice(user *models.User, timestamp *time.Time) (*models.Device, error)
	ListDevices(user *models.User, status string) ([]models.Device, error)
	GetDevice(user *models.User, deviceID string) (*models.Device, error)
	UpdateDevice(user *models.User, deviceID string, patch *models.DevicePatch) (*models.Device, error)
	DeleteDevice(user *models.User, deviceID string) error
	SetIngestLimit(user *models.User, deviceID string, rate float64, burst int) error
}

type IRecord interface {
	CreateRecord(user *models.User, input *models.RecordInput) (*models.Record, error)
	ListRecords(user *models.User, page models.Page) ([]models.Record, error)
	ListDeviceRecords(user *models.User, deviceID string, page models.Page) ([]models.Record, error)
	GetRecord(user *models.User, recordID string) (*models.Record, error)
	DeleteRecord(user *models.User, recordID string) error
}

type IAlert interface {
	CreateAlert(input *models.AlertInput) (*models.Alert, error)
	ListAlerts(user *models.User, filter *models.AlertFilter) ([]models.Alert, error)
	GetAlert(user *models.User, alertID string) (*models.Alert, error)
	DeleteAlert(user *models.User, alertID string) error
}

type IContact interface {
	ListContacts(user *models.User) ([]models.Contact, error)
	CreateContact(user *models.User, input *models.ContactInput) (*models.Contact, error)
	UpdateContact(user *models.User, contactID string, patch *models.ContactPatch) (*models.Contact, error)
	DeleteContact(user *models.User, contactID string) error
}

// Monitor is the glucose monitoring core. Every operation except alert
// ingestion and the identity entry points takes the authenticated caller.
type Monitor struct {
	Db          db.DB
	Tokens      *auth.TokenManager
	Passwords   *auth.PasswordHasher
	Limiters    *RateLimiterStore
	MaxPageSize int
	Now         func() time.Time

	Identity IIdentity
	Device   IDevice
	Record   IRecord
	Alert    IAlert
	Contact  IContact
}

type ServiceOpts struct {
	Identity IIdentity
	Device   IDevice
	Record   IRecord
	Alert    IAlert
	Contact  IContact
}

func (m *Monitor) WithServices(opts ServiceOpts) *Monitor {
	if opts.Identity != nil {
		m.Identity = opts.Identity
	}
	if opts.Device != nil {
		m.Device = opts.Device
	}
	if opts.Record != nil {
		m.Record = opts.Record
	}
	if opts.Alert != nil {
		m.Alert = opts.Alert
	}
	if opts.Contact != nil {
		m.Contact = opts.Contact
	}
	return m
}

// WithDefaultServices wires the database backed implementations.
func (m *Monitor) WithDefaultServices() *Monitor {
	return m.WithServices(ServiceOpts{
		Identity: m.GetIIdentity(),
		Device:   m.GetIDevice(),
		Record:   m.GetIRecord(),
		Alert:    m.GetIAlert(),
		Contact:  m.GetIContact(),
	})
}

// Stored timestamps are always UTC. sqlite keeps them as text, so mixed
// offsets would not sort in time order.
func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func (m *Monitor) timestampOr(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return m.now()
}

func (m *Monitor) maxPageSize() int {
	if m.MaxPageSize > 0 {
		return m.MaxPageSize
	}
	return common.DefaultMaxPageSize
}
