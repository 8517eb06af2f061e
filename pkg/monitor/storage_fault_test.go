package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/auth"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/db"
	"liyu1981.xyz/glucova-service/pkg/models"
)

// getSqlmockMonitor builds a core over a postgres dialector backed by sqlmock.
func getSqlmockMonitor(t *testing.T) (*Monitor, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	store, err := db.Open(db.UsePostgresConnDialector(conn))
	require.NoError(t, err)

	m := &Monitor{
		Db:        *store,
		Tokens:    auth.NewTokenManager(testSecret, time.Minute),
		Passwords: auth.NewPasswordHasher(bcrypt.MinCost),
		Limiters:  NewRateLimiterStore(1, 1),
	}
	return m.WithDefaultServices(), mock
}

func TestStorageFaultsSurfaceAsInternal(t *testing.T) {
	common.SetTestLoggerNop()

	user := &models.User{ID: uuid.NewString()}

	tests := []struct {
		name string
		call func(m *Monitor) error
	}{
		{"list devices", func(m *Monitor) error {
			_, err := m.Device.ListDevices(user, "")
			return err
		}},
		{"get record", func(m *Monitor) error {
			_, err := m.Record.GetRecord(user, uuid.NewString())
			return err
		}},
		{"list contacts", func(m *Monitor) error {
			_, err := m.Contact.ListContacts(user)
			return err
		}},
		{"sign in", func(m *Monitor) error {
			_, err := m.Identity.SignIn("someone@example.com", "pw")
			return err
		}},
		{"create alert", func(m *Monitor) error {
			_, err := m.Alert.CreateAlert(&models.AlertInput{DeviceID: uuid.NewString()})
			return err
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, mock := getSqlmockMonitor(t)
			mock.ExpectQuery(".*").WillReturnError(errors.New("connection reset by peer"))

			err := tc.call(m)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInternal)
			assert.Equal(t, "Internal server error", apperrors.From(err).PublicMessage())
			assert.ErrorContains(t, err, "connection reset by peer")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorageFaultDoesNotLookLikeNotFound(t *testing.T) {
	common.SetTestLoggerNop()

	m, mock := getSqlmockMonitor(t)
	mock.ExpectQuery(".*").WillReturnError(errors.New("too many connections"))

	_, err := m.Device.GetDevice(&models.User{ID: uuid.NewString()}, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
