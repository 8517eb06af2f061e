package monitor

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
	_ "liyu1981.xyz/glucova-service/pkg/testing"
)

func TestCreateDeviceThenList(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _ := GetMockMonitorWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	user := newTestUser(t, m)
	device := newTestDevice(t, m, user)
	assert.Equal(t, models.DeviceStatusActive, device.Status)
	assert.Equal(t, user.ID, device.UserID)

	devices, err := m.Device.ListDevices(user, "")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, device.ID, devices[0].ID)
	assert.Equal(t, models.DeviceStatusActive, devices[0].Status)
}

func TestCreateDeviceHonorsTimestamp(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _ := GetMockMonitorWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	user := newTestUser(t, m)
	ts := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	device, err := m.Device.CreateDevice(user, &ts)
	require.NoError(t, err)
	assert.True(t, ts.Equal(device.Timestamp))
}

func TestListDevicesOrdersAcrossOffsets(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _ := GetMockMonitorWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	user := newTestUser(t, m)
	newer := time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("UTC+8", 8*60*60))

	newest, err := m.Device.CreateDevice(user, &newer)
	require.NoError(t, err)
	created, err := m.Device.CreateDevice(user, &older)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.Timestamp.Location())

	all, err := m.Device.ListDevices(user, "")
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID, created.ID},
		common.Mapper(all, func(d models.Device) string { return d.ID }))

	// moving the newest device back behind the other one through an offset patch
	earlier := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("UTC+8", 8*60*60))
	_, err = m.Device.UpdateDevice(user, newest.ID, &models.DevicePatch{Timestamp: &earlier})
	require.NoError(t, err)

	all, err = m.Device.ListDevices(user, "")
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID, newest.ID},
		common.Mapper(all, func(d models.Device) string { return d.ID }))
}

func TestListDevicesFilterAndOrder(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _ := GetMockMonitorWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	user := newTestUser(t, m)
	first := newTestDevice(t, m, user)
	second := newTestDevice(t, m, user)
	third := newTestDevice(t, m, user)

	_, err := m.Device.UpdateDevice(user, first.ID, &models.DevicePatch{Status: ptr("INACTIVE")})
	require.NoError(t, err)

	all, err := m.Device.ListDevices(user, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	// first was touched last by the update, so it is newest
	assert.Equal(t, []string{first.ID, third.ID, second.ID},
		common.Mapper(all, func(d models.Device) string { return d.ID }))

	active, err := m.Device.ListDevices(user, "active")
	require.NoError(t, err)
	assert.Len(t, active, 2)

	inactive, err := m.Device.ListDevices(user, "Inactive")
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, first.ID, inactive[0].ID)

	_, err = m.Device.ListDevices(user, "broken")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Equal(t, "Invalid status. Must be one of: active, inactive", apperrors.From(err).Message)
}

func TestUpdateDevice(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _ := GetMockMonitorWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	user := newTestUser(t, m)
	device := newTestDevice(t, m, user)

	// no fields still refreshes the timestamp
	touched, err := m.Device.UpdateDevice(user, device.ID, &models.DevicePatch{})
	require.NoError(t, err)
	assert.True(t, touched.Timestamp.After(device.Timestamp))
	assert.Equal(t, models.DeviceStatusActive, touched.Status)

	ts := time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC)
	updated, err := m.Device.UpdateDevice(user, device.ID, &models.DevicePatch{Status: ptr("inactive"), Timestamp: &ts})
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusInactive, updated.Status)
	assert.True(t, ts.Equal(updated.Timestamp))

	stored, err := m.Device.GetDevice(user, device.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusInactive, stored.Status)
	assert.True(t, ts.Equal(stored.Timestamp))

	_, err = m.Device.UpdateDevice(user, device.ID, &models.DevicePatch{Status: ptr("asleep")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestDeviceCrossUserIsolation(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _ := GetMockMonitorWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	owner := newTestUser(t, m)
	intruder := newTestUser(t, m)
	device := newTestDevice(t, m, owner)

	devices, err := m.Device.ListDevices(intruder, "")
	require.NoError(t, err)
	assert.Empty(t, devices)

	_, err = m.Device.GetDevice(intruder, device.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = m.Device.UpdateDevice(intruder, device.ID, &models.DevicePatch{Status: ptr("inactive")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = m.Device.DeleteDevice(intruder, device.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = m.Device.SetIngestLimit(intruder, device.ID, 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// same answer as for an id that never existed
	_, err = m.Device.GetDevice(intruder, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	stored, err := m.Device.GetDevice(owner, device.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusActive, stored.Status)
}

func TestDeleteDeviceCascadesAlertsKeepsRecords(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _ := GetMockMonitorWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	user := newTestUser(t, m)
	device := newTestDevice(t, m, user)

	record, err := m.Record.CreateRecord(user, &models.RecordInput{Level: 250, DeviceID: &device.ID})
	require.NoError(t, err)
	for range 3 {
		_, err := m.Alert.CreateAlert(&models.AlertInput{DeviceID: device.ID})
		require.NoError(t, err)
	}

	require.NoError(t, m.Device.DeleteDevice(user, device.ID))

	var alerts int64
	require.NoError(t, m.Db.Conn.Model(&models.Alert{}).Where("device_id = ?", device.ID).Count(&alerts).Error)
	assert.Zero(t, alerts)

	kept, err := m.Record.GetRecord(user, record.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.DeviceID)
	assert.Equal(t, device.ID, *kept.DeviceID)

	_, err = m.Device.GetDevice(user, device.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = m.Device.DeleteDevice(user, device.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetIngestLimit(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _ := GetMockMonitorWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	user := newTestUser(t, m)
	device := newTestDevice(t, m, user)

	require.NoError(t, m.Device.SetIngestLimit(user, device.ID, 0, 1))

	_, err := m.Alert.CreateAlert(&models.AlertInput{DeviceID: device.ID})
	require.NoError(t, err)
	_, err = m.Alert.CreateAlert(&models.AlertInput{DeviceID: device.ID})
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)

	err = m.Device.SetIngestLimit(user, device.ID, -1, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	// deleting the device drops its limiter
	require.NoError(t, m.Device.DeleteDevice(user, device.ID))
	limiter := m.Limiters.GetLimiter(device.ID)
	rate, burst := m.Limiters.Defaults()
	assert.Equal(t, rate, limiter.Limit())
	assert.Equal(t, burst, limiter.Burst())
}
