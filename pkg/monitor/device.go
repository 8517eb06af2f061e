package monitor

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

func invalidDeviceStatus() error {
	return apperrors.InvalidChoice("status", models.EnumStrings(models.DeviceStatuses))
}

func (m *Monitor) createDevice(user *models.User, timestamp *time.Time) (*models.Device, error) {
	logger := common.CoreLogger(common.LoggerCategoryDevice)

	device := models.Device{
		Status:    models.DeviceStatusActive,
		Timestamp: m.timestampOr(timestamp),
		UserID:    user.ID,
	}

	if err := m.Db.Conn.Create(&device).Error; err != nil {
		return nil, storageError(common.LoggerCategoryDevice, err)
	}

	logger.Info("Device registered", zap.String(common.LoggerFieldUserID, user.ID), zap.Reflect("device", device))
	return &device, nil
}

func (m *Monitor) listDevices(user *models.User, status string) ([]models.Device, error) {
	q := m.Db.Conn.Scopes(ownedBy(user.ID))
	if status != "" {
		parsed, ok := models.ParseDeviceStatus(status)
		if !ok {
			return nil, invalidDeviceStatus()
		}
		q = q.Where("status = ?", parsed)
	}

	devices := []models.Device{}
	if err := q.Scopes(newestFirst).Find(&devices).Error; err != nil {
		return nil, storageError(common.LoggerCategoryDevice, err)
	}
	return devices, nil
}

func (m *Monitor) getDevice(user *models.User, deviceID string) (*models.Device, error) {
	return findOwned[models.Device](m.Db.Conn, user.ID, deviceID, "Device", common.LoggerCategoryDevice)
}

func (m *Monitor) updateDevice(user *models.User, deviceID string, patch *models.DevicePatch) (*models.Device, error) {
	logger := common.CoreLogger(common.LoggerCategoryDevice)

	device, err := findOwned[models.Device](m.Db.Conn, user.ID, deviceID, "Device", common.LoggerCategoryDevice)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		status, ok := models.ParseDeviceStatus(*patch.Status)
		if !ok {
			return nil, invalidDeviceStatus()
		}
		device.Status = status
	}
	// the timestamp is a last-updated marker, so it moves even when nothing else does
	device.Timestamp = m.timestampOr(patch.Timestamp)

	err = m.Db.Conn.Model(&models.Device{}).
		Where("id = ?", device.ID).
		Updates(map[string]any{"status": device.Status, "timestamp": device.Timestamp}).Error
	if err != nil {
		return nil, storageError(common.LoggerCategoryDevice, err)
	}

	logger.Info("Device updated", zap.String(common.LoggerFieldUserID, user.ID), zap.Reflect("device", device))
	return device, nil
}

func (m *Monitor) deleteDevice(user *models.User, deviceID string) error {
	logger := common.CoreLogger(common.LoggerCategoryDevice)

	err := m.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[models.Device](tx, user.ID, deviceID, "Device", common.LoggerCategoryDevice); err != nil {
			return err
		}
		if err := applyOnDelete(tx, models.DeviceRelations, deviceID); err != nil {
			return storageError(common.LoggerCategoryDevice, err)
		}
		if err := tx.Delete(&models.Device{}, "id = ?", deviceID).Error; err != nil {
			return storageError(common.LoggerCategoryDevice, err)
		}
		return nil
	})
	if err != nil {
		return apperrors.From(err)
	}

	m.Limiters.Forget(deviceID)

	logger.Info("Device deleted", zap.String(common.LoggerFieldUserID, user.ID), zap.String(common.LoggerFieldResourceID, deviceID))
	return nil
}

func (m *Monitor) setIngestLimit(user *models.User, deviceID string, perSecond float64, burst int) error {
	logger := common.CoreLogger(common.LoggerCategoryDevice)

	if perSecond < 0 || burst < 0 {
		return apperrors.New(apperrors.CodeInvalidArgument, "rate and burst must be non-negative")
	}
	if _, err := m.getDevice(user, deviceID); err != nil {
		return err
	}
	if m.Limiters == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "Alert ingest limiting is disabled")
	}

	m.Limiters.SetLimiter(deviceID, rate.Limit(perSecond), burst)

	logger.Info("Device ingest limit set",
		zap.String(common.LoggerFieldUserID, user.ID),
		zap.String(common.LoggerFieldResourceID, deviceID),
		zap.Float64("rate", perSecond),
		zap.Int("burst", burst),
	)
	return nil
}

type IDeviceImpl struct {
	monitor *Monitor
}

func (id *IDeviceImpl) CreateDevice(user *models.User, timestamp *time.Time) (*models.Device, error) {
	return id.monitor.createDevice(user, timestamp)
}

func (id *IDeviceImpl) ListDevices(user *models.User, status string) ([]models.Device, error) {
	return id.monitor.listDevices(user, status)
}

func (id *IDeviceImpl) GetDevice(user *models.User, deviceID string) (*models.Device, error) {
	return id.monitor.getDevice(user, deviceID)
}

func (id *IDeviceImpl) UpdateDevice(user *models.User, deviceID string, patch *models.DevicePatch) (*models.Device, error) {
	return id.monitor.updateDevice(user, deviceID, patch)
}

func (id *IDeviceImpl) DeleteDevice(user *models.User, deviceID string) error {
	return id.monitor.deleteDevice(user, deviceID)
}

func (id *IDeviceImpl) SetIngestLimit(user *models.User, deviceID string, perSecond float64, burst int) error {
	return id.monitor.setIngestLimit(user, deviceID, perSecond, burst)
}

func (m *Monitor) GetIDevice() IDevice {
	return &IDeviceImpl{monitor: m}
}
