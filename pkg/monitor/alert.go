package monitor

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

func invalidAlertLevel() error {
	return apperrors.InvalidChoice("level", models.EnumStrings(models.AlertLevels))
}

// createAlert is the unauthenticated device entry point. The device only has
// to exist; ownership is inherited from it.
func (m *Monitor) createAlert(input *models.AlertInput) (*models.Alert, error) {
	logger := common.CoreLogger(common.LoggerCategoryAlert)

	level := models.AlertLevelCritical
	if input.Level != nil && strings.TrimSpace(*input.Level) != "" {
		parsed, ok := models.ParseAlertLevel(*input.Level)
		if !ok {
			return nil, invalidAlertLevel()
		}
		level = parsed
	}

	message := common.DefaultAlertMessage
	if input.Message != nil && strings.TrimSpace(*input.Message) != "" {
		message = *input.Message
	}

	var device models.Device
	err := m.Db.Conn.First(&device, "id = ?", input.DeviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("Alert for unknown device", zap.String(common.LoggerFieldResourceID, input.DeviceID))
		return nil, apperrors.NotFound("Device")
	}
	if err != nil {
		return nil, storageError(common.LoggerCategoryAlert, err)
	}

	// limiter entries only ever exist for real devices
	if !m.Limiters.Allow(device.ID) {
		logger.Warn("Alert rate limited", zap.String(common.LoggerFieldResourceID, device.ID))
		return nil, apperrors.New(apperrors.CodeRateLimited, "Too many alerts for this device")
	}

	alert := models.Alert{
		Message:   &message,
		Level:     level,
		Timestamp: m.now(),
		DeviceID:  device.ID,
	}

	logger.Info("Alert found", zap.Reflect("alert", alert))

	if err := m.Db.Conn.Create(&alert).Error; err != nil {
		return nil, storageError(common.LoggerCategoryAlert, err)
	}

	logger.Info("Alert saved", zap.Reflect("alert", alert))
	return &alert, nil
}

func (m *Monitor) listAlerts(user *models.User, filter *models.AlertFilter) ([]models.Alert, error) {
	var level models.AlertLevel
	if filter.Level != "" {
		parsed, ok := models.ParseAlertLevel(filter.Level)
		if !ok {
			return nil, invalidAlertLevel()
		}
		level = parsed
	}

	limit, skip, err := m.window(filter.Page)
	if err != nil {
		return nil, err
	}

	// checked before anything else touches data so a foreign device id is
	// refused even for a caller with no devices at all
	if filter.DeviceID != "" {
		if err := requireOwnedDevice(m.Db.Conn, user.ID, filter.DeviceID); err != nil {
			return nil, err
		}
	}

	q := m.Db.Conn.Scopes(alertsOwnedBy(user.ID))
	if filter.DeviceID != "" {
		q = q.Where("device_id = ?", filter.DeviceID)
	}
	if level != "" {
		q = q.Where("level = ?", level)
	}

	alerts := []models.Alert{}
	if err := q.Scopes(newestFirst).Limit(limit).Offset(skip).Find(&alerts).Error; err != nil {
		return nil, storageError(common.LoggerCategoryAlert, err)
	}
	return alerts, nil
}

func (m *Monitor) getAlert(user *models.User, alertID string) (*models.Alert, error) {
	return findOwnedAlert(m.Db.Conn, user.ID, alertID)
}

func (m *Monitor) deleteAlert(user *models.User, alertID string) error {
	logger := common.CoreLogger(common.LoggerCategoryAlert)

	err := m.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedAlert(tx, user.ID, alertID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Alert{}, "id = ?", alertID).Error; err != nil {
			return storageError(common.LoggerCategoryAlert, err)
		}
		return nil
	})
	if err != nil {
		return apperrors.From(err)
	}

	logger.Info("Alert deleted", zap.String(common.LoggerFieldUserID, user.ID), zap.String(common.LoggerFieldResourceID, alertID))
	return nil
}

type IAlertImpl struct {
	monitor *Monitor
}

func (ia *IAlertImpl) CreateAlert(input *models.AlertInput) (*models.Alert, error) {
	return ia.monitor.createAlert(input)
}

func (ia *IAlertImpl) ListAlerts(user *models.User, filter *models.AlertFilter) ([]models.Alert, error) {
	return ia.monitor.listAlerts(user, filter)
}

func (ia *IAlertImpl) GetAlert(user *models.User, alertID string) (*models.Alert, error) {
	return ia.monitor.getAlert(user, alertID)
}

func (ia *IAlertImpl) DeleteAlert(user *models.User, alertID string) error {
	return ia.monitor.deleteAlert(user, alertID)
}

func (m *Monitor) GetIAlert() IAlert {
	return &IAlertImpl{monitor: m}
}
