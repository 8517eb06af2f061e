package monitor

import (
	"go.uber.org/zap"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

func (m *Monitor) createRecord(user *models.User, input *models.RecordInput) (*models.Record, error) {
	logger := common.CoreLogger(common.LoggerCategoryRecord)

	if input.DeviceID != nil {
		// the reading's device must belong to the same user at creation time
		if _, err := m.getDevice(user, *input.DeviceID); err != nil {
			return nil, err
		}
	}

	record := models.Record{
		Level:       input.Level,
		Description: input.Description,
		Timestamp:   m.timestampOr(input.Timestamp),
		UserID:      user.ID,
		DeviceID:    input.DeviceID,
	}

	logger.Info("Record received", zap.String(common.LoggerFieldUserID, user.ID), zap.Int("level", record.Level))

	if err := m.Db.Conn.Create(&record).Error; err != nil {
		return nil, storageError(common.LoggerCategoryRecord, err)
	}

	logger.Info("Record saved", zap.String(common.LoggerFieldUserID, user.ID), zap.Reflect("record", record))
	return &record, nil
}

func (m *Monitor) listRecords(user *models.User, page models.Page) ([]models.Record, error) {
	limit, skip, err := m.window(page)
	if err != nil {
		return nil, err
	}

	records := []models.Record{}
	err = m.Db.Conn.
		Scopes(ownedBy(user.ID), newestFirst).
		Limit(limit).
		Offset(skip).
		Find(&records).Error
	if err != nil {
		return nil, storageError(common.LoggerCategoryRecord, err)
	}
	return records, nil
}

func (m *Monitor) listDeviceRecords(user *models.User, deviceID string, page models.Page) ([]models.Record, error) {
	limit, skip, err := m.window(page)
	if err != nil {
		return nil, err
	}
	if _, err := m.getDevice(user, deviceID); err != nil {
		return nil, err
	}

	records := []models.Record{}
	err = m.Db.Conn.
		Scopes(ownedBy(user.ID), newestFirst).
		Where("device_id = ?", deviceID).
		Limit(limit).
		Offset(skip).
		Find(&records).Error
	if err != nil {
		return nil, storageError(common.LoggerCategoryRecord, err)
	}
	return records, nil
}

func (m *Monitor) getRecord(user *models.User, recordID string) (*models.Record, error) {
	return findOwned[models.Record](m.Db.Conn, user.ID, recordID, "Record", common.LoggerCategoryRecord)
}

func (m *Monitor) deleteRecord(user *models.User, recordID string) error {
	logger := common.CoreLogger(common.LoggerCategoryRecord)

	res := m.Db.Conn.Scopes(ownedBy(user.ID)).Delete(&models.Record{}, "id = ?", recordID)
	if res.Error != nil {
		return storageError(common.LoggerCategoryRecord, res.Error)
	}
	if res.RowsAffected == 0 {
		logDenied(user.ID, "Record", recordID)
		return apperrors.NotFound("Record")
	}

	logger.Info("Record deleted", zap.String(common.LoggerFieldUserID, user.ID), zap.String(common.LoggerFieldResourceID, recordID))
	return nil
}

type IRecordImpl struct {
	monitor *Monitor
}

func (ir *IRecordImpl) CreateRecord(user *models.User, input *models.RecordInput) (*models.Record, error) {
	return ir.monitor.createRecord(user, input)
}

func (ir *IRecordImpl) ListRecords(user *models.User, page models.Page) ([]models.Record, error) {
	return ir.monitor.listRecords(user, page)
}

func (ir *IRecordImpl) ListDeviceRecords(user *models.User, deviceID string, page models.Page) ([]models.Record, error) {
	return ir.monitor.listDeviceRecords(user, deviceID, page)
}

func (ir *IRecordImpl) GetRecord(user *models.User, recordID string) (*models.Record, error) {
	return ir.monitor.getRecord(user, recordID)
}

func (ir *IRecordImpl) DeleteRecord(user *models.User, recordID string) error {
	return ir.monitor.deleteRecord(user, recordID)
}

func (m *Monitor) GetIRecord() IRecord {
	return &IRecordImpl{monitor: m}
}
