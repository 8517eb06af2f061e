package monitor

import (
	"errors"
	"reflect"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

// Owner scoping. A point lookup of something the caller does not own is
// NotFound, exactly as if it did not exist. A filter naming a device the
// caller does not own is Forbidden, whether or not the device exists.

func ownedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID)
	}
}

// alertsOwnedBy reaches the owner through the alert's device.
func alertsOwnedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		devices := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Device{}).
			Select("id").
			Where("user_id = ?", userID)
		return tx.Where("device_id IN (?)", devices)
	}
}

func logDenied(userID, resource, resourceID string) {
	common.CoreLogger(common.LoggerCategoryAccess).Warn("Access denied or resource absent",
		zap.String(common.LoggerFieldUserID, userID),
		zap.String("resource", resource),
		zap.String(common.LoggerFieldResourceID, resourceID),
	)
}

func storageError(category string, err error) error {
	common.CoreLogger(category).Error("Storage failure", zap.Error(err))
	return apperrors.Internal(err)
}

// findOwned loads a row of T by id, scoped to rows with user_id = userID.
func findOwned[T any](tx *gorm.DB, userID, id, what, category string) (*T, error) {
	var row T
	err := tx.Scopes(ownedBy(userID)).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logDenied(userID, what, id)
		return nil, apperrors.NotFound(what)
	}
	if err != nil {
		return nil, storageError(category, err)
	}
	return &row, nil
}

func findOwnedAlert(tx *gorm.DB, userID, alertID string) (*models.Alert, error) {
	var alert models.Alert
	err := tx.Scopes(alertsOwnedBy(userID)).First(&alert, "id = ?", alertID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logDenied(userID, "Alert", alertID)
		return nil, apperrors.NotFound("Alert")
	}
	if err != nil {
		return nil, storageError(common.LoggerCategoryAlert, err)
	}
	return &alert, nil
}

// requireOwnedDevice guards a device used as a filter argument.
func requireOwnedDevice(tx *gorm.DB, userID, deviceID string) error {
	var count int64
	err := tx.Model(&models.Device{}).
		Scopes(ownedBy(userID)).
		Where("id = ?", deviceID).
		Count(&count).Error
	if err != nil {
		return storageError(common.LoggerCategoryAccess, err)
	}
	if count == 0 {
		logDenied(userID, "Device", deviceID)
		return apperrors.Forbidden("You don't have access to this device")
	}
	return nil
}

// applyOnDelete carries out each relation's delete policy for one parent row.
func applyOnDelete(tx *gorm.DB, relations []models.Relation, parentID string) error {
	for _, rel := range relations {
		switch rel.OnDelete {
		case models.OnDeleteCascade:
			child := reflect.New(reflect.TypeOf(rel.Child).Elem()).Interface()
			if err := tx.Where(rel.ForeignKey+" = ?", parentID).Delete(child).Error; err != nil {
				return err
			}
		case models.OnDeleteRetain:
		}
	}
	return nil
}
