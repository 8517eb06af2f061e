package monitor

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

// Contact emails are unique across all users, not per user.
func (m *Monitor) contactEmailTaken(email, exceptContactID string) (bool, error) {
	var count int64
	q := m.Db.Conn.Model(&models.Contact{}).Where("email = ?", email)
	if exceptContactID != "" {
		q = q.Where("id <> ?", exceptContactID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func duplicateContactEmail() error {
	return apperrors.New(apperrors.CodeDuplicateEmail, "Contact email already registered")
}

func (m *Monitor) listContacts(user *models.User) ([]models.Contact, error) {
	contacts := []models.Contact{}
	if err := m.Db.Conn.Scopes(ownedBy(user.ID)).Order("email asc").Find(&contacts).Error; err != nil {
		return nil, storageError(common.LoggerCategoryContact, err)
	}
	return contacts, nil
}

func (m *Monitor) createContact(user *models.User, input *models.ContactInput) (*models.Contact, error) {
	logger := common.CoreLogger(common.LoggerCategoryContact)

	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "Email is required")
	}

	taken, err := m.contactEmailTaken(email, "")
	if err != nil {
		return nil, storageError(common.LoggerCategoryContact, err)
	}
	if taken {
		return nil, duplicateContactEmail()
	}

	contact := models.Contact{
		Email:  email,
		Name:   input.Name,
		Phone:  input.Phone,
		UserID: user.ID,
	}
	if err := m.Db.Conn.Create(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateContactEmail()
		}
		return nil, storageError(common.LoggerCategoryContact, err)
	}

	logger.Info("Contact saved", zap.String(common.LoggerFieldUserID, user.ID), zap.String(common.LoggerFieldResourceID, contact.ID))
	return &contact, nil
}

func (m *Monitor) updateContact(user *models.User, contactID string, patch *models.ContactPatch) (*models.Contact, error) {
	logger := common.CoreLogger(common.LoggerCategoryContact)

	contact, err := findOwned[models.Contact](m.Db.Conn, user.ID, contactID, "Contact", common.LoggerCategoryContact)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, apperrors.New(apperrors.CodeInvalidArgument, "Email can not be empty")
		}
		if email != contact.Email {
			taken, err := m.contactEmailTaken(email, contact.ID)
			if err != nil {
				return nil, storageError(common.LoggerCategoryContact, err)
			}
			if taken {
				return nil, duplicateContactEmail()
			}
		}
		updates["email"] = email
		contact.Email = email
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
		contact.Name = patch.Name
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
		contact.Phone = patch.Phone
	}

	if len(updates) > 0 {
		err := m.Db.Conn.Model(&models.Contact{}).Where("id = ?", contact.ID).Updates(updates).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateContactEmail()
		}
		if err != nil {
			return nil, storageError(common.LoggerCategoryContact, err)
		}
	}

	logger.Info("Contact updated", zap.String(common.LoggerFieldUserID, user.ID), zap.String(common.LoggerFieldResourceID, contact.ID))
	return contact, nil
}

func (m *Monitor) deleteContact(user *models.User, contactID string) error {
	logger := common.CoreLogger(common.LoggerCategoryContact)

	res := m.Db.Conn.Scopes(ownedBy(user.ID)).Delete(&models.Contact{}, "id = ?", contactID)
	if res.Error != nil {
		return storageError(common.LoggerCategoryContact, res.Error)
	}
	if res.RowsAffected == 0 {
		logDenied(user.ID, "Contact", contactID)
		return apperrors.NotFound("Contact")
	}

	logger.Info("Contact deleted", zap.String(common.LoggerFieldUserID, user.ID), zap.String(common.LoggerFieldResourceID, contactID))
	return nil
}

type IContactImpl struct {
	monitor *Monitor
}

func (ic *IContactImpl) ListContacts(user *models.User) ([]models.Contact, error) {
	return ic.monitor.listContacts(user)
}

func (ic *IContactImpl) CreateContact(user *models.User, input *models.ContactInput) (*models.Contact, error) {
	return ic.monitor.createContact(user, input)
}

func (ic *IContactImpl) UpdateContact(user *models.User, contactID string, patch *models.ContactPatch) (*models.Contact, error) {
	return ic.monitor.updateContact(user, contactID, patch)
}

func (ic *IContactImpl) DeleteContact(user *models.User, contactID string) error {
	return ic.monitor.deleteContact(user, contactID)
}

func (m *Monitor) GetIContact() IContact {
	return &IContactImpl{monitor: m}
}
