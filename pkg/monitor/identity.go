package monitor

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/auth"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *Monitor) emailTaken(tx *gorm.DB, email, exceptUserID string) (bool, error) {
	var count int64
	q := tx.Model(&models.User{}).Where("email = ?", email)
	if exceptUserID != "" {
		q = q.Where("id <> ?", exceptUserID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *Monitor) signUp(email, password string) (*models.User, error) {
	logger := common.CoreLogger(common.LoggerCategoryIdentity)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "Email and password are required")
	}

	taken, err := m.emailTaken(m.Db.Conn, email, "")
	if err != nil {
		return nil, storageError(common.LoggerCategoryIdentity, err)
	}
	if taken {
		logger.Info("Sign up rejected, email already registered", zap.String("email", email))
		return nil, apperrors.New(apperrors.CodeDuplicateEmail, "Email already registered")
	}

	hashed, err := m.Passwords.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "Password is too long")
	}
	if err != nil {
		return nil, storageError(common.LoggerCategoryIdentity, err)
	}

	user := models.User{
		Email:          email,
		HashedPassword: hashed,
	}
	if err := m.Db.Conn.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.CodeDuplicateEmail, "Email already registered")
		}
		return nil, storageError(common.LoggerCategoryIdentity, err)
	}

	logger.Info("User signed up", zap.String(common.LoggerFieldUserID, user.ID), zap.String("email", user.Email))
	return &user, nil
}

func (m *Monitor) signIn(email, password string) (string, error) {
	logger := common.CoreLogger(common.LoggerCategoryIdentity)
	invalid := apperrors.New(apperrors.CodeInvalidCredentials, "Incorrect email or password")

	var user models.User
	err := m.Db.Conn.First(&user, "email = ?", normalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m.Passwords.Burn(password)
		logger.Info("Sign in failed, unknown email")
		return "", invalid
	}
	if err != nil {
		return "", storageError(common.LoggerCategoryIdentity, err)
	}

	if !m.Passwords.Check(user.HashedPassword, password) {
		logger.Info("Sign in failed, wrong password", zap.String(common.LoggerFieldUserID, user.ID))
		return "", invalid
	}

	token, err := m.Tokens.Issue(user.ID)
	if err != nil {
		return "", storageError(common.LoggerCategoryIdentity, err)
	}

	logger.Info("User signed in", zap.String(common.LoggerFieldUserID, user.ID))
	return token, nil
}

func (m *Monitor) authenticate(token string) (*models.User, error) {
	unauthorized := apperrors.New(apperrors.CodeUnauthorized, "Could not validate credentials")

	userID, err := m.Tokens.Verify(token)
	if err != nil {
		return nil, unauthorized
	}

	var user models.User
	err = m.Db.Conn.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// token outlived its user
		return nil, unauthorized
	}
	if err != nil {
		return nil, storageError(common.LoggerCategoryIdentity, err)
	}
	return &user, nil
}

func (m *Monitor) updateSelf(user *models.User, patch *models.UserPatch) (*models.User, error) {
	logger := common.CoreLogger(common.LoggerCategoryIdentity)

	updates := map[string]any{}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, apperrors.New(apperrors.CodeInvalidArgument, "Email can not be empty")
		}
		if email != user.Email {
			taken, err := m.emailTaken(m.Db.Conn, email, user.ID)
			if err != nil {
				return nil, storageError(common.LoggerCategoryIdentity, err)
			}
			if taken {
				return nil, apperrors.New(apperrors.CodeDuplicateEmail, "Email already registered")
			}
		}
		updates["email"] = email
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Age != nil {
		updates["age"] = *patch.Age
	}

	if len(updates) > 0 {
		err := m.Db.Conn.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.CodeDuplicateEmail, "Email already registered")
		}
		if err != nil {
			return nil, storageError(common.LoggerCategoryIdentity, err)
		}
	}

	var updated models.User
	if err := m.Db.Conn.First(&updated, "id = ?", user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, storageError(common.LoggerCategoryIdentity, err)
	}

	logger.Info("User updated", zap.String(common.LoggerFieldUserID, user.ID), zap.Int("fields", len(updates)))
	return &updated, nil
}

func (m *Monitor) deleteSelf(user *models.User) error {
	logger := common.CoreLogger(common.LoggerCategoryIdentity)

	var deviceIDs []string
	err := m.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Device{}).Scopes(ownedBy(user.ID)).Pluck("id", &deviceIDs).Error; err != nil {
			return err
		}
		for _, deviceID := range deviceIDs {
			if err := applyOnDelete(tx, models.DeviceRelations, deviceID); err != nil {
				return err
			}
		}
		if err := applyOnDelete(tx, models.UserRelations, user.ID); err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		return storageError(common.LoggerCategoryIdentity, err)
	}

	for _, deviceID := range deviceIDs {
		m.Limiters.Forget(deviceID)
	}

	logger.Info("User deleted", zap.String(common.LoggerFieldUserID, user.ID), zap.Int("devices", len(deviceIDs)))
	return nil
}

type IIdentityImpl struct {
	monitor *Monitor
}

func (ii *IIdentityImpl) SignUp(email, password string) (*models.User, error) {
	return ii.monitor.signUp(email, password)
}

func (ii *IIdentityImpl) SignIn(email, password string) (string, error) {
	return ii.monitor.signIn(email, password)
}

func (ii *IIdentityImpl) Authenticate(token string) (*models.User, error) {
	return ii.monitor.authenticate(token)
}

func (ii *IIdentityImpl) UpdateSelf(user *models.User, patch *models.UserPatch) (*models.User, error) {
	return ii.monitor.updateSelf(user, patch)
}

func (ii *IIdentityImpl) DeleteSelf(user *models.User) error {
	return ii.monitor.deleteSelf(user)
}

func (m *Monitor) GetIIdentity() IIdentity {
	return &IIdentityImpl{monitor: m}
}
