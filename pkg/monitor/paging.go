package monitor

import (
	"gorm.io/gorm"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

// window resolves a page to a concrete limit and offset. Negative values are
// rejected and the limit is clamped to the configured maximum.
func (m *Monitor) window(page models.Page) (int, int, error) {
	limit, skip := common.DefaultPageLimit, 0
	if page.Limit != nil {
		limit = *page.Limit
	}
	if page.Skip != nil {
		skip = *page.Skip
	}
	if limit < 0 || skip < 0 {
		return 0, 0, apperrors.New(apperrors.CodeInvalidArgument, "limit and skip must be non-negative")
	}
	if maxSize := m.maxPageSize(); limit > maxSize {
		limit = maxSize
	}
	return limit, skip, nil
}

// newestFirst orders by timestamp, falling back to id so pages are stable.
func newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("timestamp desc").Order("id desc")
}
