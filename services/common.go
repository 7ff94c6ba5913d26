package services

import (
	"errors"

	"admin-api/apperrors"

	"gorm.io/gorm"
)

// notFoundOr maps a repository error to NotFound when the record is missing,
// otherwise to a store failure.
func notFoundOr(err error, msg string) *apperrors.Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(msg)
	}
	return apperrors.Store(err)
}

// offsetFor converts 1-based pagination into a row offset.
func offsetFor(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
