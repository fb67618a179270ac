package services

import (
	"errors"

	"newsdesk/models"

	"gorm.io/gorm"
)

// notFound converts a missing record into models.ErrorNotFound and passes
// every other error through.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrorNotFound{Message: message}
	}
	return err
}
