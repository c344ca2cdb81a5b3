package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned instead of gorm.ErrRecordNotFound so services do
// not depend on GORM.
var ErrNotFound = errors.New("registro no encontrado")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
