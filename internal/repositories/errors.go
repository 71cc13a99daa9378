package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by non-gorm implementations for missing rows.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned by non-gorm implementations for uniqueness violations.
	ErrDuplicateKey = errors.New("duplicate key")
)

// IsNotFoundError reports whether err means the requested row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a store-level uniqueness violation.
// The gorm connection is opened with TranslateError so unique-index conflicts
// surface as gorm.ErrDuplicatedKey.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
