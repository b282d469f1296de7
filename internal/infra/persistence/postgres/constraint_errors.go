package postgres

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// isUniqueConstraintViolation reports whether err is a duplicate key error.
// TranslateError is enabled on the GORM config, so driver errors arrive as
// gorm.ErrDuplicatedKey regardless of the underlying dialect.
func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
