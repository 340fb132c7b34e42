package persistence

import (
	"errors"

	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm sentinel errors onto domain categories.
// Unique violations arrive as gorm.ErrDuplicatedKey because connections are
// opened with TranslateError.
func translateError(err error, duplicate *shared.DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if duplicate == nil {
			duplicate = shared.ErrDuplicateIdentifier
		}
		return duplicate.WithCause(err)
	default:
		return err
	}
}

// paginate applies the filter's offset and limit
func paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	filter = filter.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(filter.Offset()).Limit(filter.PageSize)
	}
}

func errorIsForeignKey(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
