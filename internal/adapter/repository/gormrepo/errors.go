package gormrepo

import (
	"errors"

	"gorm.io/gorm"

	"loan-ledger/internal/domain/errs"
)

// translate maps driver-neutral gorm errors onto domain errors. The DB must
// be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func translate(err error, notFound error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict("%s already exists", what)
	default:
		return err
	}
}

func page(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

func affected(res *gorm.DB, notFound error) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
