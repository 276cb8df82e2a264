package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrConflict  = errors.New("already exists")
	ErrStaleCart = errors.New("cart was modified concurrently")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

type txKey struct{}

// WithinTx runs fn in one database transaction. The transaction travels in
// the context handed to fn, and every repository method called with that
// context joins it. A nested call joins the outer transaction.
func (r *GormRepo) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (r *GormRepo) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.DB.WithContext(ctx)
}

// notFoundAsNil maps gorm's missing-row error to a nil error.
func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
