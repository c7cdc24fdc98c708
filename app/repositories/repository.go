// Package repositories wraps gorm queries per aggregate. Every method takes a
// context; inside Transaction the context carries the transaction, so
// services can compose repository calls atomically.
package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type txKey struct{}

// Transaction runs fn in a database transaction. Nested calls join the
// outer transaction.
func Transaction(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction carried by ctx, or db bound to ctx.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// Repository is the CRUD base embedded by the aggregate repositories.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) Repository[T] {
	return Repository[T]{db: db}
}

// DB returns the connection for ctx.
func (r Repository[T]) DB(ctx context.Context) *gorm.DB { return Conn(ctx, r.db) }

// Query starts a query on T's table.
func (r Repository[T]) Query(ctx context.Context) *gorm.DB { return r.DB(ctx).Model(new(T)) }

func preload(q *gorm.DB, preloads []string) *gorm.DB {
	for _, p := range preloads {
		q = q.Preload(p)
	}
	return q
}

// Find loads T by primary key. Missing rows return gorm.ErrRecordNotFound.
func (r Repository[T]) Find(ctx context.Context, id uint, preloads ...string) (*T, error) {
	var out T
	if err := preload(r.DB(ctx), preloads).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// FindBy loads the first T where column = value.
func (r Repository[T]) FindBy(ctx context.Context, column string, value any, preloads ...string) (*T, error) {
	var out T
	err := preload(r.DB(ctx), preloads).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindMany loads every T whose id is in ids.
func (r Repository[T]) FindMany(ctx context.Context, ids []uint) ([]T, error) {
	var out []T
	if len(ids) == 0 {
		return out, nil
	}
	err := r.DB(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// Create inserts v together with any associations it carries.
func (r Repository[T]) Create(ctx context.Context, v *T) error {
	return r.DB(ctx).Create(v).Error
}

// Save updates every column of v; associations are left alone.
func (r Repository[T]) Save(ctx context.Context, v *T) error {
	return r.DB(ctx).Omit(clause.Associations).Save(v).Error
}

func (r Repository[T]) Delete(ctx context.Context, id uint) error {
	return r.DB(ctx).Delete(new(T), id).Error
}

// Exists reports whether a row other than exceptID has column = value.
func (r Repository[T]) Exists(ctx context.Context, column string, value any, exceptID uint) (bool, error) {
	q := r.Query(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// Count counts rows matching a where clause.
func (r Repository[T]) Count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.Query(ctx).Where(query, args...).Count(&n).Error
	return n, err
}

// All returns every row in the given order.
func (r Repository[T]) All(ctx context.Context, order string, preloads ...string) ([]T, error) {
	var out []T
	err := preload(r.DB(ctx), preloads).Order(order).Find(&out).Error
	return out, err
}

// Paginate loads one page of q, which must be built from Query.
func (r Repository[T]) Paginate(q *gorm.DB, p orm.PageParams) ([]T, orm.Pagination, error) {
	out := []T{}
	meta, err := orm.Paginate(q, p, &out)
	return out, meta, err
}

// Search applies a case-insensitive LIKE on any of columns.
func Search(q *gorm.DB, term string, columns ...string) *gorm.DB {
	if term == "" || len(columns) == 0 {
		return q
	}
	like := "%" + escapeLike(term) + "%"
	expr := ""
	args := make([]any, 0, len(columns))
	for i, c := range columns {
		if i > 0 {
			expr += " OR "
		}
		expr += "LOWER(" + c + ") LIKE LOWER(?)"
		args = append(args, like)
	}
	return q.Where("("+expr+")", args...)
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// deleteWhere deletes rows of a table that has no model, such as a pivot.
func deleteWhere(db *gorm.DB, table, where string, args ...any) error {
	return db.Exec("DELETE FROM "+table+" WHERE "+where, args...).Error
}
