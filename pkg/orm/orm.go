// Package orm holds the query helpers shared by every repository:
// offset/limit pagination and read-through caching of query results.
package orm

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/cache"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// PageParams is the page/per_page pair taken from the query string.
type PageParams struct {
	Page    int
	PerPage int
}

// Normalize clamps page to >= 1 and per_page to 1..MaxPerPage.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p PageParams) Offset() int { return (p.Page - 1) * p.PerPage }

// Pagination is the meta block returned alongside a page of results.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// Paginate counts the rows matched by q, then loads the requested page into
// dest. q should carry its Model, filters and ordering.
func Paginate(q *gorm.DB, p PageParams, dest interface{}) (Pagination, error) {
	p = p.Normalize()

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}
	if err := q.Session(&gorm.Session{}).Offset(p.Offset()).Limit(p.PerPage).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	last := int(math.Ceil(float64(total) / float64(p.PerPage)))
	if last < 1 {
		last = 1
	}
	return Pagination{CurrentPage: p.Page, PerPage: p.PerPage, Total: total, LastPage: last}, nil
}

// Remember returns the cached value under key, or runs load and caches its
// result for ttl. Cache failures fall through to load.
func Remember[T any](ctx context.Context, store cache.Store, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var out T
	if store != nil {
		if hit, err := store.Get(ctx, key, &out); err == nil && hit {
			return out, nil
		}
	}

	out, err := load()
	if err != nil {
		return out, err
	}
	if store != nil {
		_ = store.Set(ctx, key, out, ttl)
	}
	return out, nil
}
