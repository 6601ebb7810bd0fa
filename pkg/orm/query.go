// Package orm is a thin chainable wrapper over the global gorm handle used by
// the repositories. Every chain starts from DB(ctx) so queries carry the
// request context.
package orm

import (
	"context"
	"errors"
	"time"

	"github.com/shopfront/storefront/pkg/cache"
	"github.com/shopfront/storefront/pkg/database"
	"gorm.io/gorm"
)

type Query struct {
	db *gorm.DB
}

// DB starts a query on the global connection bound to ctx.
func DB(ctx context.Context) *Query {
	return &Query{db: database.DB.WithContext(ctx)}
}

// Gorm exposes the underlying handle for the rare query the wrapper lacks.
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Scopes(fns ...func(*gorm.DB) *gorm.DB) *Query {
	return &Query{db: q.db.Scopes(fns...)}
}

func (q *Query) Preload(assoc string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(assoc, args...)}
}

func (q *Query) Select(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Select(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Exists reports whether the chain matches at least one row.
func (q *Query) Exists() (bool, error) {
	n, err := q.Count()
	return n > 0, err
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Delete removes the matched rows and returns how many went.
func (q *Query) Delete(v interface{}) (int64, error) {
	res := q.db.Delete(v)
	return res.RowsAffected, res.Error
}

// Cache reads dest from the cache under key, falling back to the query and
// populating the cache on a miss. Cache write failures are not query errors.
func (q *Query) Cache(ctx context.Context, key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(ctx, key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	_ = cache.Set(ctx, key, dest, ttl)
	return nil
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
