// Package orm is a thin, instrumented query builder over *gorm.DB used by
// the repositories. Every terminal call records its latency in
// metrics.DBQueryDuration and honours the caller's context.
package orm

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzeria/pkg/metrics"
)

// ErrNotFound is returned by First when no row matches.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = gorm.ErrDuplicatedKey

// IsNotFound reports whether err means "no row".
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsDuplicate reports whether err is a unique-index violation. Drivers
// without an error translator are matched on their message.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

var duplicateMarkers = []string{
	"unique constraint failed", // sqlite
	"duplicate key value",      // postgres
	"duplicate entry",          // mysql
	"cannot insert duplicate key",
}

// Pagination describes one page of a larger result.
type Pagination struct {
	Page       int   `json:"currentPage"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

type Query struct {
	db *gorm.DB
}

// New starts a query bound to ctx.
func New(ctx context.Context, db *gorm.DB) *Query {
	return &Query{db: db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(assoc string) *Query {
	return &Query{db: q.db.Preload(assoc)}
}

// session isolates each finisher so one Query can run several of them.
func (q *Query) session() *gorm.DB {
	return q.db.Session(&gorm.Session{})
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.session().Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.session().First(dest).Error
}

func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	err := q.session().Count(&n).Error
	return n, err
}

// Exists reports whether the current model/filters match any row.
func (q *Query) Exists() (bool, error) {
	n, err := q.Count()
	return n > 0, err
}

func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.session().Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.session().Save(v).Error
}

func (q *Query) Delete(v interface{}) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return q.session().Delete(v).Error
}

// Paginate loads page (0-based) of size rows into dest and reports totals.
func (q *Query) Paginate(dest interface{}, page, size int) (Pagination, error) {
	p := Pagination{Page: page, Size: size}

	total, err := q.Count()
	if err != nil {
		return p, err
	}
	p.TotalItems = total
	if size > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(size)))
	}

	// Pages past the end hold no rows; page*size may also overflow there.
	if size <= 0 || page < 0 || page >= p.TotalPages {
		return p, nil
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	err = q.session().Offset(page * size).Limit(size).Find(dest).Error
	return p, err
}

// Transaction runs fn inside a database transaction bound to ctx.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
