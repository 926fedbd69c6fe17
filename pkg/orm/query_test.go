package orm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzeria/pkg/database"
)

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestPaginate(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	for _, c := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, New(ctx, db).Create(&widget{Code: c}))
	}

	var page []widget
	p, err := New(ctx, db).Model(&widget{}).Order("id").Paginate(&page, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, Pagination{Page: 1, Size: 2, TotalItems: 5, TotalPages: 3}, p)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Code)
}

func TestPaginatePastLastPage(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	require.NoError(t, New(ctx, db).Create(&widget{Code: "a"}))

	for _, page := range []int{1, 92233720368547759} {
		var rows []widget
		p, err := New(ctx, db).Model(&widget{}).Order("id").Paginate(&rows, page, 100)
		require.NoError(t, err)
		assert.Empty(t, rows, "page %d", page)
		assert.Equal(t, int64(1), p.TotalItems)
		assert.Equal(t, 1, p.TotalPages)
	}
}

func TestFirstNotFound(t *testing.T) {
	db := openDB(t)

	var w widget
	err := New(context.Background(), db).Where("id = ?", 99).First(&w)
	assert.True(t, IsNotFound(err))
}

func TestDuplicateDetected(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	require.NoError(t, New(ctx, db).Create(&widget{Code: "x"}))
	err := New(ctx, db).Create(&widget{Code: "x"})
	assert.True(t, IsDuplicate(err))
	assert.False(t, IsDuplicate(errors.New("boom")))
	assert.False(t, IsDuplicate(nil))
}

func TestTransactionRollsBack(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	err := Transaction(ctx, db, func(tx *gorm.DB) error {
		require.NoError(t, New(ctx, tx).Create(&widget{Code: "y"}))
		return errors.New("abort")
	})
	require.Error(t, err)

	n, err := New(ctx, db).Model(&widget{}).Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
