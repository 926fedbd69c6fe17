package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzeria/pkg/database"
)

type gadget struct {
	ID uint
}

type createGadgets struct{}

func (createGadgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&gadget{}) }
func (createGadgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&gadget{}) }

func TestRunRollbackStatus(t *testing.T) {
	saved := registry
	registry = nil
	t.Cleanup(func() { registry = saved })
	Register("20260101000000_create_gadgets", createGadgets{})

	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var out bytes.Buffer
	r := New(db, &out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&gadget{}))

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, []StatusRow{{Name: "20260101000000_create_gadgets", Ran: true, Batch: 1}}, rows)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&gadget{}))

	rows, err = r.Status()
	require.NoError(t, err)
	assert.False(t, rows[0].Ran)
	assert.Contains(t, out.String(), "Rolled back:  20260101000000_create_gadgets")
}
