package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_privileges_table", &createPrivilegesTable{})
	migration.Register("20260101000001_create_users_table", &createUsersTable{})
	migration.Register("20260101000002_create_orders_table", &createOrdersTable{})
}

type createPrivilegesTable struct{}

func (m *createPrivilegesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Privilege{})
}

func (m *createPrivilegesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Privilege{})
}

// createUsersTable also creates the user_privileges join table.
type createUsersTable struct{}

func (m *createUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("user_privileges", &models.User{})
}

type createOrdersTable struct{}

func (m *createOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *createOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Order{})
}
