package models

import "time"

// Order is a single pizza tied to a table number. Table numbers are unique
// across all stored orders regardless of status.
type Order struct {
	ID          uint        `gorm:"primaryKey"`
	Flavor      string      `gorm:"size:255"`
	Crust       string      `gorm:"size:255"`
	Size        string      `gorm:"size:255"`
	OrderType   string      `gorm:"size:20;not null;default:DINE-IN"`
	OrderStatus OrderStatus `gorm:"not null;default:1"`
	Timestamp   time.Time   `gorm:"not null"`
	TableNo     int         `gorm:"uniqueIndex;not null"`
	UserID      *uint       `gorm:"index"`
	User        *User       `gorm:"constraint:OnDelete:SET NULL;"`
}
