package models

import "time"

// Privilege names an authorization scope carried in access tokens.
type Privilege struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Deleted    bool       `gorm:"not null;default:false" json:"deleted"`
	DeleteTime *time.Time `json:"deleteTime,omitempty"`
}

const (
	PrivilegeOrderCreate = "ORDER_CREATE"
	PrivilegeOrderRead   = "ORDER_READ"
	PrivilegeOrderCancel = "ORDER_CANCEL"
	PrivilegeOrderDelete = "ORDER_DELETE"
)

// DefaultPrivileges are seeded on a fresh database.
var DefaultPrivileges = []string{
	PrivilegeOrderCreate,
	PrivilegeOrderRead,
	PrivilegeOrderCancel,
	PrivilegeOrderDelete,
}
