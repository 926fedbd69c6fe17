package models

import "time"

// User is an account that can authenticate and place orders.
type User struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"size:255;not null" json:"name"`
	Username   string      `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Password   string      `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Privileges []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	CreatedAt  time.Time   `json:"-"`
	UpdatedAt  time.Time   `json:"-"`
}

// PrivilegeNames lists the names of the user's privileges. The Deleted
// marker on a privilege is stored but does not affect this list.
func (u User) PrivilegeNames() []string {
	names := make([]string, 0, len(u.Privileges))
	for _, p := range u.Privileges {
		names = append(names, p.Name)
	}
	return names
}
