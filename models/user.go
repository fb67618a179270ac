package models

import (
	"fmt"
	"strings"
	"time"
)

type UserRole string

const (
	RoleReader     UserRole = "READER"
	RoleJournalist UserRole = "JOURNALIST"
	RoleEditor     UserRole = "EDITOR"
)

// Roles lists every role a user can hold.
var Roles = []UserRole{RoleReader, RoleJournalist, RoleEditor}

func (r UserRole) Valid() bool {
	switch r {
	case RoleReader, RoleJournalist, RoleEditor:
		return true
	}
	return false
}

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (UserRole, error) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", ErrorValidation{Message: fmt.Sprintf("unknown role %q", s)}
	}
	return role, nil
}

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string    `json:"email" gorm:"size:254"`
	Password  string    `json:"-" gorm:"not null"`
	Role      UserRole  `json:"role" gorm:"size:20;not null;default:'READER'"`
	Bio       string    `json:"bio" gorm:"type:text"`
	Groups    []Group   `json:"-" gorm:"many2many:user_groups;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) HasRole(role UserRole) bool {
	return u != nil && u.Role == role
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	Bio      string   `json:"bio"`
}

func NewUserSummary(u User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Role: u.Role, Bio: u.Bio}
}
