package models

// Group mirrors a user's role as a named membership, kept in sync by the
// role hooks after every role change.
type Group struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"uniqueIndex;size:150;not null"`
}

var roleGroups = map[UserRole]string{
	RoleReader:     "Readers",
	RoleJournalist: "Journalists",
	RoleEditor:     "Editors",
}

// GroupForRole returns the group name matching role.
func GroupForRole(role UserRole) (string, bool) {
	name, ok := roleGroups[role]
	return name, ok
}

// RoleGroupNames returns the names of every role-backed group.
func RoleGroupNames() []string {
	names := make([]string, 0, len(Roles))
	for _, role := range Roles {
		names = append(names, roleGroups[role])
	}
	return names
}
