package services

import (
	"context"
	"fmt"

	"newsdesk/models"
	"newsdesk/repositories"
)

// RoleHook runs synchronously after a user's role has been stored. previous
// is empty for newly created users.
type RoleHook func(ctx context.Context, user *models.User, previous models.UserRole) error

// NewRoleGroupSync returns a hook that leaves the user in exactly the group
// matching their role and in no other role group.
func NewRoleGroupSync(users repositories.UserRepository) RoleHook {
	return func(ctx context.Context, user *models.User, _ models.UserRole) error {
		target, ok := models.GroupForRole(user.Role)
		if !ok {
			return nil
		}

		group, err := users.FirstOrCreateGroup(ctx, target)
		if err != nil {
			return fmt.Errorf("role group sync: ensure group %q: %w", target, err)
		}

		current, err := users.ListGroups(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("role group sync: list groups: %w", err)
		}

		roleGroups := make(map[string]bool)
		for _, name := range models.RoleGroupNames() {
			roleGroups[name] = true
		}

		var stale []models.Group
		member := false
		for _, g := range current {
			switch {
			case g.Name == target:
				member = true
			case roleGroups[g.Name]:
				stale = append(stale, g)
			}
		}

		if err := users.RemoveFromGroups(ctx, user.ID, stale); err != nil {
			return fmt.Errorf("role group sync: remove stale groups: %w", err)
		}
		if !member {
			if err := users.AddToGroup(ctx, user.ID, group); err != nil {
				return fmt.Errorf("role group sync: add to %q: %w", target, err)
			}
		}
		return nil
	}
}

func runRoleHooks(ctx context.Context, hooks []RoleHook, user *models.User, previous models.UserRole) error {
	for _, hook := range hooks {
		if err := hook(ctx, user, previous); err != nil {
			return err
		}
	}
	return nil
}
