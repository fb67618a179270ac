package cli

import (
	"context"
	"fmt"

	"newsdesk/models"
	"newsdesk/services"

	"github.com/spf13/cobra"
)

func newUserCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users"},
		Short:   "Provision users and roles",
	}
	cmd.AddCommand(
		newUserCreateCommand(open),
		newAssignRoleCommand(open),
	)
	return cmd
}

func newUserCreateCommand(open Opener) *cobra.Command {
	var req services.CreateUserRequest
	var role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user with any role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := models.ParseRole(role)
			if err != nil {
				return err
			}
			req.Role = parsed
			return withEnv(cmd, open, func(ctx context.Context, env *Env) error {
				user, err := env.Admin.CreateUser(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %d %s (%s)\n", user.ID, user.Username, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&req.Bio, "bio", "", "short biography")
	cmd.Flags().StringVar(&role, "role", string(models.RoleReader), "READER, JOURNALIST or EDITOR")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAssignRoleCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "assign-role <username> <role>",
		Short: "Change a user's role and resync their group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := models.ParseRole(args[1])
			if err != nil {
				return err
			}
			return withEnv(cmd, open, func(ctx context.Context, env *Env) error {
				user, err := env.Admin.AssignRole(ctx, args[0], role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
				return nil
			})
		},
	}
}
