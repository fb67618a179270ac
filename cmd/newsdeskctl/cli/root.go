// Package cli implements the newsdeskctl administration commands.
package cli

import (
	"context"
	"fmt"

	"newsdesk/services"

	"github.com/spf13/cobra"
)

// Env is what a command needs to run against the store.
type Env struct {
	Admin   services.AdminService
	Migrate func(ctx context.Context) error
}

// Opener connects to the store. The returned func releases it.
type Opener func(ctx context.Context) (*Env, func(), error)

// NewRootCommand builds the command tree. open is called once per command
// invocation, after flag parsing.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "newsdeskctl",
		Short: "newsdesk administration CLI",
		Long: `newsdeskctl performs the administrative operations that are not exposed
over HTTP: managing publishers, provisioning users with any role and
migrating the schema.

Example usage:
  newsdeskctl migrate
  newsdeskctl publisher create --name "Daily Planet"
  newsdeskctl user create --username clark --password secret123 --role JOURNALIST
  newsdeskctl user assign-role lois EDITOR`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCommand(open),
		newPublisherCommand(open),
		newUserCommand(open),
	)
	return root
}

func withEnv(cmd *cobra.Command, open Opener, fn func(ctx context.Context, env *Env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, release, err := open(ctx)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer release()
	return fn(ctx, env)
}

func newMigrateCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, open, func(ctx context.Context, env *Env) error {
				if err := env.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			})
		},
	}
}
