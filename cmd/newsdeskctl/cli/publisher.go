package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPublisherCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "publisher",
		Aliases: []string{"publishers"},
		Short:   "Manage publishers",
	}
	cmd.AddCommand(
		newPublisherCreateCommand(open),
		newPublisherDeleteCommand(open),
		newPublisherListCommand(open),
	)
	return cmd
}

func newPublisherCreateCommand(open Opener) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a publisher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, open, func(ctx context.Context, env *Env) error {
				p, err := env.Admin.CreatePublisher(ctx, name, description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created publisher %d %q\n", p.ID, p.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "publisher name")
	cmd.Flags().StringVar(&description, "description", "", "publisher description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPublisherDeleteCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a publisher with its articles and subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid publisher id %q", args[0])
			}
			return withEnv(cmd, open, func(ctx context.Context, env *Env) error {
				if err := env.Admin.DeletePublisher(ctx, uint(id)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted publisher %d\n", id)
				return nil
			})
		},
	}
}

func newPublisherListCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List publishers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, open, func(ctx context.Context, env *Env) error {
				publishers, err := env.Admin.ListPublishers(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
				for _, p := range publishers {
					fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Description)
				}
				return w.Flush()
			})
		},
	}
}
