package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/pocketchef/internal/conversation"
	"github.com/hammamikhairi/pocketchef/internal/display"
	"github.com/hammamikhairi/pocketchef/internal/engine"
	"github.com/hammamikhairi/pocketchef/internal/view"
)

func newRecipesCmd(f *flags) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Print the recipe list once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := wire(cmd, *f)
			if err != nil {
				return err
			}
			defer d.Close()

			// Keep only the final page so the list is printed once.
			var last view.Page
			eng := engine.New(d.api, d.session, d.recipes, d.log.Named("engine"),
				engine.WithRenderer(engine.RenderFunc(func(p view.Page) { last = p })),
				engine.WithNotifier(conversation.NewWriterNotifier(d.log, cmd.ErrOrStderr())),
			)
			if err := d.session.Restore(); err != nil {
				d.log.Warn("restore session: %v", err)
			}
			if err := eng.Reload(cmd.Context()); err != nil {
				return err
			}
			if search != "" {
				eng.SetSearch(search)
			}
			display.NewPlain(cmd.OutOrStdout(), 0).Render(last)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "only recipes matching this text")
	return cmd
}

func newLoginCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "login USERNAME PASSWORD",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := wire(cmd, *f)
			if err != nil {
				return err
			}
			defer d.Close()

			u, err := d.session.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return errors.New(engine.Describe(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", u.Username)
			return nil
		},
	}
}

func newLogoutCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := wire(cmd, *f)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.session.Restore(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			if err := d.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully")
			return nil
		},
	}
}
