// Headless subcommands: the same session and pipeline internals as the
// dashboard, driven from flags instead of keystrokes.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"imsdash/cmd/imsdash/ui"
	"imsdash/internal/domain"
	"imsdash/internal/pipeline"
	"imsdash/internal/session"
)

var (
	loginRole string

	listQuery string
	listSort  string
	listPage  int
)

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Sign in against the mock API and persist the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := domain.ParseRole(loginRole)
		if err != nil {
			return err
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		res, err := rt.client.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		token := res.EnsureToken()
		user := res.User()
		rt.store.Login(token, role, user)
		rt.vault.Save(session.Record{Token: token, Role: string(role), User: &user})

		logger.Info("signed in",
			zap.String("username", user.Username),
			zap.String("role", string(role)))
		fmt.Printf("Signed in as %s (%s)\n", user.Username, role.Label())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		rt.store.Logout()
		rt.vault.Clear()
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		sess := rt.store.Session()
		if !sess.Authenticated {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Printf("%s (%s)\n", sess.User.Username, sess.Role.Label())
		return nil
	},
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List candidates (requires a signed-in session)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		if session.Guard(rt.store.Session()) == session.GuardRedirectLogin {
			return fmt.Errorf("not signed in; run 'imsdash login' first")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), rt.cfg.API.Timeout)
		defer cancel()
		records, err := rt.client.ListCandidates(ctx)
		if err != nil {
			return err
		}

		view := pipeline.NewView(rt.cfg.View.PageSize)
		view.SetRecords(records)
		// Headless runs have no quiet period to wait out; apply immediately.
		view.ApplyDebounced(view.SetQuery(listQuery))
		view.SetSortKey(pipeline.SortKey(listSort))
		view.SetPage(listPage)

		table := ui.NewSimpleTable("", []string{"Name", "Department", "Username", "Status"})
		for _, r := range view.Rows() {
			dept := r.Department
			if dept == "" {
				dept = "-"
			}
			table.AddRow(r.FullName(), dept, r.Username, string(r.DisplayStatus()))
		}
		fmt.Print(table.View(ui.NewStyles(ui.LightTheme())))
		fmt.Printf("Page %d / %d (%d records)\n", view.Page(), view.TotalPages(), view.FilteredCount())
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginRole, "role", string(domain.RolePanelist),
		"role to simulate (admin, ta_member, panelist)")

	candidatesCmd.Flags().StringVarP(&listQuery, "query", "q", "", "filter by name or username")
	candidatesCmd.Flags().StringVarP(&listSort, "sort", "s", "name", "sort key (name, department)")
	candidatesCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
}
