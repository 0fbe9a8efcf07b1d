package cmd

import (
	"github.com/abhishekbhonde/new-portfolio/internal/input"
	"github.com/abhishekbhonde/new-portfolio/internal/output"
	"github.com/abhishekbhonde/new-portfolio/internal/session"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:     "auth",
	Short:   "Log in, register and inspect the session",
	GroupID: "session",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the blog backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if err := input.Login(&email, &password); err != nil {
			return fail(cmd, err)
		}

		a, err := openApp(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		ident, err := a.session.Login(ctx, session.Credentials{Email: email, Password: password})
		if err != nil {
			return fail(cmd, err)
		}
		output.Success("Logged in as %s", ident.User.Name)
		return nil
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var r session.Registration
		r.Name, _ = cmd.Flags().GetString("name")
		r.Email, _ = cmd.Flags().GetString("email")
		r.Password, _ = cmd.Flags().GetString("password")
		r.Confirm = r.Password
		if err := input.Register(&r.Name, &r.Email, &r.Password, &r.Confirm); err != nil {
			return fail(cmd, err)
		}

		a, err := openApp(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		ident, err := a.session.Register(ctx, r)
		if err != nil {
			return fail(cmd, err)
		}
		output.Success("Welcome, %s", ident.User.Name)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return fail(cmd, err)
		}
		if err := a.session.Logout(cmd.Context()); err != nil {
			return fail(cmd, err)
		}
		output.Success("Logged out")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Verify the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ident, err := restore(cmd.Context())
		if err != nil {
			return fail(cmd, err)
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			status := map[string]any{"state": a.session.State().String(), "api_url": a.settings.APIURL}
			if ident != nil {
				status["user"] = ident.User
			}
			return output.JSON(status)
		}

		if ident == nil {
			output.Info("Not logged in (%s)", output.LoginHint)
			return nil
		}
		output.Info("Logged in as %s", ident.User.Name)
		output.Info("User ID: %s", ident.User.ID)
		output.Info("Server:  %s", a.settings.APIURL)
		return nil
	},
}

func init() {
	authLoginCmd.Flags().String("email", "", "account email")
	authLoginCmd.Flags().String("password", "", "account password (prompted when omitted)")

	authRegisterCmd.Flags().String("name", "", "display name")
	authRegisterCmd.Flags().String("email", "", "account email")
	authRegisterCmd.Flags().String("password", "", "account password (prompted twice when omitted)")

	authStatusCmd.Flags().Bool("json", false, "JSON output")

	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authLogoutCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
