package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/auth"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var registerCmd = &cobra.Command{
	Use:   "register [EMAIL]",
	Short: "Create an account and log in",
	Long: `Creates an account with an email and password, then starts a session.
The password is prompted twice without echo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login [EMAIL]",
	Short: "Log in to an existing account",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func emailArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return readLine("Email: ")
}

func runRegister(_ *cobra.Command, args []string) error {
	email, err := emailArg(args)
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirmation, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.auth.Register(ctx, email, password, confirmation)
	if err != nil {
		if clierr.Is(err, clierr.WeakPassword) && outputFormat() != output.FormatJSON {
			for _, line := range auth.CheckPassword(password, confirmation).Lines() {
				fmt.Fprintln(os.Stderr, "  "+line)
			}
		}
		return err
	}
	return printIdentity(id, "Registered and logged in as %s")
}

func runLogin(_ *cobra.Command, args []string) error {
	email, err := emailArg(args)
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return printIdentity(id, "Logged in as %s")
}

func runLogout(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.auth.Logout(); err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"status": "logged_out"})
	}
	output.Messagef(os.Stdout, "Logged out")
	return nil
}

func runWhoami(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.auth.Require(ctx)
	if err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		id.Token = ""
		return output.JSON(os.Stdout, id)
	}
	output.Messagef(os.Stdout, "%s (session expires %s)",
		id.Email, id.ExpiresAt.In(a.loc).Format(output.DeadlineLayout))
	return nil
}

func printIdentity(id auth.Identity, format string) error {
	if outputFormat() == output.FormatJSON {
		id.Token = ""
		return output.JSON(os.Stdout, id)
	}
	output.Messagef(os.Stdout, format, id.Email)
	return nil
}
