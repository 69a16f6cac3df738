package cmd

import (
	"fmt"

	"github.com/aaronch12Ch/portafolio-sp/admin"
	"github.com/aaronch12Ch/portafolio-sp/client"
	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/tui"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the projects backend",
	Long: `Sign in with your backend account. The token is kept in SESSION_FILE
until you run "portfolio logout".

Missing email or password are prompted for.
`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliSession().Logout()
		fmt.Println(tui.RenderSuccess("Signed out"))
		return nil
	},
}

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	LoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	LoginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, password, err := tui.AskCredentials(loginEmail, loginPassword)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	token, err := client.New(settings).Login(cmd.Context(), email, password)
	if err != nil {
		fmt.Println(tui.RenderError(admin.Message(err)))
		return reported(err)
	}

	sess := cliSession()
	sess.SaveAuth(token)
	if !sess.IsAuthenticated() {
		err := errs.NewInvalidTokenError(nil)
		fmt.Println(tui.RenderError(admin.Message(err)))
		return reported(err)
	}

	user := sess.User()
	fmt.Println(tui.RenderSuccess(fmt.Sprintf("Signed in as %s (%s)", user.Email, user.Role)))
	if !sess.IsAdmin() {
		fmt.Println(tui.RenderWarning("This account cannot manage projects"))
	}
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	sess := cliSession()
	user := sess.User()
	if user == nil {
		fmt.Println(tui.RenderInfo("Not signed in. Run: portfolio login"))
		return nil
	}
	fmt.Printf("%s %s\n", tui.TitleStyle.Render("User:"), user.Email)
	fmt.Printf("%s %s\n", tui.TitleStyle.Render("Role:"), user.Role)
	fmt.Printf("%s %t\n", tui.TitleStyle.Render("Admin:"), sess.IsAdmin())
	return nil
}
