package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"krishimitra/internal/service"
)

func init() {
	login := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Run:   runLogin,
	}
	login.Flags().StringP("email", "e", "", "Account email")
	login.Flags().StringP("password", "p", "", "Account password")
	login.MarkFlagRequired("email")
	login.MarkFlagRequired("password")

	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Run:   runRegister,
	}
	register.Flags().StringP("email", "e", "", "Account email")
	register.Flags().StringP("name", "n", "", "Display name")
	register.Flags().StringP("password", "p", "", "Account password")
	register.MarkFlagRequired("email")
	register.MarkFlagRequired("name")
	register.MarkFlagRequired("password")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Run:   runLogout,
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Run:   runWhoami,
	}

	RootCmd.AddCommand(login, register, logout, whoami)
}

func runLogin(cmd *cobra.Command, args []string) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	a := newApp()
	sess, err := a.auth.Login(cmd.Context(), email, password)
	if err != nil {
		exitErr("login", err)
	}
	saveSession(a, sess)
	fmt.Printf("logged in as %s (%s)\n", sess.User.Name, sess.User.Email)
}

func runRegister(cmd *cobra.Command, args []string) {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")

	a := newApp()
	sess, err := a.auth.Register(cmd.Context(), email, name, password)
	if err != nil {
		exitErr("register", err)
	}
	saveSession(a, sess)
	fmt.Printf("welcome, %s\n", sess.User.Name)
}

func runLogout(cmd *cobra.Command, args []string) {
	a := newApp()
	a.auth.Logout()
	if err := removeSession(a); err != nil {
		exitErr("logout", err)
	}
	fmt.Println("logged out")
}

func runWhoami(cmd *cobra.Command, args []string) {
	a := newApp()
	user, err := a.auth.Me(cmd.Context())
	if err != nil {
		exitErr("whoami", err)
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
}

func saveSession(a *app, sess *service.Session) {
	if err := service.SaveSession(a.sessionPath(), sess); err != nil {
		exitErr("save session", err)
	}
}
