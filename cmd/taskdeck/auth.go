package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/authclient"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session credential",
	RunE:  runLogin,
}

var (
	loginEmail    string
	loginPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and store the session credential",
	RunE:  runSignup,
}

var (
	signupName     string
	signupEmail    string
	signupPassword string
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session credential",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	signupCmd.Flags().StringVarP(&signupName, "name", "n", "", "Display name")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Account password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, creds, err := newTransport()
	if err != nil {
		return err
	}
	auth := authclient.New(client, creds)

	password, err := resolvePassword(loginPassword)
	if err != nil {
		return err
	}

	if err := auth.Login(cmd.Context(), loginEmail, password); err != nil {
		return err
	}

	fmt.Println("Logged in.")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	client, creds, err := newTransport()
	if err != nil {
		return err
	}
	auth := authclient.New(client, creds)

	password, err := resolvePassword(signupPassword)
	if err != nil {
		return err
	}

	if err := auth.Signup(cmd.Context(), signupName, signupEmail, password); err != nil {
		return err
	}

	fmt.Println("Signed up and logged in.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, creds, err := newTransport()
	if err != nil {
		return err
	}

	if err := authclient.New(client, creds).Logout(); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}

// resolvePassword uses the flag value when given, otherwise prompts.
// A non-terminal stdin reads one line, so scripts can pipe the password.
func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
