package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/folioapi/folio/internal/model"
	"github.com/folioapi/folio/internal/service"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
		Long:  "Create, list, and update the administrative accounts that can sign in to the dashboard API.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminResetPasswordCmd())

	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		username string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin user",
		Example: `  folio admin create --username admin --email admin@example.com --password secret
  folio admin create --username admin --email admin@example.com  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(username, email, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(username, email, password string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}

	if password == "" {
		var err error
		password, err = promptPassword(true)
		if err != nil {
			return err
		}
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	hash, err := service.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &model.AdminUser{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}
	if err := st.CreateAdmin(context.Background(), admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created admin user %q (id %d)\n", username, admin.ID)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	admins, err := st.ListAdmins(context.Background())
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	if jsonOutput {
		rows := make([]model.PublicAdmin, 0, len(admins))
		for _, a := range admins {
			rows = append(rows, a.Public())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(admins) == 0 {
		fmt.Println("No admin users configured. Use 'folio admin create' to create one.")
		return nil
	}

	fmt.Printf("%-20s %-30s %-24s\n", "USERNAME", "EMAIL", "LAST LOGIN")
	fmt.Printf("%-20s %-30s %-24s\n", "--------", "-----", "----------")
	for _, a := range admins {
		lastLogin := "never"
		if a.LastLogin != nil {
			lastLogin = a.LastLogin.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-20s %-30s %-24s\n", a.Username, a.Email, lastLogin)
	}

	return nil
}

// ---------- admin reset-password ----------

func newAdminResetPasswordCmd() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset an admin user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminResetPassword(username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username (required)")
	cmd.Flags().StringVar(&password, "password", "", "New password (prompted if omitted)")
	cmd.MarkFlagRequired("username")

	return cmd
}

func runAdminResetPassword(username, password string) error {
	if password == "" {
		var err error
		password, err = promptPassword(true)
		if err != nil {
			return err
		}
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	hash, err := service.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := st.UpdateAdminPassword(context.Background(), username, hash); err != nil {
		return fmt.Errorf("reset password for %q: %w", username, err)
	}

	fmt.Printf("Password updated for %q\n", username)
	return nil
}

// promptPassword reads a password from the terminal without echo. When
// confirm is true the password must be entered twice.
func promptPassword(confirm bool) (string, error) {
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	if confirm {
		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read confirmation: %w", err)
		}
		fmt.Println()

		if string(pwBytes) != string(confirmBytes) {
			return "", fmt.Errorf("passwords do not match")
		}
	}

	return string(pwBytes), nil
}
