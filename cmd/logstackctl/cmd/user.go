package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/logstackhq/logstack/internal/api/auth"
	"github.com/logstackhq/logstack/internal/models"
	"github.com/logstackhq/logstack/internal/storage"
)

var (
	userDBPath string
	userName   string
	userEmail  string
	userRole   string
)

// userCmd represents the user command group
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Account management commands",
	Long: `Commands for managing LogStack accounts.

These commands operate directly on the database file and are intended
for system administrators. Each account is issued an API key used to
submit logs; the key is printed once on creation.

Examples:
  # List all accounts
  logstackctl user list

  # Create an admin account
  logstackctl user create --name admin --email admin@example.com --role admin

  # Change an account's password
  logstackctl user passwd --email admin@example.com`,
}

// userListCmd lists all accounts
var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Long: `List all accounts in the database.

Displays name, email, role, API key, and creation date for each
account. Passwords are never displayed.

Example:
  logstackctl user list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		userList, err := store.Users().List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		if len(userList) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		fmt.Printf("\n%-36s  %-20s  %-30s  %-10s  %-36s  %s\n",
			"ID", "NAME", "EMAIL", "ROLE", "API KEY", "CREATED")
		fmt.Println(strings.Repeat("-", 150))

		for _, u := range userList {
			fmt.Printf("%-36s  %-20s  %-30s  %-10s  %-36s  %s\n",
				u.ID,
				u.Name,
				u.Email,
				u.Role,
				u.APIKey,
				u.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		fmt.Printf("\nTotal: %d account(s)\n", len(userList))

		return nil
	},
}

// userCreateCmd creates a new account
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	Long: `Create a new account in the database.

The password will be prompted interactively for security reasons
(to avoid exposing it in shell history). A fresh API key is generated
and printed once.

Password requirements:
  - Minimum 12 characters
  - At least 1 uppercase letter (A-Z)
  - At least 1 lowercase letter (a-z)
  - At least 1 digit (0-9)
  - At least 1 special character (!@#$%^&*...)

Available roles:
  - admin: full access including account management
  - operator: can manage logs, triggers, and alerts

Example:
  logstackctl user create --name jane --email jane@example.com --role operator`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userName == "" {
			return fmt.Errorf("--name is required")
		}
		if userEmail == "" {
			return fmt.Errorf("--email is required")
		}
		if !strings.Contains(userEmail, "@") {
			return fmt.Errorf("invalid email address: %s", userEmail)
		}

		role, ok := models.ParseRole(userRole)
		if !ok {
			return fmt.Errorf("invalid role %q: must be admin or operator", userRole)
		}

		password, err := promptPassword("Enter password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		if err := auth.ValidatePassword(password); err != nil {
			return fmt.Errorf("invalid password: %w", err)
		}

		confirmPassword, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password confirmation: %w", err)
		}

		if password != confirmPassword {
			return fmt.Errorf("passwords do not match")
		}

		store, err := openDatabase(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		// Reject duplicate emails up front for a friendlier message
		// than the unique constraint error.
		if _, err := store.Users().GetByEmail(ctx, userEmail); err == nil {
			return fmt.Errorf("email '%s' already exists", userEmail)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("check email: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user := &models.User{
			ID:           uuid.New().String(),
			Name:         strings.TrimSpace(userName),
			Email:        strings.TrimSpace(userEmail),
			PasswordHash: string(hash),
			APIKey:       uuid.New().String(),
			Role:         role,
			CreatedAt:    time.Now().UTC(),
		}

		if err := store.Users().Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		fmt.Printf("\nAccount created successfully:\n")
		fmt.Printf("  ID:      %s\n", user.ID)
		fmt.Printf("  Name:    %s\n", user.Name)
		fmt.Printf("  Email:   %s\n", user.Email)
		fmt.Printf("  Role:    %s\n", user.Role)
		fmt.Printf("  API key: %s\n", user.APIKey)

		return nil
	},
}

// userPasswdCmd changes an account's password
var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change an account's password",
	Long: `Change the password for an existing account.

The new password will be prompted interactively for security reasons
(to avoid exposing it in shell history).

Example:
  logstackctl user passwd --email admin@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userEmail == "" {
			return fmt.Errorf("--email is required")
		}

		store, err := openDatabase(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		user, err := store.Users().GetByEmail(ctx, userEmail)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("account '%s' not found", userEmail)
			}
			return fmt.Errorf("find user: %w", err)
		}

		password, err := promptPassword("Enter new password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		if err := auth.ValidatePassword(password); err != nil {
			return fmt.Errorf("invalid password: %w", err)
		}

		confirmPassword, err := promptPassword("Confirm new password: ")
		if err != nil {
			return fmt.Errorf("read password confirmation: %w", err)
		}

		if password != confirmPassword {
			return fmt.Errorf("passwords do not match")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		if err := store.Users().UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return fmt.Errorf("update password: %w", err)
		}

		fmt.Printf("\nPassword changed successfully for '%s'.\n", user.Email)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userPasswdCmd)

	for _, cmd := range []*cobra.Command{userListCmd, userCreateCmd, userPasswdCmd} {
		cmd.Flags().StringVar(&userDBPath, "db", defaultDBPath, "path to SQLite database file")
	}

	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name for the new account (required)")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email for the new account (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", "operator", "role: admin or operator")
	userCreateCmd.MarkFlagRequired("name")
	userCreateCmd.MarkFlagRequired("email")

	userPasswdCmd.Flags().StringVar(&userEmail, "email", "", "email of the account to update (required)")
	userPasswdCmd.MarkFlagRequired("email")
}

// openDatabase opens the SQLite database.
func openDatabase(path string) (*storage.SQLiteStorage, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file not found: %s", path)
	}

	store := storage.NewSQLiteStorage(path)
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return store, nil
}

// promptPassword prompts for a password without echoing to the terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := syscall.Stdin
	if term.IsTerminal(fd) {
		passwordBytes, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(passwordBytes), nil
	}

	// Fallback for non-terminal input (e.g., piped input)
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}
