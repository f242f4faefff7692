package cmd

import (
	"fmt"

	"github.com/arkdale/photon/models"
	"github.com/spf13/cobra"
)

// NewUserCmd creates the user command
func NewUserCmd(dataDirectory *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	cmd.AddCommand(
		newUserListCmd(dataDirectory),
		newUserAddCmd(dataDirectory),
		newResetPasswordCmd(dataDirectory),
		newSetRoleCmd(dataDirectory),
		newBanCmd(dataDirectory, true),
		newBanCmd(dataDirectory, false),
	)

	return cmd
}

func newUserListCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all user accounts",
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				users, err := models.GetUsers()
				if err != nil {
					return fmt.Errorf("failed to get users: %w", err)
				}

				if len(users) == 0 {
					cmd.Println("No users found.")
					return nil
				}

				cmd.Println("Users:")
				for _, user := range users {
					status := ""
					if user.Banned {
						status = " (banned)"
					}
					cmd.Printf("  %s: %s%s\n", user.Username, user.Role, status)
				}
				return nil
			})
		},
	}
}

func newUserAddCmd(dataDirectory *string) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add [username] [password]",
		Short: "Create a new user account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				user, err := models.CreateUser(args[0], args[1], role)
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}

				cmd.Printf("User '%s' created with role '%s'\n", user.Username, user.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", models.RoleViewer, "User role (viewer, editor, admin)")

	return cmd
}

func newResetPasswordCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password [username] [new-password]",
		Short: "Reset a user's password",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				if err := models.UpdateUserPassword(args[0], args[1]); err != nil {
					return fmt.Errorf("failed to reset password for user '%s': %w", args[0], err)
				}

				cmd.Printf("Password reset successfully for user '%s'\n", args[0])
				return nil
			})
		},
	}
}

func newSetRoleCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role [username] [role]",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				if !models.ValidRole(args[1]) {
					return fmt.Errorf("invalid role '%s'", args[1])
				}
				if err := models.UpdateUserRole(args[0], args[1]); err != nil {
					return fmt.Errorf("failed to update role: %w", err)
				}

				cmd.Printf("User '%s' is now '%s'\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newBanCmd(dataDirectory *string, ban bool) *cobra.Command {
	use, short := "ban [username]", "Ban a user account"
	if !ban {
		use, short = "unban [username]", "Lift a user account ban"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				if err := models.SetUserBanned(args[0], ban); err != nil {
					return fmt.Errorf("failed to update user '%s': %w", args[0], err)
				}

				if ban {
					cmd.Printf("User '%s' banned\n", args[0])
				} else {
					cmd.Printf("User '%s' unbanned\n", args[0])
				}
				return nil
			})
		},
	}
}
