package cmd

import (
	"fmt"

	"github.com/arkdale/photon/models"
	"github.com/spf13/cobra"
)

// NewInviteCmd creates the invite command
func NewInviteCmd(dataDirectory *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Registration invite commands",
	}

	cmd.AddCommand(
		newInviteCreateCmd(dataDirectory),
		newInviteListCmd(dataDirectory),
		newInviteRevokeCmd(dataDirectory),
	)

	return cmd
}

func newInviteCreateCmd(dataDirectory *string) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new single-use registration token",
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				invite, err := models.CreateInvite(role, "cli")
				if err != nil {
					return fmt.Errorf("failed to create invite: %w", err)
				}

				cmd.Printf("Invite token: %s (role: %s)\n", invite.Token, invite.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", models.RoleViewer, "Role granted on redemption (viewer, editor, admin)")

	return cmd
}

func newInviteListCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invite tokens",
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				invites, err := models.GetInvites()
				if err != nil {
					return fmt.Errorf("failed to get invites: %w", err)
				}

				if len(invites) == 0 {
					cmd.Println("No invites found.")
					return nil
				}

				cmd.Println("Invites:")
				for _, invite := range invites {
					used := "unused"
					if invite.UsedBy != "" {
						used = "used by " + invite.UsedBy
					}
					cmd.Printf("  %s: %s (%s)\n", invite.Token, invite.Role, used)
				}
				return nil
			})
		},
	}
}

func newInviteRevokeCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke [token]",
		Short: "Revoke an invite token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				if err := models.DeleteInvite(args[0]); err != nil {
					return fmt.Errorf("failed to revoke invite: %w", err)
				}

				cmd.Printf("Invite '%s' revoked\n", args[0])
				return nil
			})
		},
	}
}
