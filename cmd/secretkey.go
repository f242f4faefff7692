package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/arkdale/photon/config"
	"github.com/spf13/cobra"
)

// NewSecretKeyCmd creates the secret-key command
func NewSecretKeyCmd(dataDirectory *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret-key",
		Short: "Signing key commands",
	}

	cmd.AddCommand(newSecretKeyRegenerateCmd(dataDirectory))

	return cmd
}

func newSecretKeyRegenerateCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate",
		Short: "Replace the signing key; all sessions are invalidated",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(*dataDirectory, config.SecretFileName)
			if _, err := config.WriteSecretFile(path); err != nil {
				return fmt.Errorf("failed to regenerate secret key: %w", err)
			}

			cmd.Printf("New secret key written to %s\n", path)
			return nil
		},
	}
}
