package cmd

import (
	"fmt"

	"github.com/arkdale/photon/indexer"
	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
	"github.com/spf13/cobra"
)

// NewRootFolderCmd creates the rootfolder command
func NewRootFolderCmd(dataDirectory *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rootfolder",
		Short: "Root folder management commands",
	}

	cmd.AddCommand(
		newRootFolderListCmd(dataDirectory),
		newRootFolderAddCmd(dataDirectory),
		newRootFolderRemoveCmd(dataDirectory),
		newRootFolderScanCmd(dataDirectory),
	)

	return cmd
}

func newRootFolderListCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered root folders",
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				rootFolders, err := models.GetRootFolders()
				if err != nil {
					return fmt.Errorf("failed to get root folders: %w", err)
				}

				if len(rootFolders) == 0 {
					cmd.Println("No root folders registered.")
					return nil
				}

				cmd.Println("Root folders:")
				for _, rf := range rootFolders {
					folder, err := models.GetFolder(rf.FolderID)
					if err != nil {
						return err
					}
					if folder == nil {
						cmd.Printf("  %s: %s (not scanned yet)\n", rf.Slug, rf.Path)
						continue
					}
					cmd.Printf("  %s: %s (%d files, %s)\n", rf.Slug, rf.Path,
						folder.FileCount, utils.FormatBytes(folder.TotalLength))
				}
				return nil
			})
		},
	}
}

func newRootFolderAddCmd(dataDirectory *string) *cobra.Command {
	var cron string

	cmd := &cobra.Command{
		Use:   "add [name] [path]",
		Short: "Register a directory for scanning",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				rootFolder, err := models.CreateRootFolder(models.RootFolder{
					Name: args[0],
					Path: args[1],
					Cron: cron,
				})
				if err != nil {
					return fmt.Errorf("failed to create root folder: %w", err)
				}

				cmd.Printf("Root folder '%s' registered with slug '%s'\n", rootFolder.Name, rootFolder.Slug)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cron, "cron", "0 3 * * *", "Scan schedule in cron format")

	return cmd
}

func newRootFolderScanCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [slug]",
		Short: "Scan a root folder once and exit",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				rootFolder, err := models.GetRootFolder(args[0])
				if err != nil {
					return fmt.Errorf("failed to get root folder: %w", err)
				}
				if rootFolder == nil {
					return fmt.Errorf("no root folder with slug '%s'", args[0])
				}

				cmd.Printf("Scanning '%s' (%s)\n", rootFolder.Name, rootFolder.Path)
				indexer.NewIndexer(*rootFolder).RunScanJob()

				folder, err := models.GetFolder(rootFolder.FolderID)
				if err != nil || folder == nil {
					return err
				}
				cmd.Printf("Done: %d files, %s\n", folder.FileCount, utils.FormatBytes(folder.TotalLength))
				return nil
			})
		},
	}
}

func newRootFolderRemoveCmd(dataDirectory *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [slug]",
		Short: "Remove a root folder and its indexed tree",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withDB(dataDirectory, cmd, func() error {
				if err := models.DeleteRootFolder(args[0]); err != nil {
					return fmt.Errorf("failed to remove root folder: %w", err)
				}

				cmd.Printf("Root folder '%s' removed\n", args[0])
				return nil
			})
		},
	}
}
