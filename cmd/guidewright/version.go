package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minewright/guidewright/internal/server"
	"github.com/minewright/guidewright/internal/updater"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the guidewright version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("guidewright v%s\n", server.Version)
		if !versionCheck {
			return
		}
		result := updater.CheckVersion(server.Version)
		switch {
		case result.LatestVersion == "":
			fmt.Println("could not reach GitHub to check for updates")
		case result.UpdateAvailable:
			fmt.Printf("update available: v%s — run 'guidewright update'\n", result.LatestVersion)
		default:
			fmt.Println("you are on the latest version")
		}
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update guidewright to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("checking for updates (current: v%s)...\n", server.Version)
		if err := updater.SelfUpdate(server.Version); err != nil {
			return err
		}
		fmt.Println("updated — restart guidewright to use the new version")
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false,
		"also check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd, updateCmd)
}
