package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"chipwarden/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "list [projects|parts|versions]",
	Short: "List archive contents",
	Long: `List projects, parts, or versions in the archive.

Examples:
  chipwarden list projects
  chipwarden list parts fixture_plate
  chipwarden list versions fixture_plate pump_housing`,
}

var listProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List all projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListProjectsCommand(store)
		projects, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, p := range projects {
			fmt.Println(p)
		}
		return nil
	},
}

var listPartsCmd = &cobra.Command{
	Use:   "parts <project>",
	Short: "List parts in a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListPartsCommand(store, args[0])
		parts, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, p := range parts {
			fmt.Println(p)
		}
		return nil
	},
}

var listVersionsCmd = &cobra.Command{
	Use:   "versions <project> <part>",
	Short: "List a part's versions, newest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListVersionsCommand(store, args[0], args[1])
		versions, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, v := range versions {
			fmt.Printf("v%d  %s  %s\n", v.Number, v.Posted, v.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listProjectsCmd)
	listCmd.AddCommand(listPartsCmd)
	listCmd.AddCommand(listVersionsCmd)
}
