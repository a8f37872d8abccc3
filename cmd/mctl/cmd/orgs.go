package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridianhq/mctl/pkg/access"
	"github.com/meridianhq/mctl/pkg/api"
)

func init() {
	rootCmd.AddCommand(orgsCmd)
	orgsCmd.AddCommand(orgsListCmd)
	orgsCmd.AddCommand(orgsGetCmd)
	orgsCmd.AddCommand(orgsCreateCmd)
	orgsCmd.AddCommand(orgsUpdateCmd)
	orgsCmd.AddCommand(orgsDeleteCmd)
	orgsCmd.AddCommand(orgsStatsCmd)

	orgsCreateCmd.Flags().String("name", "", "Organization name (required)")
	orgsCreateCmd.Flags().String("description", "", "Organization description")
	orgsCreateCmd.Flags().String("contact", "", "Contact address")
	orgsCreateCmd.MarkFlagRequired("name")

	orgsUpdateCmd.Flags().String("name", "", "New name (required)")
	orgsUpdateCmd.Flags().String("description", "", "New description")
	orgsUpdateCmd.Flags().String("contact", "", "New contact address")
	orgsUpdateCmd.MarkFlagRequired("name")
}

var orgsCmd = &cobra.Command{
	Use:     "orgs",
	Aliases: []string{"organizations"},
	Short:   "Manage client organizations",
}

var orgsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionClients); err != nil {
			return err
		}
		orgs, err := apiClient.ListOrganizations(cmd.Context())
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(orgs)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCONTACT\tCREATED")
		for _, o := range orgs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.Name, o.Contact, o.CreatedAt)
		}
		return w.Flush()
	},
}

var orgsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionClients); err != nil {
			return err
		}
		id, err := parseID(args[0], "organization")
		if err != nil {
			return err
		}
		org, err := apiClient.GetOrganization(cmd.Context(), id)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(org)
		}
		fmt.Printf("Organization %d: %s\n", org.ID, org.Name)
		if org.Description != "" {
			fmt.Printf("  Description: %s\n", org.Description)
		}
		if org.Contact != "" {
			fmt.Printf("  Contact:     %s\n", org.Contact)
		}
		return nil
	},
}

var orgsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionClients); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		contact, _ := cmd.Flags().GetString("contact")

		org, err := apiClient.CreateOrganization(cmd.Context(), api.OrganizationRequest{
			Name:        name,
			Description: description,
			Contact:     contact,
		})
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(org)
		}
		fmt.Printf("Created organization %d: %s\n", org.ID, org.Name)
		return nil
	},
}

var orgsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionClients); err != nil {
			return err
		}
		id, err := parseID(args[0], "organization")
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		contact, _ := cmd.Flags().GetString("contact")

		org, err := apiClient.UpdateOrganization(cmd.Context(), id, api.OrganizationRequest{
			Name:        name,
			Description: description,
			Contact:     contact,
		})
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(org)
		}
		fmt.Printf("Updated organization %d\n", org.ID)
		return nil
	},
}

var orgsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionClients); err != nil {
			return err
		}
		id, err := parseID(args[0], "organization")
		if err != nil {
			return err
		}
		if err := apiClient.DeleteOrganization(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted organization %d\n", id)
		return nil
	},
}

var orgsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate organization statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionReports); err != nil {
			return err
		}
		stats, err := apiClient.GetOrganizationStats(cmd.Context())
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(stats)
		}
		fmt.Println("Organization statistics")
		fmt.Printf("  Total:    %d\n", stats.Total)
		fmt.Printf("  Active:   %d\n", stats.Active)
		fmt.Printf("  Projects: %d\n", stats.ProjectCount)
		fmt.Printf("  Users:    %d\n", stats.UserCount)
		return nil
	},
}
