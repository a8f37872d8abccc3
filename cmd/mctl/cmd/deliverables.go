package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridianhq/mctl/pkg/access"
	"github.com/meridianhq/mctl/pkg/api"
)

func init() {
	rootCmd.AddCommand(deliverablesCmd)
	deliverablesCmd.AddCommand(deliverablesListCmd)
	deliverablesCmd.AddCommand(deliverablesGetCmd)
	deliverablesCmd.AddCommand(deliverablesCreateCmd)
	deliverablesCmd.AddCommand(deliverablesUpdateCmd)
	deliverablesCmd.AddCommand(deliverablesDeleteCmd)
	deliverablesCmd.AddCommand(deliverablesSubmitCmd)
	deliverablesCmd.AddCommand(deliverablesUploadCmd)

	deliverablesCreateCmd.Flags().String("name", "", "Deliverable name (required)")
	deliverablesCreateCmd.Flags().String("description", "", "Deliverable description")
	deliverablesCreateCmd.Flags().Int64("project", 0, "Owning project ID (required)")
	deliverablesCreateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	deliverablesCreateCmd.MarkFlagRequired("name")
	deliverablesCreateCmd.MarkFlagRequired("project")

	deliverablesUpdateCmd.Flags().String("name", "", "New name")
	deliverablesUpdateCmd.Flags().String("description", "", "New description")
	deliverablesUpdateCmd.Flags().String("status", "", "New status")
	deliverablesUpdateCmd.Flags().String("due", "", "New due date (YYYY-MM-DD)")

	deliverablesSubmitCmd.Flags().Int64("client", 0, "Reviewing client user ID (required)")
	deliverablesSubmitCmd.MarkFlagRequired("client")
}

var deliverablesCmd = &cobra.Command{
	Use:   "deliverables",
	Short: "Manage deliverables",
}

func printDeliverableTable(deliverables []api.Deliverable) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPROJECT\tDUE")
	for _, d := range deliverables {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", d.ID, d.Name, d.Status, d.ProjectID, d.DueDate)
	}
	w.Flush()
}

var deliverablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deliverables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDeliverables); err != nil {
			return err
		}
		deliverables, err := apiClient.ListDeliverables(cmd.Context())
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(deliverables)
		}
		printDeliverableTable(deliverables)
		return nil
	},
}

var deliverablesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a deliverable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDeliverables); err != nil {
			return err
		}
		id, err := parseID(args[0], "deliverable")
		if err != nil {
			return err
		}
		deliverable, err := apiClient.GetDeliverable(cmd.Context(), id)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(deliverable)
		}
		fmt.Printf("Deliverable %d: %s\n", deliverable.ID, deliverable.Name)
		fmt.Printf("  Status:   %s\n", deliverable.Status)
		fmt.Printf("  Project:  %d\n", deliverable.ProjectID)
		if deliverable.Description != "" {
			fmt.Printf("  Description: %s\n", deliverable.Description)
		}
		if deliverable.DueDate != "" {
			fmt.Printf("  Due:      %s\n", deliverable.DueDate)
		}
		if deliverable.SubmittedAt != "" {
			fmt.Printf("  Submitted: %s\n", deliverable.SubmittedAt)
		}
		return nil
	},
}

var deliverablesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a deliverable",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDeliverables); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		project, _ := cmd.Flags().GetInt64("project")
		due, _ := cmd.Flags().GetString("due")

		deliverable, err := apiClient.CreateDeliverable(cmd.Context(), api.CreateDeliverableRequest{
			Name:        name,
			Description: description,
			ProjectID:   project,
			DueDate:     due,
		})
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(deliverable)
		}
		fmt.Printf("Created deliverable %d: %s\n", deliverable.ID, deliverable.Name)
		return nil
	},
}

var deliverablesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a deliverable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDeliverables); err != nil {
			return err
		}
		id, err := parseID(args[0], "deliverable")
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		status, _ := cmd.Flags().GetString("status")
		due, _ := cmd.Flags().GetString("due")

		deliverable, err := apiClient.UpdateDeliverable(cmd.Context(), id, api.UpdateDeliverableRequest{
			Name:        name,
			Description: description,
			Status:      status,
			DueDate:     due,
		})
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(deliverable)
		}
		fmt.Printf("Updated deliverable %d\n", deliverable.ID)
		return nil
	},
}

var deliverablesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a deliverable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDeliverables); err != nil {
			return err
		}
		id, err := parseID(args[0], "deliverable")
		if err != nil {
			return err
		}
		if err := apiClient.DeleteDeliverable(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted deliverable %d\n", id)
		return nil
	},
}

var deliverablesSubmitCmd = &cobra.Command{
	Use:   "submit <id>",
	Short: "Submit a deliverable for client review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDeliverables); err != nil {
			return err
		}
		id, err := parseID(args[0], "deliverable")
		if err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetInt64("client")
		deliverable, err := apiClient.SubmitDeliverable(cmd.Context(), id, clientID)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(deliverable)
		}
		fmt.Printf("Submitted deliverable %d for review (status: %s)\n", deliverable.ID, deliverable.Status)
		return nil
	},
}

var deliverablesUploadCmd = &cobra.Command{
	Use:   "upload <id> <file>",
	Short: "Attach a file to a deliverable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDeliverables); err != nil {
			return err
		}
		id, err := parseID(args[0], "deliverable")
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close()

		if err := apiClient.UploadDeliverableFile(cmd.Context(), id, filepath.Base(args[1]), f); err != nil {
			return err
		}
		fmt.Printf("Uploaded %s to deliverable %d\n", filepath.Base(args[1]), id)
		return nil
	},
}
