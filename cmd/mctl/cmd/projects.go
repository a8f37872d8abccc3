package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridianhq/mctl/pkg/access"
	"github.com/meridianhq/mctl/pkg/api"
)

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsGetCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsCmd.AddCommand(projectsMembersCmd)
	projectsCmd.AddCommand(projectsDeliverablesCmd)
	projectsMembersCmd.AddCommand(projectsMembersAddCmd)
	projectsMembersCmd.AddCommand(projectsMembersRemoveCmd)

	projectsCreateCmd.Flags().String("name", "", "Project name (required)")
	projectsCreateCmd.Flags().String("description", "", "Project description")
	projectsCreateCmd.Flags().Int64("org", 0, "Owning organization ID (required)")
	projectsCreateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	projectsCreateCmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	projectsCreateCmd.MarkFlagRequired("name")
	projectsCreateCmd.MarkFlagRequired("org")
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
}

// parseID parses a numeric resource ID argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID %q", what, arg)
	}
	return id, nil
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionProjects); err != nil {
			return err
		}
		projects, err := apiClient.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(projects)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tORG\tSTART\tEND")
		for _, p := range projects {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, p.Status, p.OrganizationID, p.StartDate, p.EndDate)
		}
		return w.Flush()
	},
}

var projectsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionProjects); err != nil {
			return err
		}
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		project, err := apiClient.GetProject(cmd.Context(), id)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(project)
		}
		fmt.Printf("Project %d: %s\n", project.ID, project.Name)
		fmt.Printf("  Status:       %s\n", project.Status)
		fmt.Printf("  Organization: %d\n", project.OrganizationID)
		if project.Description != "" {
			fmt.Printf("  Description:  %s\n", project.Description)
		}
		if project.StartDate != "" {
			fmt.Printf("  Dates:        %s - %s\n", project.StartDate, project.EndDate)
		}
		return nil
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionProjects); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		org, _ := cmd.Flags().GetInt64("org")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		project, err := apiClient.CreateProject(cmd.Context(), api.CreateProjectRequest{
			Name:           name,
			Description:    description,
			OrganizationID: org,
			StartDate:      start,
			EndDate:        end,
		})
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(project)
		}
		fmt.Printf("Created project %d: %s\n", project.ID, project.Name)
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionProjects); err != nil {
			return err
		}
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		if err := apiClient.DeleteProject(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted project %d\n", id)
		return nil
	},
}

var projectsMembersCmd = &cobra.Command{
	Use:   "members <id>",
	Short: "List or manage project members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionProjects); err != nil {
			return err
		}
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		members, err := apiClient.ListProjectMembers(cmd.Context(), id)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(members)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USER\tNAME\tROLE")
		for _, m := range members {
			fmt.Fprintf(w, "%d\t%s\t%s\n", m.UserID, m.FullName, m.Role)
		}
		return w.Flush()
	},
}

var projectsMembersAddCmd = &cobra.Command{
	Use:   "add <project-id> <user-id> <role>",
	Short: "Add a member to a project",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionProjects); err != nil {
			return err
		}
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		userID, err := parseID(args[1], "user")
		if err != nil {
			return err
		}
		if err := apiClient.AddProjectMember(cmd.Context(), projectID, userID, args[2]); err != nil {
			return err
		}
		fmt.Printf("Added user %d to project %d as %s\n", userID, projectID, args[2])
		return nil
	},
}

var projectsMembersRemoveCmd = &cobra.Command{
	Use:   "remove <project-id> <user-id> <role>",
	Short: "Remove a member's role from a project",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionProjects); err != nil {
			return err
		}
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		userID, err := parseID(args[1], "user")
		if err != nil {
			return err
		}
		if err := apiClient.RemoveProjectMember(cmd.Context(), projectID, userID, args[2]); err != nil {
			return err
		}
		fmt.Printf("Removed role %s of user %d from project %d\n", args[2], userID, projectID)
		return nil
	},
}

var projectsDeliverablesCmd = &cobra.Command{
	Use:   "deliverables <id>",
	Short: "List a project's deliverables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDeliverables); err != nil {
			return err
		}
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		deliverables, err := apiClient.ListProjectDeliverables(cmd.Context(), id)
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
