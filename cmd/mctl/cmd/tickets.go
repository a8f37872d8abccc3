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
	rootCmd.AddCommand(ticketsCmd)
	ticketsCmd.AddCommand(ticketsGetCmd)
	ticketsCmd.AddCommand(ticketsListCmd)
	ticketsCmd.AddCommand(ticketsCreateCmd)
	ticketsCmd.AddCommand(ticketsSubmitCmd)
	ticketsCmd.AddCommand(ticketsAssignCmd)
	ticketsCmd.AddCommand(ticketsApproveCmd)
	ticketsCmd.AddCommand(ticketsRejectCmd)
	ticketsCmd.AddCommand(ticketsAttachCmd)
	ticketsCmd.AddCommand(ticketsCommentsCmd)
	ticketsCmd.AddCommand(ticketsCommentCmd)

	ticketsListCmd.Flags().Int64("user", 0, "List tickets for a user ID")
	ticketsListCmd.Flags().Int64("project", 0, "List tickets for a project ID")

	ticketsCreateCmd.Flags().String("title", "", "Ticket title (required)")
	ticketsCreateCmd.Flags().String("description", "", "Ticket description")
	ticketsCreateCmd.Flags().String("priority", "", "Ticket priority")
	ticketsCreateCmd.Flags().Int64("project", 0, "Project ID (required)")
	ticketsCreateCmd.Flags().Int64("assignee", 0, "Assignee user ID")
	ticketsCreateCmd.MarkFlagRequired("title")
	ticketsCreateCmd.MarkFlagRequired("project")

	ticketsAssignCmd.Flags().Int64("to", 0, "New assignee user ID (required)")
	ticketsAssignCmd.Flags().Int64("actor", 0, "Acting user ID (required)")
	ticketsAssignCmd.MarkFlagRequired("to")
	ticketsAssignCmd.MarkFlagRequired("actor")

	ticketsApproveCmd.Flags().Int64("client", 0, "Approving client user ID (required)")
	ticketsApproveCmd.MarkFlagRequired("client")

	ticketsRejectCmd.Flags().Int64("approver", 0, "Rejecting approver user ID (required)")
	ticketsRejectCmd.MarkFlagRequired("approver")

	ticketsAttachCmd.Flags().Int64("uploader", 0, "Uploading user ID (required)")
	ticketsAttachCmd.MarkFlagRequired("uploader")
}

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Manage tickets",
}

func printTicketTable(tickets []api.Ticket) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tPROJECT\tASSIGNEE")
	for _, t := range tickets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n", t.ID, t.Title, t.Status, t.Priority, t.ProjectID, t.AssigneeID)
	}
	w.Flush()
}

func printTicket(t *api.Ticket) {
	fmt.Printf("Ticket %d: %s\n", t.ID, t.Title)
	fmt.Printf("  Status:   %s\n", t.Status)
	if t.Priority != "" {
		fmt.Printf("  Priority: %s\n", t.Priority)
	}
	fmt.Printf("  Project:  %d\n", t.ProjectID)
	fmt.Printf("  Reporter: %d\n", t.ReporterID)
	if t.AssigneeID != 0 {
		fmt.Printf("  Assignee: %d\n", t.AssigneeID)
	}
	if t.Description != "" {
		fmt.Printf("  Description: %s\n", t.Description)
	}
}

var ticketsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		id, err := parseID(args[0], "ticket")
		if err != nil {
			return err
		}
		ticket, err := apiClient.GetTicket(cmd.Context(), id)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(ticket)
		}
		printTicket(ticket)
		return nil
	},
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets by user or project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		userID, _ := cmd.Flags().GetInt64("user")
		projectID, _ := cmd.Flags().GetInt64("project")

		var tickets []api.Ticket
		var err error
		switch {
		case userID != 0:
			tickets, err = apiClient.ListTicketsByUser(cmd.Context(), userID)
		case projectID != 0:
			tickets, err = apiClient.ListTicketsByProject(cmd.Context(), projectID)
		default:
			return fmt.Errorf("one of --user or --project is required")
		}
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(tickets)
		}
		printTicketTable(tickets)
		return nil
	},
}

var ticketsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a ticket",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")
		project, _ := cmd.Flags().GetInt64("project")
		assignee, _ := cmd.Flags().GetInt64("assignee")

		ticket, err := apiClient.CreateTicket(cmd.Context(), api.CreateTicketRequest{
			Title:       title,
			Description: description,
			Priority:    priority,
			ProjectID:   project,
			AssigneeID:  assignee,
		})
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(ticket)
		}
		fmt.Printf("Created ticket %d: %s\n", ticket.ID, ticket.Title)
		return nil
	},
}

var ticketsSubmitCmd = &cobra.Command{
	Use:   "submit <id>",
	Short: "Submit a ticket for approval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		id, err := parseID(args[0], "ticket")
		if err != nil {
			return err
		}
		ticket, err := apiClient.SubmitTicketForApproval(cmd.Context(), id)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(ticket)
		}
		fmt.Printf("Submitted ticket %d for approval (status: %s)\n", ticket.ID, ticket.Status)
		return nil
	},
}

var ticketsAssignCmd = &cobra.Command{
	Use:   "assign <id>",
	Short: "Reassign a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		id, err := parseID(args[0], "ticket")
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetInt64("to")
		actor, _ := cmd.Flags().GetInt64("actor")
		ticket, err := apiClient.AssignTicket(cmd.Context(), id, to, actor)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(ticket)
		}
		fmt.Printf("Assigned ticket %d to user %d\n", ticket.ID, to)
		return nil
	},
}

var ticketsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		id, err := parseID(args[0], "ticket")
		if err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetInt64("client")
		ticket, err := apiClient.ApproveTicket(cmd.Context(), id, clientID)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(ticket)
		}
		fmt.Printf("Approved ticket %d (status: %s)\n", ticket.ID, ticket.Status)
		return nil
	},
}

var ticketsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		id, err := parseID(args[0], "ticket")
		if err != nil {
			return err
		}
		approver, _ := cmd.Flags().GetInt64("approver")
		ticket, err := apiClient.RejectTicket(cmd.Context(), id, approver)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(ticket)
		}
		fmt.Printf("Rejected ticket %d (status: %s)\n", ticket.ID, ticket.Status)
		return nil
	},
}

var ticketsAttachCmd = &cobra.Command{
	Use:   "attach <id> <file>",
	Short: "Attach a file to a ticket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		id, err := parseID(args[0], "ticket")
		if err != nil {
			return err
		}
		uploader, _ := cmd.Flags().GetInt64("uploader")
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close()

		if err := apiClient.UploadTicketAttachment(cmd.Context(), id, uploader, filepath.Base(args[1]), f); err != nil {
			return err
		}
		fmt.Printf("Attached %s to ticket %d\n", filepath.Base(args[1]), id)
		return nil
	},
}

var ticketsCommentsCmd = &cobra.Command{
	Use:   "comments <id>",
	Short: "List a ticket's comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		id, err := parseID(args[0], "ticket")
		if err != nil {
			return err
		}
		comments, err := apiClient.ListTicketComments(cmd.Context(), id)
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(comments)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAUTHOR\tCREATED\tBODY")
		for _, c := range comments {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", c.ID, c.AuthorID, c.CreatedAt, c.Body)
		}
		return w.Flush()
	},
}

var ticketsCommentCmd = &cobra.Command{
	Use:   "comment <id> <body>",
	Short: "Comment on a ticket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionTickets); err != nil {
			return err
		}
		id, err := parseID(args[0], "ticket")
		if err != nil {
			return err
		}
		comment, err := apiClient.CreateTicketComment(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(comment)
		}
		fmt.Printf("Added comment %d to ticket %d\n", comment.ID, id)
		return nil
	},
}
