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
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersActivateCmd)
	usersCmd.AddCommand(usersDeactivateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersGetCmd.Flags().Bool("by-username", false, "Look up by username instead of ID")

	usersUpdateCmd.Flags().String("email", "", "New email address")
	usersUpdateCmd.Flags().String("full-name", "", "New full name")
	usersUpdateCmd.Flags().String("role", "", "New role")
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

func printUser(u *api.User) {
	fmt.Printf("User %d: %s\n", u.ID, u.Username)
	if u.FullName != "" {
		fmt.Printf("  Name:   %s\n", u.FullName)
	}
	if u.Email != "" {
		fmt.Printf("  Email:  %s\n", u.Email)
	}
	fmt.Printf("  Role:   %s\n", u.Role)
	if u.Organization != "" {
		fmt.Printf("  Org:    %s\n", u.Organization)
	}
	fmt.Printf("  Active: %t\n", u.Active)
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionUsers); err != nil {
			return err
		}
		users, err := apiClient.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(users)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tROLE\tORG\tACTIVE")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.FullName, u.Role, u.Organization, u.Active)
		}
		return w.Flush()
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id|username>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionUsers); err != nil {
			return err
		}
		var user *api.User
		var err error
		if byUsername, _ := cmd.Flags().GetBool("by-username"); byUsername {
			user, err = apiClient.GetUserByUsername(cmd.Context(), args[0])
		} else {
			var id int64
			id, err = parseID(args[0], "user")
			if err != nil {
				return err
			}
			user, err = apiClient.GetUser(cmd.Context(), id)
		}
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(user)
		}
		printUser(user)
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionUsers); err != nil {
			return err
		}
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		email, _ := cmd.Flags().GetString("email")
		fullName, _ := cmd.Flags().GetString("full-name")
		role, _ := cmd.Flags().GetString("role")

		user, err := apiClient.UpdateUser(cmd.Context(), id, api.UpdateUserRequest{
			Email:    email,
			FullName: fullName,
			Role:     role,
		})
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(user)
		}
		fmt.Printf("Updated user %d\n", user.ID)
		return nil
	},
}

var usersActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Activate a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionUsers); err != nil {
			return err
		}
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		if err := apiClient.ActivateUser(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Activated user %d\n", id)
		return nil
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionUsers); err != nil {
			return err
		}
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		if err := apiClient.DeactivateUser(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deactivated user %d\n", id)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionUsers); err != nil {
			return err
		}
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		if err := apiClient.DeleteUser(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted user %d\n", id)
		return nil
	},
}
