package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianhq/mctl/pkg/access"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSection(access.SectionDashboard); err != nil {
			return err
		}
		summary, err := apiClient.GetDashboard(cmd.Context())
		if err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(summary)
		}
		fmt.Println("Dashboard")
		fmt.Printf("  Projects:          %d\n", summary.ProjectCount)
		fmt.Printf("  Deliverables:      %d\n", summary.DeliverableCount)
		fmt.Printf("  Open tickets:      %d\n", summary.OpenTickets)
		fmt.Printf("  Pending approvals: %d\n", summary.PendingApprovals)
		fmt.Printf("  Users:             %d\n", summary.UserCount)
		return nil
	},
}
