package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/meridianhq/mctl/pkg/access"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("username", "u", "", "Username (will prompt if not provided)")
	loginCmd.Flags().StringP("password", "p", "", "Password (will prompt if not provided)")

	whoamiCmd.Flags().Bool("remote", false, "Re-fetch the profile from the server")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the Meridian console",
	Long: `Authenticate against the Meridian console and store the issued
credential under ~/.mctl/token (override with MCTL_TOKEN_PATH).

The credential replaces any previously stored one; there is exactly one
active session per machine account.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	reader := bufio.NewReader(os.Stdin)
	if username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	sess, err := sessionCtrl.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}

	cfg, cfgErr := loadConfig()
	if cfgErr == nil {
		cfg.ServerURL = apiClient.BaseURL()
		cfg.Username = sess.Profile.Username
		if saveErr := saveConfig(cfg); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save config: %v\n", saveErr)
		}
	}

	color.Green("Logged in as %s (%s)", sess.Profile.Username, sess.Profile.Role)
	if sess.Claims != nil {
		expires := time.Unix(sess.Claims.ExpiresAt, 0)
		fmt.Printf("Session expires at %s\n", expires.Format(time.RFC1123))
	}
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Destroy the current session",
	Long:  "Remove the stored credential. Safe to run when not logged in.",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionCtrl.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

// whoamiOutput is the whoami result for JSON/YAML output.
type whoamiOutput struct {
	Username        string   `json:"username" yaml:"username"`
	FullName        string   `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Role            string   `json:"role" yaml:"role"`
	Organization    string   `json:"organization,omitempty" yaml:"organization,omitempty"`
	ExpiresAt       string   `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	VisibleSections []string `json:"visible_sections" yaml:"visible_sections"`
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long: `Show the authenticated user and the application sections their role
may view. With --remote the profile is re-fetched from the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, ok := sessionCtrl.Restore()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}

		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			profile, err := sessionCtrl.RefreshProfile(cmd.Context())
			if err != nil {
				return err
			}
			sess.Profile = profile
		}

		out := whoamiOutput{
			Username:     sess.Profile.Username,
			FullName:     sess.Profile.FullName,
			Role:         sess.Profile.Role,
			Organization: sess.Profile.Organization,
		}
		if sess.Claims != nil {
			out.ExpiresAt = time.Unix(sess.Claims.ExpiresAt, 0).Format(time.RFC3339)
		}
		for _, section := range authorizer.VisibleSections(access.Role(sess.Profile.Role)) {
			out.VisibleSections = append(out.VisibleSections, string(section))
		}

		if outputFormat != "table" {
			return formatOutput(out)
		}

		fmt.Printf("Logged in as %s", out.Username)
		if out.FullName != "" {
			fmt.Printf(" (%s)", out.FullName)
		}
		fmt.Println()
		fmt.Printf("  Role:     %s\n", out.Role)
		if out.Organization != "" {
			fmt.Printf("  Org:      %s\n", out.Organization)
		}
		if out.ExpiresAt != "" {
			fmt.Printf("  Expires:  %s\n", out.ExpiresAt)
		}
		fmt.Printf("  Sections: %s\n", strings.Join(out.VisibleSections, ", "))
		return nil
	},
}
