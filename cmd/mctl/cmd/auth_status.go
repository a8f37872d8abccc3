package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridianhq/mctl/pkg/claims"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authStatusCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication management",
	Long:  "Commands for inspecting authentication state and diagnostics.",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long: `Show the current authentication status including:
  - Credential state (present, expired, or absent)
  - Token file path
  - Server URL configured
  - Server connectivity (reachable or unreachable)`,
	RunE: runAuthStatus,
}

// AuthStatus represents the authentication status for JSON/YAML output.
type AuthStatus struct {
	TokenPath   string `json:"token_path" yaml:"token_path"`
	TokenExists bool   `json:"token_exists" yaml:"token_exists"`
	Subject     string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired     bool   `json:"expired" yaml:"expired"`
	ServerURL   string `json:"server_url" yaml:"server_url"`
	ServerOK    bool   `json:"server_reachable" yaml:"server_reachable"`
	ServerError string `json:"server_error,omitempty" yaml:"server_error,omitempty"`
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	status := AuthStatus{
		TokenPath:   tokens.Path(),
		TokenExists: tokens.Exists(),
		ServerURL:   apiClient.BaseURL(),
	}

	if token, err := tokens.Load(); err == nil {
		if decoded, decodeErr := claims.Decode(token); decodeErr == nil {
			status.Subject = decoded.Subject
			status.Role = decoded.Role
			status.ExpiresAt = time.Unix(decoded.ExpiresAt, 0).Format(time.RFC3339)
			status.Expired = decoded.Expired(time.Now())
		}
	}

	status.ServerOK, status.ServerError = checkServerConnectivity(status.ServerURL)

	if outputFormat != "table" {
		return formatOutput(status)
	}

	fmt.Println("Authentication Status")
	fmt.Println()
	if status.TokenExists {
		fmt.Println("  Credential:  present")
		fmt.Printf("               (%s)\n", status.TokenPath)
		if status.Subject != "" {
			fmt.Printf("  Subject:     %s\n", status.Subject)
		}
		if status.Role != "" {
			fmt.Printf("  Role:        %s\n", status.Role)
		}
		if status.ExpiresAt != "" {
			if status.Expired {
				fmt.Printf("  Expires:     %s (expired)\n", status.ExpiresAt)
			} else {
				fmt.Printf("  Expires:     %s\n", status.ExpiresAt)
			}
		}
	} else {
		fmt.Println("  Credential:  absent")
		fmt.Printf("               (expected at %s)\n", status.TokenPath)
	}
	fmt.Printf("  Server:      %s\n", status.ServerURL)
	if status.ServerOK {
		fmt.Println("  Connection:  reachable")
	} else {
		fmt.Printf("  Connection:  unreachable (%s)\n", status.ServerError)
	}
	return nil
}

// checkServerConnectivity probes the server with a cheap unauthenticated
// request.
func checkServerConnectivity(serverURL string) (bool, string) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(serverURL + "/dashboard")
	if err != nil {
		return false, err.Error()
	}
	resp.Body.Close()
	return true, ""
}
