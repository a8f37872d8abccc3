// Package cmd implements the mctl CLI commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meridianhq/mctl/internal/version"
	"github.com/meridianhq/mctl/pkg/access"
	"github.com/meridianhq/mctl/pkg/api"
	"github.com/meridianhq/mctl/pkg/apierror"
	"github.com/meridianhq/mctl/pkg/session"
	"github.com/meridianhq/mctl/pkg/tokenstore"
)

var (
	// Global flags
	outputFormat string
	serverFlag   string
	verbose      bool

	// Shared instances, built in PersistentPreRunE
	tokens      tokenstore.Store
	apiClient   *api.Client
	sessionCtrl *session.Controller
	authorizer  *access.Authorizer
)

var rootCmd = &cobra.Command{
	Use:   "mctl",
	Short: "Meridian console CLI",
	Long: `mctl is the command-line interface for the Meridian console.

It manages the authenticated session and provides access to projects,
deliverables, tickets, users, and organizations.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		authorizer, err = access.NewAuthorizer(access.Config{Logger: logger})
		if err != nil {
			return fmt.Errorf("load access policies: %w", err)
		}

		serverURL := resolveServerURL()
		tokens = tokenstore.NewFileStore(tokenstore.DefaultPath())
		sessionCtrl = nil // assigned below; hook closes over the variable
		apiClient = api.New(serverURL,
			api.WithTokenStore(tokens),
			api.WithLogger(logger),
			api.WithUnauthorizedHook(func() {
				if sessionCtrl != nil {
					sessionCtrl.HandleUnauthorized()
				}
			}),
		)
		sessionCtrl = session.NewController(apiClient, tokens,
			session.WithLogger(logger),
			session.WithExpiredHandler(func() {
				fmt.Fprintln(os.Stderr, "Session expired. Re-authenticate with 'mctl login'.")
			}),
		)
		return nil
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for mctl.

To load completions:

Bash:
  # Add to ~/.bashrc:
  source <(mctl completion bash)

Zsh:
  # Add to ~/.zshrc:
  source <(mctl completion zsh)

Fish:
  # Add to ~/.config/fish/completions/:
  mctl completion fish > ~/.config/fish/completions/mctl.fish`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return fmt.Errorf("unknown shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Meridian console URL (env: MCTL_SERVER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(completionCmd)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if apiErr := apierror.AsError(err); apiErr != nil {
			apierror.PrintError(apiErr, outputFormat)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return apierror.ExitSuccess
	}
	if apiErr := apierror.AsError(err); apiErr != nil {
		return apiErr.ExitCode()
	}
	return apierror.ExitGeneral
}

// formatOutput handles output formatting based on the --output flag.
// Table format is handled by each command.
func formatOutput(data any) error {
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case "yaml":
		out, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	default:
		return nil
	}
}

// requireSection gates a command on the section-visibility policy, the
// way the console hides navigation entries. The check is advisory UI
// gating: it only applies when the stored credential carries a role
// claim, and the backend remains authoritative either way.
func requireSection(section access.Section) error {
	sess, ok := sessionCtrl.Restore()
	if !ok || sess.Claims == nil || sess.Claims.Role == "" {
		return nil
	}
	if !authorizer.CanAccessSection(access.Role(sess.Claims.Role), section) {
		return &apierror.Error{
			Kind:    apierror.KindUnauthorized,
			Message: fmt.Sprintf("the %s section is not available for role '%s'", section, sess.Claims.Role),
			Hint:    "Contact an administrator if you need access",
		}
	}
	return nil
}
