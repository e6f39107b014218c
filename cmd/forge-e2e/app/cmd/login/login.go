package login

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/global"
	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/output"
	"github.com/forge-qa/forge-e2e/test/e2e/framework"
)

type loginOptions struct {
	output string
	claims bool
}

// NewLoginCmd creates the login cobra command.
func NewLoginCmd() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the session token",
		Long: `Log in with the configured account and print the issued token.

Exits non-zero when the target rejects the credentials.

Examples:
  # Print the token for the seeded account
  forge-e2e login

  # Use the token in a shell
  export FORGE_TOKEN=$(forge-e2e login)

  # Show the token's claims as YAML
  forge-e2e login --claims -o yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", output.FormatText, "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&opts.claims, "claims", false, "Print the token's decoded claims instead of the token")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *loginOptions) error {
	c, cfg, err := global.NewClient()
	if err != nil {
		return err
	}

	result, err := c.Login(cmd.Context(), cfg.Credentials)
	if err != nil {
		return err
	}

	if !result.OK() {
		return fmt.Errorf("login as %s failed with status %d", cfg.Credentials.Email, result.StatusCode)
	}

	w := cmd.OutOrStdout()

	if opts.claims {
		info, err := framework.InspectToken(result.Token)
		if err != nil {
			return err
		}

		return output.Print(w, opts.output, info.Claims)
	}

	if opts.output == output.FormatText {
		_, err := fmt.Fprintln(w, result.Token)
		return err
	}

	return output.Print(w, opts.output, map[string]string{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}
