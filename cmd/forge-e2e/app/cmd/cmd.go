package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/global"
	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/health"
	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/login"
	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/request"
	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/wait"
)

func NewForgeE2ECommand() *cobra.Command {
	forgeE2ECmd := &cobra.Command{
		Use:   "forge-e2e",
		Short: "Forge end-to-end session harness",
		Long: `forge-e2e drives the Forge E2E session harness from the command line.

It reads the same environment as the test suites (FRONTEND_URL, API_URL,
FORGE_ADMIN_EMAIL, FORGE_ADMIN_PASSWORD); flags take precedence.

Examples:
  # Check that the target is up
  forge-e2e health

  # Print a session token for the seeded account
  forge-e2e login

  # Call an authenticated endpoint
  forge-e2e request GET /projects -o yaml

  # Wait for the target before running the suites
  forge-e2e wait --for healthy --timeout 2m`,
	}

	global.AddFlags(forgeE2ECmd)

	forgeE2ECmd.AddCommand(health.NewHealthCmd())
	forgeE2ECmd.AddCommand(login.NewLoginCmd())
	forgeE2ECmd.AddCommand(request.NewRequestCmd())
	forgeE2ECmd.AddCommand(wait.NewWaitCmd())
	forgeE2ECmd.AddCommand(newVersionCmd())

	return forgeE2ECmd
}

func Execute() {
	err := NewForgeE2ECommand().Execute()
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
