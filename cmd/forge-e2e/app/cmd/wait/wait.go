package wait

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/global"
	"github.com/forge-qa/forge-e2e/test/e2e/framework"
)

type waitOptions struct {
	forCond  string
	path     string
	timeout  time.Duration
	interval time.Duration
	quiet    bool
}

// NewWaitCmd creates the wait cobra command.
func NewWaitCmd() *cobra.Command {
	opts := &waitOptions{}

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait for the target to reach a condition",
		Long: `Wait for the target to meet a condition, then exit.

Exits 0 when the condition is met, non-zero on timeout.

Supported --for conditions:
  healthy                        Wait for the health endpoint to answer 2xx
  jsonpath=.status=ok            Wait for a JSON path of --path to equal a value

Examples:
  # Wait for the target to come up
  forge-e2e wait --for healthy --timeout 2m

  # Wait for a project to appear
  forge-e2e wait --for jsonpath=.name=demo --path /projects/42`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWait(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.forCond, "for", "", "Condition to wait for: \"healthy\" or \"jsonpath=.path=value\" (required)")
	cmd.Flags().StringVar(&opts.path, "path", "", "API path polled by a jsonpath condition")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Maximum time to wait")
	cmd.Flags().DurationVar(&opts.interval, "interval", 2*time.Second, "Poll interval")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not show a progress spinner")

	_ = cmd.MarkFlagRequired("for")

	return cmd
}

func runWait(cmd *cobra.Command, opts *waitOptions) error {
	cond, err := parseForCondition(opts.forCond)
	if err != nil {
		return err
	}

	if _, ok := cond.(jsonpathCondition); ok && opts.path == "" {
		return fmt.Errorf("--path is required for %s", cond)
	}

	c, _, err := global.NewClient()
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription(fmt.Sprintf("waiting for %s", cond)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetVisibility(!opts.quiet),
		progressbar.OptionClearOnFinish(),
	)
	defer func() { _ = bar.Finish() }()

	var token string

	check := func(ctx context.Context) (bool, error) {
		_ = bar.Add(1)

		if _, ok := cond.(healthyCondition); ok {
			return c.CheckHealth(ctx), nil
		}

		if token == "" {
			token = c.Authenticate(ctx, nil)
			if token == "" {
				return false, framework.ErrAuthenticationFailed
			}
		}

		resp, err := c.Request(ctx, opts.path, framework.RequestOptions{Token: token})
		if err != nil {
			return false, err
		}

		return resp.IsSuccess() && cond.match(resp.Body), nil
	}

	err = framework.Poll(cmd.Context(), framework.WaitOptions{Timeout: opts.timeout, Interval: opts.interval}, check)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timeout waiting for %s", cond)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "condition %s met\n", cond)

	return nil
}

// condition represents a parsed --for value.
type condition interface {
	match(data []byte) bool
	String() string
}

// parseForCondition parses the --for flag value into a condition.
// Supported formats:
//   - healthy
//   - jsonpath=.status=ok
func parseForCondition(s string) (condition, error) {
	if s == "healthy" {
		return healthyCondition{}, nil
	}

	if expr, ok := strings.CutPrefix(s, "jsonpath="); ok {
		expr = strings.TrimPrefix(expr, ".")

		parts := strings.SplitN(expr, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid --for value %q: jsonpath format is jsonpath=.path=value", s)
		}

		return jsonpathCondition{path: parts[0], value: parts[1]}, nil
	}

	return nil, fmt.Errorf("invalid --for value %q: must be \"healthy\" or \"jsonpath=.path=value\"", s)
}

type healthyCondition struct{}

func (healthyCondition) match([]byte) bool { return false }
func (healthyCondition) String() string    { return "healthy" }

// jsonpathCondition waits for a gjson path to match a value.
type jsonpathCondition struct {
	path  string
	value string
}

func (j jsonpathCondition) match(data []byte) bool {
	return strings.EqualFold(gjson.GetBytes(data, j.path).String(), j.value)
}

func (j jsonpathCondition) String() string {
	return fmt.Sprintf("jsonpath=%s=%s", j.path, j.value)
}
