package framework

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"
)

// WaitOptions configures the wait behavior.
type WaitOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultWaitOptions provides sensible defaults for waiting.
var DefaultWaitOptions = WaitOptions{
	Timeout:  2 * time.Minute,
	Interval: 2 * time.Second,
}

func applyDefaults(opts *WaitOptions) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultWaitOptions.Timeout
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultWaitOptions.Interval
	}
}

// Poll calls check at once and then every opts.Interval until it reports done,
// it fails, or opts.Timeout passes. A check failing because the bound expired
// yields the context error.
func Poll(ctx context.Context, opts WaitOptions, check func(ctx context.Context) (bool, error)) error {
	applyDefaults(&opts)

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		done, err := check(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			return err
		}

		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForHealthy waits for the target's health endpoint to answer 2xx.
func (c *Client) WaitForHealthy(ctx context.Context, opts WaitOptions) error {
	err := Poll(ctx, opts, func(ctx context.Context) (bool, error) {
		if c.CheckHealth(ctx) {
			return true, nil
		}

		klog.V(2).Infof("Waiting for %s to become healthy", c.apiEndpoint)

		return false, nil
	})
	if err != nil {
		return fmt.Errorf("timeout waiting for %s to become healthy: %w", c.apiEndpoint, err)
	}

	return nil
}

// WaitForProjectDeleted waits until the project reads back as not found.
func (c *Client) WaitForProjectDeleted(ctx context.Context, token, id string, opts WaitOptions) error {
	var lastErr error

	err := Poll(ctx, opts, func(ctx context.Context) (bool, error) {
		_, err := c.Projects(token).Get(ctx, id)
		switch {
		case err == nil:
			return false, nil
		case IsNotFound(err):
			return true, nil
		default:
			lastErr = err
			klog.Warningf("Transient error getting project %s: %v", id, err)

			return false, nil
		}
	})
	if err != nil {
		if lastErr != nil {
			return fmt.Errorf("timeout waiting for project %s to be deleted (last error: %w)", id, lastErr)
		}

		return fmt.Errorf("timeout waiting for project %s to be deleted: %w", id, err)
	}

	return nil
}
