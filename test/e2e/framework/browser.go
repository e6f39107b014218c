package framework

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"k8s.io/klog/v2"
)

// SessionState tracks a Browser or Page through its lifecycle.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateLaunched
	StatePageReady
	StateAuthenticated
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateLaunched:
		return "Launched"
	case StatePageReady:
		return "PageReady"
	case StateAuthenticated:
		return "Authenticated"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// BrowserOptions configures the browser and the pages it opens.
type BrowserOptions struct {
	// BaseURL resolves relative paths given to Page.Navigate.
	BaseURL        string
	Headless       bool
	ExecPath       string
	ViewportWidth  int
	ViewportHeight int

	LaunchTimeout     time.Duration
	NavigationTimeout time.Duration
	DefaultTimeout    time.Duration
	// LoginFieldTimeout bounds the wait for the login form's email field.
	LoginFieldTimeout time.Duration
}

func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		BaseURL:           DefaultFrontendURL,
		Headless:          true,
		ViewportWidth:     1280,
		ViewportHeight:    800,
		LaunchTimeout:     60 * time.Second,
		NavigationTimeout: 30 * time.Second,
		DefaultTimeout:    30 * time.Second,
		LoginFieldTimeout: 10 * time.Second,
	}
}

// BrowserOptionsFromConfig applies cfg's frontend URL, headless mode and binary to the defaults.
func BrowserOptionsFromConfig(cfg *Config) BrowserOptions {
	opts := DefaultBrowserOptions()
	opts.BaseURL = cfg.FrontendURL
	opts.Headless = cfg.Headless || cfg.CI
	opts.ExecPath = cfg.ChromePath

	return opts
}

var chromeNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// ChromeAvailable reports whether a Chrome binary can be found, either at
// execPath or on PATH.
func ChromeAvailable(execPath string) bool {
	if execPath != "" {
		_, err := exec.LookPath(execPath)
		return err == nil
	}

	for _, name := range chromeNames {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}

	return false
}

// Browser owns one Chrome process. Pages opened from it share its cookies.
type Browser struct {
	opts BrowserOptions

	mu          sync.Mutex
	state       SessionState
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewBrowser(opts BrowserOptions) *Browser {
	defaults := DefaultBrowserOptions()

	if opts.ViewportWidth == 0 || opts.ViewportHeight == 0 {
		opts.ViewportWidth, opts.ViewportHeight = defaults.ViewportWidth, defaults.ViewportHeight
	}
	if opts.LaunchTimeout == 0 {
		opts.LaunchTimeout = defaults.LaunchTimeout
	}
	if opts.NavigationTimeout == 0 {
		opts.NavigationTimeout = defaults.NavigationTimeout
	}
	if opts.DefaultTimeout == 0 {
		opts.DefaultTimeout = defaults.DefaultTimeout
	}
	if opts.LoginFieldTimeout == 0 {
		opts.LoginFieldTimeout = defaults.LoginFieldTimeout
	}

	return &Browser{opts: opts, state: StateUninitialized}
}

func (b *Browser) State() SessionState {
	if b == nil {
		return StateClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *Browser) Options() BrowserOptions {
	return b.opts
}

// Launch starts Chrome. It fails with ErrAutomationTimeout when the browser
// does not come up within LaunchTimeout.
func (b *Browser) Launch(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateUninitialized:
	case StateClosed:
		return ErrSessionClosed
	default:
		return nil
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(b.opts.ViewportWidth, b.opts.ViewportHeight),
	)
	if b.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.opts.ExecPath))
	}

	// The browser outlives ctx; only Close ends it.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			klog.V(4).Infof("[browser] "+format, args...)
		}),
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			klog.V(2).Infof("[browser] "+format, args...)
		}),
	)

	err := await(ctx, b.opts.LaunchTimeout, "browser did not start", func() error {
		return chromedp.Run(browserCtx)
	})
	if err != nil {
		cancel()
		allocCancel()

		return fmt.Errorf("failed to launch browser: %w", err)
	}

	b.ctx, b.cancel, b.allocCancel = browserCtx, cancel, allocCancel
	b.state = StateLaunched

	klog.V(2).Infof("Browser launched (headless=%t)", b.opts.Headless)

	return nil
}

// NewPage opens a tab with the configured viewport. It fails with
// ErrAutomationTimeout when the tab does not answer within DefaultTimeout.
func (b *Browser) NewPage(ctx context.Context) (*Page, error) {
	b.mu.Lock()
	state, browserCtx := b.state, b.ctx
	b.mu.Unlock()

	if state != StateLaunched {
		return nil, fmt.Errorf("%w: browser is %s", ErrSessionClosed, state)
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)

	err := await(ctx, b.opts.DefaultTimeout, "page did not open", func() error {
		return chromedp.Run(tabCtx, chromedp.EmulateViewport(int64(b.opts.ViewportWidth), int64(b.opts.ViewportHeight)))
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Page{
		opts:   b.opts,
		ctx:    tabCtx,
		cancel: cancel,
		state:  StatePageReady,
	}, nil
}

// Close stops Chrome. It is safe on a nil, never launched or already closed Browser.
func (b *Browser) Close() error {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		return nil
	}

	var err error
	if b.ctx != nil {
		err = chromedp.Cancel(b.ctx)
		b.cancel()
		b.allocCancel()
	}

	b.state = StateClosed

	if err != nil {
		klog.V(2).Infof("Browser close reported: %v", err)
	}

	return nil
}

// await runs fn in the background and waits for it, for timeout or for ctx,
// whichever ends first. fn keeps running after a timeout; callers cancel its context.
func await(ctx context.Context, timeout time.Duration, what string, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.C:
		return fmt.Errorf("%w: %s within %s", ErrAutomationTimeout, what, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
