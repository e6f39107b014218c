package framework

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"k8s.io/klog/v2"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/util"
)

const (
	selectorEmail    = `input[type="email"]`
	selectorPassword = `input[type="password"]`
	selectorSubmit   = `button[type="submit"]`
	// selectorAuthenticated is the heading every signed-in landing page renders.
	selectorAuthenticated = "h2"

	locationPollInterval = 100 * time.Millisecond

	clearStorageScript = `(() => {
	try { window.localStorage.clear(); } catch (e) {}
	try { window.sessionStorage.clear(); } catch (e) {}
	return true;
})()`
)

// Page is one browser tab.
type Page struct {
	opts BrowserOptions

	mu     sync.Mutex
	state  SessionState
	ctx    context.Context
	cancel context.CancelFunc
}

func (p *Page) State() SessionState {
	if p == nil {
		return StateClosed
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

func (p *Page) setState(s SessionState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateClosed {
		p.state = s
	}
}

// run executes actions bounded by timeout and by ctx. A blown bound is ErrAutomationTimeout.
func (p *Page) run(ctx context.Context, timeout time.Duration, what string, actions ...chromedp.Action) error {
	if p.State() == StateClosed {
		return ErrSessionClosed
	}

	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err == nil {
		return nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %s after %s", ErrAutomationTimeout, what, timeout)
	}

	return fmt.Errorf("%s: %w", what, err)
}

func (p *Page) resolve(target string) string {
	if util.IsHTTPOrHTTPSURL(target) {
		return target
	}

	return util.JoinURL(p.opts.BaseURL, target)
}

// Navigate loads target, a path relative to BaseURL or an absolute URL.
func (p *Page) Navigate(ctx context.Context, target string) error {
	u := p.resolve(target)
	klog.V(3).Infof("Navigating to %s", u)

	return p.run(ctx, p.opts.NavigationTimeout, "navigate to "+u,
		chromedp.Navigate(u),
		chromedp.WaitReady("body", chromedp.ByQuery))
}

// ClearSession deletes every cookie of the browser and empties local and
// session storage. Storage errors, e.g. on about:blank, are ignored.
func (p *Page) ClearSession(ctx context.Context) error {
	if err := p.run(ctx, p.opts.DefaultTimeout, "clear cookies", network.ClearBrowserCookies()); err != nil {
		return err
	}

	var cleared bool
	if err := p.run(ctx, p.opts.DefaultTimeout, "clear storage", chromedp.Evaluate(clearStorageScript, &cleared)); err != nil {
		klog.V(3).Infof("Ignoring storage clear failure: %v", err)
	}

	p.setState(StatePageReady)

	return nil
}

// SubmitLogin clears the session, opens the login page of baseURL, fills in
// creds and submits the form without waiting for the outcome.
func (p *Page) SubmitLogin(ctx context.Context, baseURL string, creds Credentials) error {
	if err := p.ClearSession(ctx); err != nil {
		return err
	}

	loginURL := util.JoinURL(baseURL, "/login")
	if err := p.run(ctx, p.opts.NavigationTimeout, "open login page", chromedp.Navigate(loginURL)); err != nil {
		return err
	}

	if err := p.run(ctx, p.opts.LoginFieldTimeout, "wait for login form",
		chromedp.WaitVisible(selectorEmail, chromedp.ByQuery)); err != nil {
		return err
	}

	return p.run(ctx, p.opts.DefaultTimeout, "submit login form",
		chromedp.SendKeys(selectorEmail, creds.Email, chromedp.ByQuery),
		chromedp.SendKeys(selectorPassword, creds.Password, chromedp.ByQuery),
		chromedp.Click(selectorSubmit, chromedp.ByQuery))
}

// Login signs in through the login form and waits until the app has left
// /login and rendered its authenticated heading.
func (p *Page) Login(ctx context.Context, baseURL string, creds Credentials) error {
	if err := p.SubmitLogin(ctx, baseURL, creds); err != nil {
		return err
	}

	if err := p.waitForPathChange(ctx, "/login", p.opts.NavigationTimeout); err != nil {
		return err
	}

	if err := p.WaitVisible(ctx, selectorAuthenticated, p.opts.NavigationTimeout); err != nil {
		return err
	}

	p.setState(StateAuthenticated)
	klog.V(2).Infof("Signed in as %s", creds.Email)

	return nil
}

// InjectToken installs token as the session cookie for baseURL, skipping the login form.
func (p *Page) InjectToken(ctx context.Context, baseURL, token string) error {
	err := p.run(ctx, p.opts.DefaultTimeout, "set session cookie",
		network.SetCookie(v1.SessionCookieName, token).
			WithURL(baseURL).
			WithPath("/").
			WithHTTPOnly(true))
	if err != nil {
		return err
	}

	p.setState(StateAuthenticated)

	return nil
}

func (p *Page) waitForPathChange(ctx context.Context, from string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		if u, err := p.URL(ctx); err == nil && util.URLPath(u) != from {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: still on %s after %s", ErrAutomationTimeout, from, timeout)
		}

		time.Sleep(locationPollInterval)
	}
}

// WaitVisible waits for selector to be visible. A zero timeout uses the default.
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout == 0 {
		timeout = p.opts.DefaultTimeout
	}

	return p.run(ctx, timeout, "wait for "+selector, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// WaitForPath waits until the current path equals path.
func (p *Page) WaitForPath(ctx context.Context, path string, timeout time.Duration) error {
	if timeout == 0 {
		timeout = p.opts.NavigationTimeout
	}

	deadline := time.Now().Add(timeout)

	for {
		if u, err := p.URL(ctx); err == nil && util.URLPath(u) == path {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: path did not become %s within %s", ErrAutomationTimeout, path, timeout)
		}

		time.Sleep(locationPollInterval)
	}
}

// Text returns the trimmed text of the first element matching selector.
func (p *Page) Text(ctx context.Context, selector string) (string, error) {
	var text string

	err := p.run(ctx, p.opts.DefaultTimeout, "read text of "+selector,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Text(selector, &text, chromedp.ByQuery))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// Texts returns the trimmed text of every element matching selector, possibly none.
func (p *Page) Texts(ctx context.Context, selector string) ([]string, error) {
	var texts []string

	script := fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(el => el.textContent.trim())`, jsString(selector))
	if err := p.run(ctx, p.opts.DefaultTimeout, "read texts of "+selector, chromedp.Evaluate(script, &texts)); err != nil {
		return nil, err
	}

	return texts, nil
}

// Exists reports whether selector matches anything right now, without waiting.
func (p *Page) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool

	script := fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(selector))
	if err := p.run(ctx, p.opts.DefaultTimeout, "query "+selector, chromedp.Evaluate(script, &found)); err != nil {
		return false, err
	}

	return found, nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	return p.run(ctx, p.opts.DefaultTimeout, "click "+selector,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery))
}

// ClickText clicks the first visible button or link whose text is text.
func (p *Page) ClickText(ctx context.Context, text string) error {
	lit := xpathString(text)
	xpath := fmt.Sprintf(`//button[normalize-space(.)=%s] | //a[normalize-space(.)=%s]`, lit, lit)

	return p.run(ctx, p.opts.DefaultTimeout, fmt.Sprintf("click %q", text),
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Click(xpath, chromedp.BySearch))
}

// Type replaces the value of the input matching selector.
func (p *Page) Type(ctx context.Context, selector, value string) error {
	return p.run(ctx, p.opts.DefaultTimeout, "type into "+selector,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery))
}

// URL returns the current location.
func (p *Page) URL(ctx context.Context) (string, error) {
	var u string
	if err := p.run(ctx, p.opts.DefaultTimeout, "read location", chromedp.Location(&u)); err != nil {
		return "", err
	}

	return u, nil
}

// Path returns the path of the current location.
func (p *Page) Path(ctx context.Context) (string, error) {
	u, err := p.URL(ctx)
	if err != nil {
		return "", err
	}

	return util.URLPath(u), nil
}

func (p *Page) Back(ctx context.Context) error {
	return p.run(ctx, p.opts.NavigationTimeout, "navigate back",
		chromedp.NavigateBack(),
		chromedp.WaitReady("body", chromedp.ByQuery))
}

func (p *Page) Forward(ctx context.Context) error {
	return p.run(ctx, p.opts.NavigationTimeout, "navigate forward",
		chromedp.NavigateForward(),
		chromedp.WaitReady("body", chromedp.ByQuery))
}

func (p *Page) Reload(ctx context.Context) error {
	return p.run(ctx, p.opts.NavigationTimeout, "reload",
		chromedp.Reload(),
		chromedp.WaitReady("body", chromedp.ByQuery))
}

// Title returns the document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	var title string
	if err := p.run(ctx, p.opts.DefaultTimeout, "read title", chromedp.Title(&title)); err != nil {
		return "", err
	}

	return title, nil
}

// FieldValid reports the constraint-validation state of the form field matching selector.
func (p *Page) FieldValid(ctx context.Context, selector string) (bool, error) {
	var valid bool

	script := fmt.Sprintf(`document.querySelector(%s).validity.valid`, jsString(selector))
	if err := p.run(ctx, p.opts.DefaultTimeout, "check validity of "+selector, chromedp.Evaluate(script, &valid)); err != nil {
		return false, err
	}

	return valid, nil
}

// RecordedRequest is one request the page sent.
type RecordedRequest struct {
	Method string
	URL    string
}

// RequestRecorder collects the requests a page sends after RecordRequests.
type RequestRecorder struct {
	mu       sync.Mutex
	requests []RecordedRequest
}

func (r *RequestRecorder) add(req RecordedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, req)
}

func (r *RequestRecorder) Requests() []RecordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]RecordedRequest(nil), r.requests...)
}

// Count returns how many recorded requests used method and had a path ending in pathSuffix.
func (r *RequestRecorder) Count(method, pathSuffix string) int {
	n := 0

	for _, req := range r.Requests() {
		if req.Method == method && strings.HasSuffix(util.URLPath(req.URL), pathSuffix) {
			n++
		}
	}

	return n
}

func (r *RequestRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = nil
}

// RecordRequests starts recording every request the page sends.
func (p *Page) RecordRequests(ctx context.Context) (*RequestRecorder, error) {
	rec := &RequestRecorder{}

	chromedp.ListenTarget(p.ctx, func(ev interface{}) {
		if e, ok := ev.(*network.EventRequestWillBeSent); ok && e.Request != nil {
			rec.add(RecordedRequest{Method: e.Request.Method, URL: e.Request.URL})
		}
	})

	if err := p.run(ctx, p.opts.DefaultTimeout, "enable network events", network.Enable()); err != nil {
		return nil, err
	}

	return rec, nil
}

// CaptureArtifacts writes a screenshot and the page HTML into dir and returns
// the written paths. Whatever could be captured is written even on error.
func (p *Page) CaptureArtifacts(ctx context.Context, dir, name string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact dir: %w", err)
	}

	base := filepath.Join(dir, sanitizeFileName(name))

	var (
		paths []string
		errs  []error
		shot  []byte
		html  string
	)

	if err := p.run(ctx, p.opts.DefaultTimeout, "capture screenshot", chromedp.CaptureScreenshot(&shot)); err != nil {
		errs = append(errs, err)
	} else if err := os.WriteFile(base+".png", shot, 0o644); err != nil {
		errs = append(errs, err)
	} else {
		paths = append(paths, base+".png")
	}

	if err := p.run(ctx, p.opts.DefaultTimeout, "capture html", chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		errs = append(errs, err)
	} else if err := os.WriteFile(base+".html", []byte(html), 0o644); err != nil {
		errs = append(errs, err)
	} else {
		paths = append(paths, base+".html")
	}

	for _, path := range paths {
		klog.Infof("Saved browser artifact %s", path)
	}

	return paths, errors.Join(errs...)
}

// Close closes the tab. It is safe on a nil or already closed Page and after a failed operation.
func (p *Page) Close() error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return nil
	}

	p.state = StateClosed

	if p.ctx != nil {
		if err := chromedp.Cancel(p.ctx); err != nil {
			klog.V(3).Infof("Page close reported: %v", err)
		}

		p.cancel()
	}

	return nil
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// xpathString quotes s as an XPath 1.0 literal.
func xpathString(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts))

	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}

		quoted = append(quoted, "'"+part+"'")
	}

	return "concat(" + strings.Join(quoted, ", ") + ")"
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, name)
}
