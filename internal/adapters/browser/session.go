package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"xposter/internal/core/domain"
	"xposter/internal/core/ports"
)

// passwordFieldWait bounds the first wait for the secret field; when it
// does not appear the identifier step is assumed to need repeating.
const passwordFieldWait = 15 * time.Second

// SessionProvider implements ports.SessionProvider against the live site.
// It prefers injected cookies, probes for an already-authenticated session,
// and only then drives the interactive login form.
type SessionProvider struct {
	logger   *zap.Logger
	diag     ports.Diagnostics
	cfg      Timeouts
	cookies  []domain.Cookie
	username string
	password string

	// Step functions are fields so tests can substitute them.
	applyFn    func(ctx context.Context) int
	probeFn    func(ctx context.Context) bool
	loginFn    func(ctx context.Context) error
	navigateFn func(ctx context.Context, url string) error
}

// NewSessionProvider builds a provider. cookies may be nil; username and
// password may be empty when cookies are expected to suffice.
func NewSessionProvider(cookies []domain.Cookie, username, password string, cfg Timeouts, diag ports.Diagnostics, logger *zap.Logger) *SessionProvider {
	p := &SessionProvider{
		logger:   logger.Named("session"),
		diag:     diag,
		cfg:      cfg.WithDefaults(),
		cookies:  cookies,
		username: username,
		password: password,
	}
	p.applyFn = p.applyCookies
	p.probeFn = p.probeAuthenticated
	p.loginFn = p.interactiveLogin
	p.navigateFn = p.navigate
	return p
}

// EnsureAuthenticated establishes an authenticated session. Login is a
// last resort and is never retried: a failed attempt is fatal for the run.
func (p *SessionProvider) EnsureAuthenticated(ctx context.Context) (domain.SessionStatus, error) {
	method := domain.AuthCookies
	if len(p.cookies) > 0 {
		applied := p.applyFn(ctx)
		p.logger.Info("Applied session cookies", zap.Int("applied", applied), zap.Int("records", len(p.cookies)))
	}

	if err := p.navigateFn(ctx, homeURL); err != nil {
		return domain.SessionStatus{}, fmt.Errorf("authenticated landing surface unreachable: %w", err)
	}

	if p.probeFn(ctx) {
		p.logger.Info("Session already authenticated", zap.String("method", string(method)))
		return domain.SessionStatus{Authenticated: true, Method: method}, nil
	}

	if p.username == "" || p.password == "" {
		p.diag.Capture(ctx, "login-failed")
		return domain.SessionStatus{}, fmt.Errorf("%w: no credentials available for interactive login", domain.ErrLoginFailed)
	}

	p.logger.Info("No authenticated-state marker found, attempting interactive login")
	if err := p.loginFn(ctx); err != nil {
		p.diag.Capture(ctx, "login-failed")
		return domain.SessionStatus{}, fmt.Errorf("%w: %v", domain.ErrLoginFailed, err)
	}

	if !p.probeFn(ctx) {
		p.diag.Capture(ctx, "login-failed")
		return domain.SessionStatus{}, fmt.Errorf("%w: marker absent after interactive login", domain.ErrLoginFailed)
	}

	return domain.SessionStatus{Authenticated: true, Method: domain.AuthInteractive}, nil
}

func (p *SessionProvider) navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, p.cfg.Nav)
	defer cancel()
	return chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	)
}

// applyCookies injects every cookie record for the primary domain plus a
// domain-rewritten copy for the alias, so both hostnames work
// interchangeably. Individual failures are swallowed: a handful of bad
// records must not abort session establishment.
func (p *SessionProvider) applyCookies(ctx context.Context) int {
	applied := 0
	for _, c := range p.cookies {
		variants := []domain.Cookie{c}
		if alias, ok := aliasCopy(c); ok {
			variants = append(variants, alias)
		}
		for _, v := range variants {
			if err := setCookie(ctx, v); err != nil {
				p.logger.Warn("Failed to apply cookie",
					zap.String("name", v.Name), zap.String("domain", v.Domain), zap.Error(err))
				continue
			}
			applied++
		}
	}
	return applied
}

func setCookie(ctx context.Context, c domain.Cookie) error {
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		param := network.SetCookie(c.Name, c.Value).
			WithDomain(c.Domain).
			WithPath(c.Path).
			WithHTTPOnly(c.HTTPOnly).
			WithSecure(c.Secure)
		if c.Expires > 0 {
			exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			param = param.WithExpires(&exp)
		}
		return param.Do(ctx)
	}))
}

// probeAuthenticated checks for any authenticated-state marker.
func (p *SessionProvider) probeAuthenticated(ctx context.Context) bool {
	sel, err := FirstVisible(ctx, authenticatedMarkers, p.cfg.Nav, p.cfg.Poll)
	if err != nil {
		p.logger.Debug("Authenticated-state probe found no marker", zap.Error(err))
		return false
	}
	p.logger.Debug("Authenticated-state marker present", zap.String("selector", sel))
	return true
}

// interactiveLogin drives the two-step login form: identifier, then
// secret. When the secret field does not appear in time, the identifier
// step is cleared and repeated once before giving up.
func (p *SessionProvider) interactiveLogin(ctx context.Context) error {
	if err := p.navigateFn(ctx, loginURL); err != nil {
		return fmt.Errorf("login page unreachable: %w", err)
	}

	idSel, err := FirstVisible(ctx, identifierFieldCandidates, p.cfg.Nav, p.cfg.Poll)
	if err != nil {
		return fmt.Errorf("identifier field never appeared: %w", err)
	}
	if err := chromedp.Run(ctx, chromedp.SendKeys(idSel, p.username+kb.Enter, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to submit identifier: %w", err)
	}

	pwSel, err := FirstVisible(ctx, passwordFieldCandidates, passwordFieldWait, p.cfg.Poll)
	if err != nil {
		p.logger.Warn("Secret field did not appear, repeating identifier step")
		retrySel, retryErr := FirstVisible(ctx, identifierFieldCandidates, passwordFieldWait, p.cfg.Poll)
		if retryErr != nil {
			return fmt.Errorf("secret field never appeared and identifier field is gone: %w", err)
		}
		if err := chromedp.Run(ctx,
			chromedp.Clear(retrySel, chromedp.ByQuery),
			chromedp.SendKeys(retrySel, p.username+kb.Enter, chromedp.ByQuery),
		); err != nil {
			return fmt.Errorf("failed to repeat identifier step: %w", err)
		}
		pwSel, err = FirstVisible(ctx, passwordFieldCandidates, p.cfg.Nav, p.cfg.Poll)
		if err != nil {
			return fmt.Errorf("secret field never appeared: %w", err)
		}
	}

	if err := chromedp.Run(ctx, chromedp.SendKeys(pwSel, p.password+kb.Enter, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to submit secret: %w", err)
	}

	// Let the post-login navigation settle before the caller re-probes.
	return sleep(ctx, p.cfg.Settle)
}
