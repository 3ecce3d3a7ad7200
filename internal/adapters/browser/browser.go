package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Timeouts groups the bounded waits and retry parameters of a run. The
// publish-control search and the settle intervals are configuration, not
// embedded literals, because the target UI signals nothing reliably.
type Timeouts struct {
	Nav             time.Duration // navigation and selector-visibility waits
	Upload          time.Duration // attachment-accepted marker wait
	Settle          time.Duration // fixed settle after upload and after click
	Poll            time.Duration // probe polling interval
	PublishAttempts int           // bounded publish-control search attempts
	PublishBackoff  time.Duration // backoff between search attempts
}

// WithDefaults fills in zero fields.
func (t Timeouts) WithDefaults() Timeouts {
	if t.Nav <= 0 {
		t.Nav = 60 * time.Second
	}
	if t.Upload <= 0 {
		t.Upload = 30 * time.Second
	}
	if t.Settle <= 0 {
		t.Settle = 5 * time.Second
	}
	if t.Poll <= 0 {
		t.Poll = 500 * time.Millisecond
	}
	if t.PublishAttempts <= 0 {
		t.PublishAttempts = 8
	}
	if t.PublishBackoff <= 0 {
		t.PublishBackoff = 2 * time.Second
	}
	return t
}

// Options builds the Chromium launch options. The automation-control flag
// is disabled so the target site sees an ordinary browser.
func Options(headful bool) []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !headful),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("mute-audio", true),
		chromedp.WindowSize(1400, 900),
	)
}

// Browser owns one Chromium instance with a single tab. The tab context is
// the value threaded through every stage of a run; Close releases the
// browser on every exit path.
type Browser struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// New launches the browser and opens its tab. The tab context derives from
// parent, so cancelling parent tears the browser down too.
func New(parent context.Context, headful bool, logger *zap.Logger) (*Browser, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, Options(headful)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Sugar().Debugf(format, args...)
		}),
	)

	// Start the browser eagerly so launch failures surface here, not on
	// the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Browser{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		logger:      logger.Named("browser"),
	}, nil
}

// Context returns the tab context used to drive chromedp actions.
func (b *Browser) Context() context.Context {
	return b.tabCtx
}

// Close shuts the tab and the browser process down.
func (b *Browser) Close() {
	b.tabCancel()
	b.allocCancel()
	b.logger.Debug("Browser closed")
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
