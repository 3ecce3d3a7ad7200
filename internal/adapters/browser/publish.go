package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"xposter/internal/core/domain"
	"xposter/internal/core/ports"
)

// PublishController implements ports.Publisher as a bounded-retry state
// machine: Navigate, Upload, locate-and-click the publish control, Verify.
// The retry loop exists because the control's enabled state depends on
// asynchronous client-side upload processing with no completion event
// exposed to the automation layer; polling with backoff is the only robust
// strategy against an opaque UI.
type PublishController struct {
	logger *zap.Logger
	diag   ports.Diagnostics
	cfg    Timeouts

	// scanFn is a field so tests can substitute the browser scan.
	scanFn func(ctx context.Context) ([]Control, error)
}

// NewPublishController builds a controller with the given bounds.
func NewPublishController(cfg Timeouts, diag ports.Diagnostics, logger *zap.Logger) *PublishController {
	c := &PublishController{
		logger: logger.Named("publish"),
		diag:   diag,
		cfg:    cfg.WithDefaults(),
	}
	c.scanFn = ScanControls
	return c
}

// Publish uploads filePath and drives the publish sequence. text, when
// non-empty, is typed into the compose box before the upload.
func (c *PublishController) Publish(ctx context.Context, filePath, text string) (domain.PublishResult, error) {
	// Navigate: the compose surface must become visible or the UI is
	// assumed unreachable.
	if err := chromedp.Run(ctx, chromedp.Navigate(composeURL)); err != nil {
		return domain.PublishResult{}, fmt.Errorf("failed to open compose surface: %w", err)
	}
	composeSel, err := FirstVisible(ctx, composeMarkers, c.cfg.Nav, c.cfg.Poll)
	if err != nil {
		return domain.PublishResult{}, fmt.Errorf("compose surface never became visible: %w", err)
	}
	c.logger.Info("Compose surface ready", zap.String("selector", composeSel))

	if text != "" {
		if err := chromedp.Run(ctx,
			chromedp.Click(composeSel, chromedp.ByQuery),
			chromedp.SendKeys(composeSel, text, chromedp.ByQuery),
		); err != nil {
			return domain.PublishResult{}, fmt.Errorf("failed to type post text: %w", err)
		}
	}

	if err := c.upload(ctx, filePath); err != nil {
		return domain.PublishResult{}, err
	}

	ctrl, err := c.locatePublishControl(ctx)
	if err != nil {
		c.diag.Capture(ctx, "publish-control-not-found")
		return domain.PublishResult{}, err
	}

	c.logger.Info("Clicking publish control", zap.String("selector", ctrl.Selector), zap.String("text", ctrl.Text))
	if err := chromedp.Run(ctx, chromedp.Click(ctrl.Selector, chromedp.ByQuery)); err != nil {
		return domain.PublishResult{}, fmt.Errorf("failed to click publish control: %w", err)
	}

	warning := c.verify(ctx)
	return domain.PublishResult{Posted: true, Warning: warning}, nil
}

// upload attaches the file, waits a fixed settle interval (the page emits
// no processing signal), then requires the attachment-accepted marker.
func (c *PublishController) upload(ctx context.Context, filePath string) error {
	inputSel, err := FirstPresent(ctx, fileInputCandidates, c.cfg.Nav, c.cfg.Poll)
	if err != nil {
		return fmt.Errorf("file input not found: %w", err)
	}

	if err := chromedp.Run(ctx,
		chromedp.SetUploadFiles(inputSel, []string{filePath}, chromedp.ByQuery, chromedp.NodeReady),
	); err != nil {
		return fmt.Errorf("failed to attach %s: %w", filePath, err)
	}
	c.logger.Info("File attached", zap.String("file", filePath))

	if err := sleep(ctx, c.cfg.Settle); err != nil {
		return err
	}

	if _, err := FirstVisible(ctx, attachmentMarkers, c.cfg.Upload, c.cfg.Poll); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUploadRejected, err)
	}
	c.logger.Info("Attachment accepted")
	return nil
}

// locatePublishControl runs the bounded retry loop over c.scanFn.
func (c *PublishController) locatePublishControl(ctx context.Context) (Control, error) {
	return locateEnabledControl(ctx, c.cfg.PublishAttempts, c.cfg.PublishBackoff, publishLabels, c.scanFn, c.logger)
}

// locateEnabledControl scans up to attempts times with backoff between
// attempts, returning the first enabled control with a publish-intent
// label. Scan errors count as failed attempts rather than aborting: the
// page may be mid-mutation.
func locateEnabledControl(
	ctx context.Context,
	attempts int,
	backoff time.Duration,
	labels []string,
	scan func(ctx context.Context) ([]Control, error),
	logger *zap.Logger,
) (Control, error) {
	for attempt := 1; attempt <= attempts; attempt++ {
		controls, err := scan(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return Control{}, ctx.Err()
			}
			logger.Warn("Control scan failed", zap.Int("attempt", attempt), zap.Error(err))
		} else if ctrl, ok := ChooseEnabled(controls, labels); ok {
			logger.Debug("Enabled publish control found", zap.Int("attempt", attempt), zap.String("text", ctrl.Text))
			return ctrl, nil
		} else {
			logger.Debug("No enabled publish control yet",
				zap.Int("attempt", attempt), zap.Int("controls", len(controls)))
		}

		if attempt < attempts {
			if err := sleep(ctx, backoff); err != nil {
				return Control{}, err
			}
		}
	}
	return Control{}, fmt.Errorf("%w after %d attempts", domain.ErrPublishControlNotFound, attempts)
}

// verify settles, captures a snapshot, and scans for failure keywords in
// alert and dialog text. The click having occurred is the success signal;
// detected keywords are advisory only and returned as a warning.
func (c *PublishController) verify(ctx context.Context) string {
	if err := sleep(ctx, c.cfg.Settle); err != nil {
		return ""
	}
	c.diag.Capture(ctx, "post-click")

	text, err := c.collectAlertText(ctx)
	if err != nil {
		c.logger.Debug("Alert scan failed", zap.Error(err))
		return ""
	}
	if warning := detectFailureText(text); warning != "" {
		c.logger.Warn("Possible failure text after publish click (advisory only)", zap.String("text", warning))
		return warning
	}
	return ""
}

const alertTextScript = `(function(selectors) {
	const parts = [];
	for (const sel of selectors) {
		let els;
		try { els = document.querySelectorAll(sel); } catch (e) { continue; }
		for (const el of els) {
			const text = (el.innerText || el.textContent || '').trim();
			if (text) parts.push(text);
		}
	}
	return parts.join('\n');
})(%s)`

func (c *PublishController) collectAlertText(ctx context.Context) (string, error) {
	var text string
	script := fmt.Sprintf(alertTextScript, jsonEncode(alertSelectors))
	if err := evaluate(ctx, script, &text); err != nil {
		return "", err
	}
	return text, nil
}

// detectFailureText returns the alert text when it contains a failure
// keyword (case-insensitive substring), otherwise "".
func detectFailureText(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range failureKeywords {
		if strings.Contains(lower, kw) {
			return text
		}
	}
	return ""
}
