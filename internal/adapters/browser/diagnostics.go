package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"xposter/internal/core/domain"
)

// Recorder implements ports.Diagnostics: on any failure it writes a
// full-page screenshot and the rendered markup to a well-known location,
// timestamp-qualified so repeated failures in one run do not overwrite
// each other. Capture never fails — its own errors are logged and
// swallowed because they must not mask the failure being diagnosed.
type Recorder struct {
	dir    string
	logger *zap.Logger
}

// NewRecorder builds a recorder. An empty dir falls back to a poster
// directory under the system temp area.
func NewRecorder(dir string, logger *zap.Logger) *Recorder {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "xposter")
	}
	return &Recorder{dir: dir, logger: logger.Named("diagnostics")}
}

// Capture writes both artifacts and returns whatever succeeded.
func (r *Recorder) Capture(ctx context.Context, tag string) domain.DiagnosticBundle {
	now := time.Now()
	bundle := domain.DiagnosticBundle{CapturedAt: now}
	stamp := now.Format("20060102-150405")

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		r.logger.Warn("Failed to create diagnostics directory", zap.String("dir", r.dir), zap.Error(err))
		return bundle
	}

	shotPath := filepath.Join(r.dir, fmt.Sprintf("%s-%s.png", tag, stamp))
	if err := r.screenshot(ctx, shotPath); err != nil {
		r.logger.Warn("Screenshot capture failed", zap.String("tag", tag), zap.Error(err))
	} else {
		bundle.Screenshot = shotPath
	}

	htmlPath := filepath.Join(r.dir, fmt.Sprintf("%s-%s.html", tag, stamp))
	if err := r.markup(ctx, htmlPath); err != nil {
		r.logger.Warn("Markup capture failed", zap.String("tag", tag), zap.Error(err))
	} else {
		bundle.Markup = htmlPath
	}

	r.logger.Info("Diagnostic bundle captured",
		zap.String("tag", tag),
		zap.String("screenshot", bundle.Screenshot),
		zap.String("markup", bundle.Markup),
	)
	return bundle
}

func (r *Recorder) screenshot(ctx context.Context, path string) error {
	var buf []byte
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

func (r *Recorder) markup(ctx context.Context, path string) error {
	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0644)
}
