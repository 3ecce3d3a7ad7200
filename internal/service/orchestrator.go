package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"xposter/internal/core/domain"
	"xposter/internal/core/ports"
)

// Orchestrator coordinates one posting run: select the next media file,
// establish an authenticated session, publish. Strictly sequential; the
// cursor has already advanced by the time anything can fail, so a failed
// publish still consumes the slot.
type Orchestrator struct {
	selector  ports.Selector
	session   ports.SessionProvider
	publisher ports.Publisher
	diag      ports.Diagnostics
	notifier  ports.Notifier
	logTail   func() []string
	postText  string
	logger    *zap.Logger
}

// NewOrchestrator wires the run pipeline. logTail supplies the recent log
// lines handed to the notifier on failure; it may be nil.
func NewOrchestrator(
	selector ports.Selector,
	session ports.SessionProvider,
	publisher ports.Publisher,
	diag ports.Diagnostics,
	notifier ports.Notifier,
	logTail func() []string,
	postText string,
	logger *zap.Logger,
) *Orchestrator {
	if logTail == nil {
		logTail = func() []string { return nil }
	}
	return &Orchestrator{
		selector:  selector,
		session:   session,
		publisher: publisher,
		diag:      diag,
		notifier:  notifier,
		logTail:   logTail,
		postText:  postText,
		logger:    logger,
	}
}

// Run executes a complete posting run. ctx must be the browser tab
// context so every stage drives the same page.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunResult, error) {
	runID := uuid.New().String()
	log := o.logger.With(zap.String("run_id", runID))
	result := &domain.RunResult{RunID: runID}

	log.Info("Starting posting run")

	sel, err := o.selector.SelectNext(ctx)
	if err != nil {
		// No page activity has happened yet, so no diagnostic capture.
		return o.fail(ctx, log, result, err, false)
	}
	result.File = sel
	log.Info("Media selected", zap.String("file", sel.Path), zap.Int("index", sel.Index), zap.Int("total", sel.Total))

	status, err := o.session.EnsureAuthenticated(ctx)
	if err != nil {
		return o.fail(ctx, log, result, err, true)
	}
	result.Session = status

	pub, err := o.publisher.Publish(ctx, sel.Path, o.postText)
	if err != nil {
		return o.fail(ctx, log, result, err, true)
	}
	result.Publish = pub
	result.Success = pub.Posted
	result.CompletedAt = time.Now().UTC()

	if pub.Warning != "" {
		log.Warn("Run completed with advisory warning", zap.String("warning", pub.Warning))
	}
	log.Info("Run completed", zap.Bool("posted", pub.Posted))
	return result, nil
}

// fail finalizes a failed run: best-effort diagnostics where a page
// exists, then the alerting collaborator, then the error propagates.
func (o *Orchestrator) fail(ctx context.Context, log *zap.Logger, result *domain.RunResult, runErr error, capture bool) (*domain.RunResult, error) {
	result.ErrorMessage = runErr.Error()
	result.CompletedAt = time.Now().UTC()
	log.Error("Run failed", zap.Error(runErr))

	if capture && !errors.Is(runErr, domain.ErrEmptyQueue) {
		o.diag.Capture(ctx, "run-failed")
	}
	if err := o.notifier.Notify(ctx, runErr, o.logTail()); err != nil {
		log.Warn("Alert notification failed", zap.Error(err))
	}
	return result, runErr
}
