package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"xposter/internal/core/domain"
)

type fakeSelector struct {
	sel domain.Selection
	err error
}

func (f *fakeSelector) SelectNext(ctx context.Context) (domain.Selection, error) {
	return f.sel, f.err
}

type fakeSession struct {
	status domain.SessionStatus
	err    error
	calls  int
}

func (f *fakeSession) EnsureAuthenticated(ctx context.Context) (domain.SessionStatus, error) {
	f.calls++
	return f.status, f.err
}

type fakePublisher struct {
	res   domain.PublishResult
	err   error
	calls int
	text  string
	path  string
}

func (f *fakePublisher) Publish(ctx context.Context, filePath, text string) (domain.PublishResult, error) {
	f.calls++
	f.path = filePath
	f.text = text
	return f.res, f.err
}

type fakeDiag struct {
	tags []string
}

func (f *fakeDiag) Capture(ctx context.Context, tag string) domain.DiagnosticBundle {
	f.tags = append(f.tags, tag)
	return domain.DiagnosticBundle{Screenshot: "/tmp/" + tag + ".png"}
}

type fakeNotifier struct {
	errs  []error
	tails [][]string
}

func (f *fakeNotifier) Notify(ctx context.Context, runErr error, logTail []string) error {
	f.errs = append(f.errs, runErr)
	f.tails = append(f.tails, logTail)
	return nil
}

func newFixture() (*fakeSelector, *fakeSession, *fakePublisher, *fakeDiag, *fakeNotifier) {
	return &fakeSelector{sel: domain.Selection{Path: "/media/a.png", Index: 0, Total: 3}},
		&fakeSession{status: domain.SessionStatus{Authenticated: true, Method: domain.AuthCookies}},
		&fakePublisher{res: domain.PublishResult{Posted: true}},
		&fakeDiag{},
		&fakeNotifier{}
}

func TestRunSuccess(t *testing.T) {
	sel, ses, pub, diag, not := newFixture()
	o := NewOrchestrator(sel, ses, pub, diag, not, nil, "hello world", zap.NewNop())

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "/media/a.png", pub.path)
	assert.Equal(t, "hello world", pub.text)
	assert.Empty(t, diag.tags, "no diagnostics on success")
	assert.Empty(t, not.errs, "no alert on success")
	assert.False(t, result.CompletedAt.IsZero())
}

func TestRunEmptyQueueSkipsPublishAndCapture(t *testing.T) {
	sel, ses, pub, diag, not := newFixture()
	sel.err = domain.ErrEmptyQueue
	o := NewOrchestrator(sel, ses, pub, diag, not, nil, "", zap.NewNop())

	result, err := o.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyQueue)
	assert.False(t, result.Success)
	assert.Equal(t, 0, ses.calls)
	assert.Equal(t, 0, pub.calls)
	assert.Empty(t, diag.tags, "no page exists for an empty queue")
	require.Len(t, not.errs, 1)
	assert.ErrorIs(t, not.errs[0], domain.ErrEmptyQueue)
}

func TestRunLoginFailureSkipsPublish(t *testing.T) {
	sel, ses, pub, diag, not := newFixture()
	ses.err = domain.ErrLoginFailed
	o := NewOrchestrator(sel, ses, pub, diag, not, nil, "", zap.NewNop())

	result, err := o.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrLoginFailed)
	assert.Equal(t, 0, pub.calls)
	assert.Equal(t, []string{"run-failed"}, diag.tags)
	assert.NotEmpty(t, result.ErrorMessage)
	require.Len(t, not.errs, 1)
}

func TestRunPublishFailureCapturesAndNotifies(t *testing.T) {
	sel, ses, pub, diag, not := newFixture()
	pub.err = domain.ErrPublishControlNotFound
	tail := func() []string { return []string{"last log line"} }
	o := NewOrchestrator(sel, ses, pub, diag, not, tail, "", zap.NewNop())

	result, err := o.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrPublishControlNotFound)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"run-failed"}, diag.tags)
	require.Len(t, not.tails, 1)
	assert.Equal(t, []string{"last log line"}, not.tails[0])
}

func TestRunAdvisoryWarningStillSucceeds(t *testing.T) {
	sel, ses, pub, diag, not := newFixture()
	pub.res = domain.PublishResult{Posted: true, Warning: "Something went wrong. Try again."}
	o := NewOrchestrator(sel, ses, pub, diag, not, nil, "", zap.NewNop())

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Something went wrong. Try again.", result.Publish.Warning)
	assert.Empty(t, not.errs)
}

func TestRunNotifierErrorDoesNotMaskRunError(t *testing.T) {
	sel, ses, pub, diag, _ := newFixture()
	pub.err = domain.ErrUploadRejected
	o := NewOrchestrator(sel, ses, pub, diag, failingNotifier{}, nil, "", zap.NewNop())

	_, err := o.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrUploadRejected)
}

type failingNotifier struct{}

func (failingNotifier) Notify(ctx context.Context, runErr error, logTail []string) error {
	return errors.New("smtp down")
}
