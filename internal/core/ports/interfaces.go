package ports

import (
	"context"

	"xposter/internal/core/domain"
)

// Selector defines the contract for picking the next media file to post.
type Selector interface {
	// SelectNext resolves the next file in round-robin order.
	// Returns domain.ErrEmptyQueue when no eligible file exists.
	// Side effect: reads and rewrites the persisted cursor.
	SelectNext(ctx context.Context) (domain.Selection, error)
}

// SessionProvider defines the contract for establishing an authenticated
// browser session, by cookie injection or interactive login.
type SessionProvider interface {
	// EnsureAuthenticated probes for an existing session and falls back to
	// interactive login. Returns domain.ErrLoginFailed when neither path
	// yields an authenticated-state marker.
	EnsureAuthenticated(ctx context.Context) (domain.SessionStatus, error)
}

// Publisher defines the contract for uploading a media file and driving
// the publish sequence against the target UI.
type Publisher interface {
	// Publish uploads filePath, optionally types text into the compose box,
	// and clicks the publish control once it becomes enabled.
	Publish(ctx context.Context, filePath, text string) (domain.PublishResult, error)
}

// Diagnostics defines the contract for capturing failure artifacts.
type Diagnostics interface {
	// Capture writes a visual snapshot and a markup dump tagged with tag.
	// It never fails: capture errors are swallowed and logged so they cannot
	// mask the original failure.
	Capture(ctx context.Context, tag string) domain.DiagnosticBundle
}

// Notifier defines the contract for the external alerting collaborator.
// The core hands over the triggering error and accumulated log lines;
// transport mechanics live behind this interface.
type Notifier interface {
	Notify(ctx context.Context, runErr error, logTail []string) error
}
