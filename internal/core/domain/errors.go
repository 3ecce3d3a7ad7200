package domain

import "errors"

// Fatal run conditions. Each one terminates the run; callers match with
// errors.Is to decide exit behavior.
var (
	// ErrEmptyQueue means the media directory holds no eligible files.
	ErrEmptyQueue = errors.New("no eligible media files in directory")

	// ErrLoginFailed means no authenticated-state marker was present after
	// both cookie injection and interactive login. Never retried: repeated
	// failed logins risk account lockout.
	ErrLoginFailed = errors.New("login failed: authenticated-state marker not found")

	// ErrUploadRejected means the attachment-accepted marker never appeared
	// after attaching the file.
	ErrUploadRejected = errors.New("upload rejected: attachment marker never appeared")

	// ErrPublishControlNotFound means the bounded retry loop exhausted its
	// attempts without finding an enabled publish control.
	ErrPublishControlNotFound = errors.New("no enabled publish control found")
)
