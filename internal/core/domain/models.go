package domain

import "time"

// AuthMethod records how the browser session was authenticated.
type AuthMethod string

const (
	AuthCookies     AuthMethod = "cookies"
	AuthInteractive AuthMethod = "interactive"
)

// Selection is the outcome of picking the next file from the media queue.
type Selection struct {
	Path  string // path to the media file
	Index int    // position in this run's queue snapshot
	Total int    // queue length for this run
}

// SessionStatus describes an established browser session.
type SessionStatus struct {
	Authenticated bool
	Method        AuthMethod
}

// Cookie is a single session cookie record as supplied in the cookie file.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
}

// PublishResult holds the outcome of a publish attempt.
// Warning carries advisory failure text detected after a successful click;
// it does not flip Posted to false.
type PublishResult struct {
	Posted  bool
	Warning string
}

// DiagnosticBundle points at the artifacts captured on failure.
// Empty paths mean that particular capture did not succeed.
type DiagnosticBundle struct {
	Screenshot string
	Markup     string
	CapturedAt time.Time
}

// RunResult holds the outcome of a completed posting run.
type RunResult struct {
	RunID        string
	File         Selection
	Session      SessionStatus
	Publish      PublishResult
	Success      bool
	ErrorMessage string
	CompletedAt  time.Time
}
