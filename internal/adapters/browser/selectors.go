package browser

// X.com DOM selectors and URLs.
// The markup changes without notice, so every control is described by a
// prioritized candidate list rather than a single selector; the probe
// primitives take the first match. Update these when posting breaks.

const (
	// PrimaryDomain and AliasDomain are the two canonical hostnames the
	// target site answers on. Cookies are applied to both.
	PrimaryDomain = "x.com"
	AliasDomain   = "twitter.com"

	homeURL    = "https://x.com/home"
	loginURL   = "https://x.com/login"
	composeURL = "https://x.com/compose/post"
)

// Authenticated-state markers. Any one of these present means the session
// is logged in.
var authenticatedMarkers = []string{
	`[data-testid="SideNav_NewTweet_Button"]`,
	`[data-testid="AppTabBar_Profile_Link"]`,
	`[data-testid="SideNav_AccountSwitcher_Button"]`,
	`[data-testid="tweetTextarea_0"]`,
	`[data-testid="primaryColumn"] [role="toolbar"]`,
}

// Login form fields. The identifier field appears first; the secret field
// only after the identifier step succeeds.
var (
	identifierFieldCandidates = []string{
		`input[autocomplete="username"]`,
		`input[name="text"]`,
		`input[name="session[username_or_email]"]`,
	}
	passwordFieldCandidates = []string{
		`input[autocomplete="current-password"]`,
		`input[name="password"]`,
		`input[name="session[password]"]`,
	}
)

// Compose surface.
var (
	composeMarkers = []string{
		`[data-testid="tweetTextarea_0"]`,
		`div[role="textbox"][data-testid^="tweetTextarea"]`,
		`div[aria-label="Post text"]`,
	}
	// The file input is present but not visible, so it is probed for
	// presence, not visibility.
	fileInputCandidates = []string{
		`input[data-testid="fileInput"]`,
		`input[type="file"][accept*="image"]`,
		`input[type="file"]`,
	}
	attachmentMarkers = []string{
		`[data-testid="attachments"]`,
		`div[data-testid="attachments"] img`,
		`div[data-testid="attachments"] video`,
	}
)

// Publish control discovery. The scan covers real buttons and ARIA button
// roles; the label match identifies the publish control among them.
var (
	publishLabels = []string{"post", "tweet", "post all", "tweet all"}

	publishScanSelector = `button, [role="button"], input[type="submit"]`
)

// Post-click failure scan (advisory only).
var (
	alertSelectors = []string{
		`[role="alert"]`,
		`[data-testid="toast"]`,
		`div[role="alertdialog"]`,
	}
	failureKeywords = []string{"error", "failed", "try again"}
)
