package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"xposter/internal/core/domain"
)

// LoadCookieFile reads a JSON array of cookie records. An empty path means
// no cookies were supplied, which selects the interactive-login path.
func LoadCookieFile(path string) ([]domain.Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file %s: %w", path, err)
	}
	var cookies []domain.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to parse cookie file %s: %w", path, err)
	}
	return cookies, nil
}

// aliasCopy returns a copy of c with its domain rewritten to the other
// canonical hostname, so both x.com and twitter.com carry the session.
// Returns false when the cookie's domain belongs to neither.
func aliasCopy(c domain.Cookie) (domain.Cookie, bool) {
	switch {
	case strings.Contains(c.Domain, AliasDomain):
		c.Domain = strings.Replace(c.Domain, AliasDomain, PrimaryDomain, 1)
		return c, true
	case strings.Contains(c.Domain, PrimaryDomain):
		c.Domain = strings.Replace(c.Domain, PrimaryDomain, AliasDomain, 1)
		return c, true
	default:
		return domain.Cookie{}, false
	}
}
