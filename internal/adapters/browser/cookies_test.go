package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xposter/internal/core/domain"
)

func TestLoadCookieFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	payload := `[
		{"name":"auth_token","value":"abc","domain":".x.com","path":"/","httpOnly":true,"secure":true},
		{"name":"ct0","value":"def","domain":".x.com","path":"/","expires":1893456000}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0600))

	cookies, err := LoadCookieFile(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.True(t, cookies[0].HTTPOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, float64(1893456000), cookies[1].Expires)
}

func TestLoadCookieFileMissing(t *testing.T) {
	_, err := LoadCookieFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadCookieFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0600))
	_, err := LoadCookieFile(path)
	assert.Error(t, err)
}

func TestAliasCopyRewritesBothWays(t *testing.T) {
	c := domain.Cookie{Name: "auth_token", Value: "abc", Domain: ".twitter.com", Path: "/", Secure: true}
	alias, ok := aliasCopy(c)
	require.True(t, ok)
	assert.Equal(t, ".x.com", alias.Domain)
	// Everything but the domain is preserved.
	assert.Equal(t, c.Name, alias.Name)
	assert.Equal(t, c.Value, alias.Value)
	assert.Equal(t, c.Path, alias.Path)
	assert.True(t, alias.Secure)

	back, ok := aliasCopy(alias)
	require.True(t, ok)
	assert.Equal(t, ".twitter.com", back.Domain)
}

func TestAliasCopyForeignDomain(t *testing.T) {
	_, ok := aliasCopy(domain.Cookie{Name: "x", Domain: ".example.com"})
	assert.False(t, ok)
}
