package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutsWithDefaults(t *testing.T) {
	cfg := Timeouts{}.WithDefaults()
	assert.Equal(t, 60*time.Second, cfg.Nav)
	assert.Equal(t, 30*time.Second, cfg.Upload)
	assert.Equal(t, 5*time.Second, cfg.Settle)
	assert.Equal(t, 500*time.Millisecond, cfg.Poll)
	assert.Equal(t, 8, cfg.PublishAttempts)
	assert.Equal(t, 2*time.Second, cfg.PublishBackoff)
}

func TestTimeoutsWithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Timeouts{PublishAttempts: 10, PublishBackoff: 3 * time.Second}.WithDefaults()
	assert.Equal(t, 10, cfg.PublishAttempts)
	assert.Equal(t, 3*time.Second, cfg.PublishBackoff)
	assert.Equal(t, 60*time.Second, cfg.Nav)
}

func TestOptionsTogglesHeadless(t *testing.T) {
	assert.NotEmpty(t, Options(false))
	assert.NotEmpty(t, Options(true))
}
