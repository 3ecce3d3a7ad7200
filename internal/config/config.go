package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects everything a run needs. Values come from environment
// variables (a .env file is loaded in main when present); the CLI flags
// in cmd override the directory, cookie file, post text, and headful
// switch.
type Config struct {
	MediaDir       string
	CookiesFile    string
	Username       string
	Password       string
	PostText       string
	DiagnosticsDir string
	AlertCommand   string
	Headful        bool

	NavTimeout      time.Duration
	UploadTimeout   time.Duration
	SettleInterval  time.Duration
	PublishAttempts int
	PublishBackoff  time.Duration
}

// Load reads the configuration from the environment, applying defaults
// for the retry and wait parameters.
func Load() Config {
	return Config{
		MediaDir:       envOr("MEDIA_DIR", "./media"),
		CookiesFile:    os.Getenv("COOKIES_FILE"),
		Username:       os.Getenv("X_USERNAME"),
		Password:       os.Getenv("X_PASSWORD"),
		PostText:       os.Getenv("POST_TEXT"),
		DiagnosticsDir: os.Getenv("DIAGNOSTICS_DIR"),
		AlertCommand:   os.Getenv("ALERT_COMMAND"),
		Headful:        envBool("HEADFUL"),

		NavTimeout:      envSeconds("NAV_TIMEOUT_SECONDS", 60),
		UploadTimeout:   envSeconds("UPLOAD_TIMEOUT_SECONDS", 30),
		SettleInterval:  envSeconds("SETTLE_SECONDS", 5),
		PublishAttempts: envInt("PUBLISH_ATTEMPTS", 8),
		PublishBackoff:  envSeconds("PUBLISH_BACKOFF_SECONDS", 2),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envSeconds(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Second
}
