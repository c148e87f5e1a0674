package profile

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
// It is constructed once at startup and passed by reference into each
// component's constructor; no component reads ambient environment state.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where concierge stores its own data
	DSN string
	// Driver is the database driver (sqlite)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the public url of this concierge instance.
	// OAuth callbacks redirect back to it.
	InstanceURL string

	// DefaultUserID is the user credited with unauthenticated commands.
	// Requests may override it with the X-User-Id header.
	DefaultUserID string

	// LLM configuration
	LLMAPIKey    string // CONCIERGE_LLM_API_KEY
	LLMBaseURL   string // CONCIERGE_LLM_BASE_URL (default: https://api.openai.com/v1)
	LLMChatModel string // CONCIERGE_LLM_CHAT_MODEL (default: gpt-4o-mini)

	// Google OAuth configuration
	GoogleClientID     string // CONCIERGE_GOOGLE_CLIENT_ID
	GoogleClientSecret string // CONCIERGE_GOOGLE_CLIENT_SECRET
	GoogleRedirectURL  string // CONCIERGE_GOOGLE_REDIRECT_URL
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMConfigured returns true if an LLM API key is present.
func (p *Profile) IsLLMConfigured() bool {
	return p.LLMAPIKey != ""
}

// IsGoogleConfigured returns true if the Google OAuth client is configured.
func (p *Profile) IsGoogleConfigured() bool {
	return p.GoogleClientID != "" && p.GoogleClientSecret != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from CONCIERGE_* environment variables.
func (p *Profile) FromEnv() {
	p.DefaultUserID = getEnvOrDefault("CONCIERGE_DEFAULT_USER_ID", p.DefaultUserID)
	p.InstanceURL = getEnvOrDefault("CONCIERGE_INSTANCE_URL", p.InstanceURL)

	p.LLMAPIKey = getEnvOrDefault("CONCIERGE_LLM_API_KEY", p.LLMAPIKey)
	p.LLMBaseURL = getEnvOrDefault("CONCIERGE_LLM_BASE_URL", "https://api.openai.com/v1")
	p.LLMChatModel = getEnvOrDefault("CONCIERGE_LLM_CHAT_MODEL", "gpt-4o-mini")

	p.GoogleClientID = getEnvOrDefault("CONCIERGE_GOOGLE_CLIENT_ID", p.GoogleClientID)
	p.GoogleClientSecret = getEnvOrDefault("CONCIERGE_GOOGLE_CLIENT_SECRET", p.GoogleClientSecret)
	p.GoogleRedirectURL = getEnvOrDefault("CONCIERGE_GOOGLE_REDIRECT_URL", p.GoogleRedirectURL)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}

	if p.InstanceURL == "" {
		p.InstanceURL = fmt.Sprintf("http://localhost:%d", p.Port)
	} else if _, err := url.Parse(p.InstanceURL); err != nil {
		return errors.Wrapf(err, "invalid instance url %s", p.InstanceURL)
	}

	if p.GoogleRedirectURL == "" {
		p.GoogleRedirectURL = strings.TrimRight(p.InstanceURL, "/") + "/auth/google/callback"
	}

	if p.DefaultUserID == "" {
		p.DefaultUserID = "default"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("concierge_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
