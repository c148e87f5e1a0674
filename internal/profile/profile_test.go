package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		p := &Profile{Mode: "bogus", Port: 8081, Data: t.TempDir()}
		require.NoError(t, p.Validate())

		assert.Equal(t, "demo", p.Mode)
		assert.Equal(t, "sqlite", p.Driver)
		assert.Equal(t, "http://localhost:8081", p.InstanceURL)
		assert.Equal(t, "http://localhost:8081/auth/google/callback", p.GoogleRedirectURL)
		assert.Equal(t, "default", p.DefaultUserID)
		assert.Equal(t, filepath.Join(p.Data, "concierge_demo.db"), p.DSN)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		p := &Profile{
			Mode:              "prod",
			Port:              9000,
			Data:              t.TempDir(),
			DSN:               "/tmp/custom.db",
			InstanceURL:       "https://concierge.example.com",
			GoogleRedirectURL: "https://concierge.example.com/oauth/cb",
			DefaultUserID:     "ops",
		}
		require.NoError(t, p.Validate())

		assert.Equal(t, "prod", p.Mode)
		assert.Equal(t, "/tmp/custom.db", p.DSN)
		assert.Equal(t, "https://concierge.example.com", p.InstanceURL)
		assert.Equal(t, "https://concierge.example.com/oauth/cb", p.GoogleRedirectURL)
		assert.Equal(t, "ops", p.DefaultUserID)
	})

	t.Run("redirect derives from instance url", func(t *testing.T) {
		p := &Profile{Mode: "dev", Port: 8081, Data: t.TempDir(), InstanceURL: "https://c.example.com/"}
		require.NoError(t, p.Validate())
		assert.Equal(t, "https://c.example.com/auth/google/callback", p.GoogleRedirectURL)
	})

	t.Run("rejects missing data dir", func(t *testing.T) {
		p := &Profile{Mode: "prod", Data: "/nonexistent/path/for/sure"}
		assert.Error(t, p.Validate())
	})
}

func TestIsDev(t *testing.T) {
	assert.True(t, (&Profile{Mode: "dev"}).IsDev())
	assert.True(t, (&Profile{Mode: "demo"}).IsDev())
	assert.False(t, (&Profile{Mode: "prod"}).IsDev())
}

func TestIsConfigured(t *testing.T) {
	p := &Profile{}
	assert.False(t, p.IsLLMConfigured())
	assert.False(t, p.IsGoogleConfigured())

	p.LLMAPIKey = "sk-test"
	p.GoogleClientID = "cid"
	assert.True(t, p.IsLLMConfigured())
	assert.False(t, p.IsGoogleConfigured())

	p.GoogleClientSecret = "secret"
	assert.True(t, p.IsGoogleConfigured())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CONCIERGE_LLM_API_KEY", "sk-env")
	t.Setenv("CONCIERGE_LLM_CHAT_MODEL", "gpt-4o")
	t.Setenv("CONCIERGE_DEFAULT_USER_ID", "env-user")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "sk-env", p.LLMAPIKey)
	assert.Equal(t, "gpt-4o", p.LLMChatModel)
	assert.Equal(t, "https://api.openai.com/v1", p.LLMBaseURL)
	assert.Equal(t, "env-user", p.DefaultUserID)
}
