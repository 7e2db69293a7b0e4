package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFallbacks(t *testing.T) {
	p := &Profile{
		Mode:   "bogus",
		Driver: "oracle",
		Data:   t.TempDir(),
	}
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
	assert.Equal(t, "sqlite", p.Driver)
	assert.Equal(t, filepath.Join(p.Data, "memorykeeper_demo.db"), p.DSN)
}

func TestValidateKeepsExplicitDSN(t *testing.T) {
	p := &Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   t.TempDir(),
		DSN:    "/tmp/custom.db",
	}
	require.NoError(t, p.Validate())
	assert.Equal(t, "/tmp/custom.db", p.DSN)
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	p := &Profile{
		Mode:   "dev",
		Driver: "postgres",
		Data:   t.TempDir(),
	}
	assert.Error(t, p.Validate())
}

func TestFromEnvDefaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()

	assert.False(t, p.AIEnabled)
	assert.Equal(t, "openai", p.AIProvider)
	assert.Equal(t, "gpt-4o-mini", p.AIChatModel)
	assert.Equal(t, "tts-1", p.AISpeechModel)
	assert.Equal(t, "shimmer", p.AISpeechVoice)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MEMORYKEEPER_AI_ENABLED", "true")
	t.Setenv("MEMORYKEEPER_AI_API_KEY", "sk-test")
	t.Setenv("MEMORYKEEPER_AI_PROVIDER", "deepseek")
	t.Setenv("MEMORYKEEPER_AI_CHAT_MODEL", "deepseek-chat")

	p := &Profile{}
	p.FromEnv()

	assert.True(t, p.AIEnabled)
	assert.Equal(t, "deepseek", p.AIProvider)
	assert.Equal(t, "deepseek-chat", p.AIChatModel)
	assert.True(t, p.IsAIEnabled())
}

func TestIsAIEnabledRequiresKey(t *testing.T) {
	p := &Profile{AIEnabled: true}
	assert.False(t, p.IsAIEnabled())

	p.AIAPIKey = "sk-test"
	assert.True(t, p.IsAIEnabled())
}

func TestIsDev(t *testing.T) {
	assert.True(t, (&Profile{Mode: "dev"}).IsDev())
	assert.True(t, (&Profile{Mode: "demo"}).IsDev())
	assert.False(t, (&Profile{Mode: "prod"}).IsDev())
}
