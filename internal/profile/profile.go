package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where memorykeeper stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your memorykeeper instance.
	InstanceURL string

	// AI Configuration
	AIEnabled      bool   // MEMORYKEEPER_AI_ENABLED
	AIProvider     string // MEMORYKEEPER_AI_PROVIDER (default: openai)
	AIAPIKey       string // MEMORYKEEPER_AI_API_KEY
	AIBaseURL      string // MEMORYKEEPER_AI_BASE_URL (default: https://api.openai.com/v1)
	AIChatModel    string // MEMORYKEEPER_AI_CHAT_MODEL (default: gpt-4o-mini)
	AIImageModel   string // MEMORYKEEPER_AI_IMAGE_MODEL (default: gpt-image-1)
	AISpeechModel  string // MEMORYKEEPER_AI_SPEECH_MODEL (default: tts-1)
	AISpeechVoice  string // MEMORYKEEPER_AI_SPEECH_VOICE (default: shimmer)
	AICaptionModel string // MEMORYKEEPER_AI_CAPTION_MODEL (default: gpt-4o-mini)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from MEMORYKEEPER_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("MEMORYKEEPER_AI_ENABLED") == "true"
	p.AIProvider = getEnvOrDefault("MEMORYKEEPER_AI_PROVIDER", "openai")
	p.AIAPIKey = os.Getenv("MEMORYKEEPER_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("MEMORYKEEPER_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIChatModel = getEnvOrDefault("MEMORYKEEPER_AI_CHAT_MODEL", "gpt-4o-mini")
	p.AIImageModel = getEnvOrDefault("MEMORYKEEPER_AI_IMAGE_MODEL", "gpt-image-1")
	p.AISpeechModel = getEnvOrDefault("MEMORYKEEPER_AI_SPEECH_MODEL", "tts-1")
	p.AISpeechVoice = getEnvOrDefault("MEMORYKEEPER_AI_SPEECH_VOICE", "shimmer")
	p.AICaptionModel = getEnvOrDefault("MEMORYKEEPER_AI_CAPTION_MODEL", "gpt-4o-mini")
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

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		p.Driver = "sqlite"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "memorykeeper")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/memorykeeper"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("memorykeeper_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a DSN")
	}

	return nil
}
