package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/codmetric/codmetricbot/pkg/persistence/middleware"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when --config is not given. A missing default file is not an error.
const DefaultPath = "codmetricbot.yaml"

// Backends accepted by transcript.backend.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the application configuration.
type Config struct {
	LogLevel     string     `yaml:"log_level"`
	MaxInputSize int        `yaml:"max_input_size"`
	Transcript   Transcript `yaml:"transcript"`
	HTTP         HTTP       `yaml:"http"`
	MCP          MCP        `yaml:"mcp"`
}

// EnvTranscriptKey overrides transcript.encryption.key, so the key can stay out of the file.
const EnvTranscriptKey = "CODMETRIC_TRANSCRIPT_KEY"

// Transcript selects where saved conversations go.
type Transcript struct {
	Backend    string     `yaml:"backend"`
	Dir        string     `yaml:"dir"`
	Redis      Redis      `yaml:"redis"`
	Encryption Encryption `yaml:"encryption"`

	// Redact lists regular expressions masked out of saved transcripts.
	Redact []string `yaml:"redact"`
}

// Encryption enables AES-256-GCM at rest when Key is set.
// Keys are base64-encoded 32-byte values.
type Encryption struct {
	Key          string   `yaml:"key"`
	FallbackKeys []string `yaml:"fallback_keys"`
}

// Redis configures the redis transcript backend.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// HTTP configures the serve command.
type HTTP struct {
	Port int `yaml:"port"`
}

// MCP configures the mcp command.
type MCP struct {
	Transport string `yaml:"transport"`
	Port      int    `yaml:"port"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel:     "info",
		MaxInputSize: 4096,
		Transcript: Transcript{
			Backend: BackendFile,
			Dir:     ".",
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "codmetric:transcript:",
			},
		},
		HTTP: HTTP{Port: 8080},
		MCP:  MCP{Transport: "stdio", Port: 8081},
	}
}

// Load reads path over the defaults. When path is empty, DefaultPath is tried
// and silently skipped if it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv(EnvTranscriptKey); key != "" {
		c.Transcript.Encryption.Key = key
	}
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch c.Transcript.Backend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("transcript.backend must be one of file, redis, memory (got %q)", c.Transcript.Backend)
	}

	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("mcp.transport must be stdio or sse (got %q)", c.MCP.Transport)
	}

	if _, err := c.Transcript.EncryptionConfig(); err != nil {
		return err
	}
	for _, p := range c.Transcript.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("transcript.redact: %w", err)
		}
	}

	if c.MaxInputSize < 0 {
		return fmt.Errorf("max_input_size must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// EncryptionConfig decodes the encryption keys. It returns nil when encryption is off.
func (t Transcript) EncryptionConfig() (*middleware.EncryptionConfig, error) {
	if t.Encryption.Key == "" {
		if len(t.Encryption.FallbackKeys) > 0 {
			return nil, fmt.Errorf("transcript.encryption.fallback_keys requires a key")
		}
		return nil, nil
	}

	active, err := middleware.ParseKey(t.Encryption.Key)
	if err != nil {
		return nil, fmt.Errorf("transcript.encryption.key: %w", err)
	}
	cfg := &middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range t.Encryption.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("transcript.encryption.fallback_keys[%d]: %w", i, err)
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
