package client

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a .env file into the process environment
	// before config is read, if one exists.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix selects which environment variables configure the client,
// e.g. RAVEN_BASE_URL, RAVEN_MAX_NEW_TOKENS.
const envPrefix = "RAVEN_"

// Config holds the inference client configuration.
//
// The `koanf` tags map environment variables (with the RAVEN_ prefix
// stripped and lowercased) onto fields; the `validate` tags are enforced by
// go-playground/validator when the config is loaded or a client is built.
type Config struct {
	// BaseURL is the root URL of a text-generation-inference compatible
	// endpoint serving NexusRavenV2.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `koanf:"timeout_seconds" validate:"gte=0"`

	// MaxNewTokens caps the completion length.
	MaxNewTokens int `koanf:"max_new_tokens" validate:"gte=0"`

	// Temperature controls sampling. NexusRavenV2 is intended to run
	// near-deterministically for function calling.
	Temperature float64 `koanf:"temperature" validate:"gte=0"`

	// TopP is the nucleus sampling parameter. Zero means unset.
	TopP float64 `koanf:"top_p" validate:"gte=0,lte=1"`

	// DoSample enables sampling instead of greedy decoding.
	DoSample bool `koanf:"do_sample"`

	// Stop are the generation stop sequences.
	Stop []string `koanf:"stop"`

	// EnableHTTP2 switches the client to an HTTP/2 transport.
	EnableHTTP2 bool `koanf:"enable_http2"`
}

// DefaultConfig returns the configuration NexusRavenV2 is normally served
// with: greedy decoding, generation ending at the <bot_end> marker.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds: 120,
		MaxNewTokens:   2048,
		Temperature:    0.001,
		Stop:           []string{"<bot_end>"},
	}
}

// LoadConfig builds a Config from defaults overlaid with RAVEN_-prefixed
// environment variables and validates the result.
func LoadConfig() (Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// configValidate is the shared struct validator for Config.
var configValidate = validator.New()

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
