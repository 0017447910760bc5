// Package config resolves runtime settings from the environment, an optional
// .env file, and an optional YAML secrets file.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keys understood by Load.
const (
	KeyAPIKeys     = "GEMINI_API_KEYS"
	KeyAPIKey      = "GEMINI_API_KEY"
	KeyPassword    = "ACCESS_PASSWORD"
	KeyDailyLimit  = "MOCKEXAM_DAILY_LIMIT"
	KeyBatchSize   = "MOCKEXAM_BATCH_SIZE"
	KeyProvider    = "MOCKEXAM_PROVIDER"
	KeyAddr        = "MOCKEXAM_ADDR"
	KeyDB          = "MOCKEXAM_DB"
	KeySecretsFile = "MOCKEXAM_SECRETS_FILE"
)

// Config holds the resolved settings.
type Config struct {
	// Credentials is the API key pool, in configured order.
	Credentials []string

	// AccessPassword gates the HTTP surface when non-empty.
	AccessPassword string

	DailyLimit int
	BatchSize  int

	// Provider selects the generation backend: gemini, openai, anthropic, or mock.
	Provider string

	Addr   string
	DBPath string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DailyLimit: 20,
		BatchSize:  20,
		Provider:   "gemini",
		Addr:       ":8080",
	}
}

// FromEnvironment chains the secrets file named by MOCKEXAM_SECRETS_FILE
// (when set) in front of the process environment.
func FromEnvironment() (Source, error) {
	path, ok := Env{}.Lookup(KeySecretsFile)
	if !ok {
		return Env{}, nil
	}
	secrets, err := LoadSecretsFile(path.(string))
	if err != nil {
		return nil, err
	}
	return Chain{secrets, Env{}}, nil
}

// Load resolves a Config from src on top of Default and validates it.
func Load(src Source) (Config, error) {
	cfg := Default()

	if v, ok := src.Lookup(KeyAPIKeys); ok {
		keys, err := decodeKeyList(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", KeyAPIKeys, err)
		}
		cfg.Credentials = keys
	}
	if len(cfg.Credentials) == 0 {
		if v, ok := src.Lookup(KeyAPIKey); ok {
			if k := strings.TrimSpace(fmt.Sprint(v)); k != "" {
				cfg.Credentials = []string{k}
			}
		}
	}

	if v, ok := src.Lookup(KeyPassword); ok {
		cfg.AccessPassword = fmt.Sprint(v)
	}

	var err error
	if cfg.DailyLimit, err = lookupInt(src, KeyDailyLimit, cfg.DailyLimit); err != nil {
		return cfg, err
	}
	if cfg.BatchSize, err = lookupInt(src, KeyBatchSize, cfg.BatchSize); err != nil {
		return cfg, err
	}

	if v, ok := src.Lookup(KeyProvider); ok {
		cfg.Provider = strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
	}
	if v, ok := src.Lookup(KeyAddr); ok {
		cfg.Addr = fmt.Sprint(v)
	}
	if v, ok := src.Lookup(KeyDB); ok {
		cfg.DBPath = fmt.Sprint(v)
	}

	return cfg, cfg.Validate()
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.DailyLimit <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyDailyLimit, c.DailyLimit)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyBatchSize, c.BatchSize)
	}
	switch c.Provider {
	case "gemini", "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("unknown %s %q", KeyProvider, c.Provider)
	}
	return nil
}

// decodeKeyList accepts a native list, a string holding a YAML/JSON flow
// list such as ["k1","k2"], a single quoted key, or a comma-separated string.
func decodeKeyList(v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return cleanKeys(t), nil
	case []any:
		keys := make([]string, 0, len(t))
		for _, item := range t {
			keys = append(keys, fmt.Sprint(item))
		}
		return cleanKeys(keys), nil
	case string:
		return decodeKeyString(t), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func decodeKeyString(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "'") {
		var parsed any
		if err := yaml.Unmarshal([]byte(s), &parsed); err == nil {
			switch p := parsed.(type) {
			case []any:
				keys, _ := decodeKeyList(p)
				return keys
			case string:
				return cleanKeys([]string{p})
			}
		}
	}

	// Comma fallback, also used for flow lists YAML rejects such as [k1,k2.
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return cleanKeys(parts)
}

func cleanKeys(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func lookupInt(src Source, key string, def int) (int, error) {
	v, ok := src.Lookup(key)
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s: unsupported value of type %T", key, v)
	}
}
