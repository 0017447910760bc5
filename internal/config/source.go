package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source looks up raw configuration values. ok is false when the key is
// absent; a present key may hold a string, a number, or a list.
type Source interface {
	Lookup(key string) (value any, ok bool)
}

// Env reads from the process environment.
type Env struct{}

func (Env) Lookup(key string) (any, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil, false
	}
	return v, true
}

// SecretsFile is a flat YAML map of keys to values, e.g.
//
//	GEMINI_API_KEYS:
//	  - key-one
//	  - key-two
//	ACCESS_PASSWORD: hunter2
type SecretsFile map[string]any

func (s SecretsFile) Lookup(key string) (any, bool) {
	v, ok := s[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// LoadSecretsFile reads a SecretsFile from path. A missing file yields an
// empty SecretsFile.
func LoadSecretsFile(path string) (SecretsFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return SecretsFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}

	secrets := SecretsFile{}
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}
	return secrets, nil
}

// Chain returns the first hit across its sources.
type Chain []Source

func (c Chain) Lookup(key string) (any, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
