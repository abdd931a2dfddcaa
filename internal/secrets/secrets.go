// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves generation API keys. Keys live in a directory of
// plain-text files (one file per key: the filename is the key name, the
// trimmed contents are the value) and in provider environment variables;
// the package maps each AI provider to both locations.
//
// Key files: gemini-api-key, openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// Key file names recognized by the generation backends.
const (
	KeyGemini    = "gemini-api-key"
	KeyOpenAI    = "openai-api-key"
	KeyAnthropic = "anthropic-api-key"
)

// KeyFile returns the key file name holding the provider's API key. An
// unknown provider maps to the Gemini key, matching the backend default.
func KeyFile(provider types.AIProvider) string {
	switch provider {
	case types.ProviderOpenAI:
		return KeyOpenAI
	case types.ProviderAnthropic:
		return KeyAnthropic
	default:
		return KeyGemini
	}
}

// EnvVar returns the environment variable conventionally holding the
// provider's API key.
func EnvVar(provider types.AIProvider) string {
	switch provider {
	case types.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case types.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// Load reads every file in dir into a map of filename to trimmed contents.
// A missing directory yields an empty map, not an error. Unreadable files
// warn on stderr and are skipped, as are dotfiles, subdirectories, and
// files with blank contents.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
