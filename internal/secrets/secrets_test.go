// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-engine/pkg/types"
)

func writeKey(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o644))
}

func TestLoadReadsAndTrimsKeys(t *testing.T) {
	dir := t.TempDir()
	writeKey(t, dir, KeyGemini, "  AIzaSyAbc123  \n")
	writeKey(t, dir, KeyOpenAI, "sk-proj-xyz789")
	writeKey(t, dir, KeyAnthropic, "sk-ant-def456\n")

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		KeyGemini:    "AIzaSyAbc123",
		KeyOpenAI:    "sk-proj-xyz789",
		KeyAnthropic: "sk-ant-def456",
	}, got)
}

func TestLoadMissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadSkips(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
		want  map[string]string
	}{
		{
			name: "blank values",
			setup: func(t *testing.T, dir string) {
				writeKey(t, dir, KeyGemini, "valid-key")
				writeKey(t, dir, "empty-key", "")
				writeKey(t, dir, "spaces-only", "   \n\t  ")
			},
			want: map[string]string{KeyGemini: "valid-key"},
		},
		{
			name: "dotfiles",
			setup: func(t *testing.T, dir string) {
				writeKey(t, dir, ".gitkeep", "")
				writeKey(t, dir, ".hidden-key", "secret")
				writeKey(t, dir, KeyOpenAI, "sk-real")
			},
			want: map[string]string{KeyOpenAI: "sk-real"},
		},
		{
			name: "subdirectories",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
				writeKey(t, dir, KeyAnthropic, "sk-ant-123")
			},
			want: map[string]string{KeyAnthropic: "sk-ant-123"},
		},
		{
			name:  "everything in an empty directory",
			setup: func(t *testing.T, dir string) {},
			want:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)
			got, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not bind root")
	}
	dir := t.TempDir()
	writeKey(t, dir, KeyGemini, "value123")

	badPath := filepath.Join(dir, KeyOpenAI)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "value123", got[KeyGemini])
	assert.NotContains(t, got, KeyOpenAI, "unreadable file should be skipped")
}

func TestKeyFile(t *testing.T) {
	assert.Equal(t, KeyGemini, KeyFile(types.ProviderGemini))
	assert.Equal(t, KeyOpenAI, KeyFile(types.ProviderOpenAI))
	assert.Equal(t, KeyAnthropic, KeyFile(types.ProviderAnthropic))
	assert.Equal(t, KeyGemini, KeyFile(types.AIProvider("")), "unset provider maps to the default backend key")
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "GEMINI_API_KEY", EnvVar(types.ProviderGemini))
	assert.Equal(t, "OPENAI_API_KEY", EnvVar(types.ProviderOpenAI))
	assert.Equal(t, "ANTHROPIC_API_KEY", EnvVar(types.ProviderAnthropic))
	assert.Equal(t, "GEMINI_API_KEY", EnvVar(types.AIProvider("unknown")))
}
