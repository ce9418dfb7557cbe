package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/content7z/internal/workflow"
	"github.com/mattsolo1/content7z/pkg/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, models.DefaultBorderColor, cfg.BorderColor)
	assert.Equal(t, models.DefaultFileBullet, cfg.FileBullet)
	assert.Equal(t, models.DefaultFolderBullet, cfg.FolderBullet)
	assert.Equal(t, workflow.DefaultDialogHelper, cfg.DialogHelper)
	assert.Equal(t, "7z", cfg.Tool)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.ConfirmOpen)
	assert.False(t, cfg.AlwaysOverwrite)
}

func TestLoadDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".config", FileName), []byte(`editor = "nano"`), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "nano", cfg.Editor)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
background-color = [10, 20, 30]
text-color = [1, 2, 3]
file-bullet = "-"
folder-bullet = "+"
dialog-helper = "y/n/a"
editor = "hx"
always-overwrite = true
confirm-open = false
log-level = "DEBUG"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 30}, cfg.BackgroundColor)
	assert.Equal(t, []int{1, 2, 3}, cfg.TextColor)
	assert.Equal(t, models.DefaultBorderColor, cfg.BorderColor)
	assert.Equal(t, "-", cfg.FileBullet)
	assert.Equal(t, "+", cfg.FolderBullet)
	assert.Equal(t, "y/n/a", cfg.DialogHelper)
	assert.Equal(t, "hx", cfg.Editor)
	assert.True(t, cfg.AlwaysOverwrite)
	assert.False(t, cfg.ConfirmOpen)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadHexColors(t *testing.T) {
	cfg, err := Load(writeConfig(t, `border-color = "#ff8000"`))
	require.NoError(t, err)
	assert.Equal(t, []int{255, 128, 0}, cfg.BorderColor)

	_, err = Load(writeConfig(t, `border-color = "#nothex"`))
	assert.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short color", `text-color = [1, 2]`},
		{"color out of range", `border-color = [0, 300, 0]`},
		{"empty bullet", `file-bullet = ""`},
		{"unknown level", `log-level = "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, `editor = `))
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("C7Z_ALWAYS_OVERWRITE", "true")
	t.Setenv("C7Z_TOOL", "7zz")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.AlwaysOverwrite)
	assert.Equal(t, "7zz", cfg.Tool)
}

func TestResolveEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "vi")
	assert.Equal(t, "vi", ResolveEditor(&models.Config{}))

	t.Setenv("VISUAL", "code -w")
	assert.Equal(t, "code -w", ResolveEditor(&models.Config{}))
	assert.Equal(t, "emacs", ResolveEditor(&models.Config{Editor: " emacs "}))
}
