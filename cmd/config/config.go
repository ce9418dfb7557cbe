// Package config loads content-7z.toml into models.Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/content7z/internal/archiver"
	"github.com/mattsolo1/content7z/internal/workflow"
	"github.com/mattsolo1/content7z/pkg/models"
)

// FileName is the default configuration file, relative to ~/.config.
const FileName = "content-7z.toml"

var (
	cfgFile  string
	validate = validator.New()
)

// AddGlobalFlags registers --config on cmd.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/"+FileName+")")
}

// File returns the --config flag value.
func File() string {
	return cfgFile
}

// DefaultPath returns $HOME/.config/content-7z.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, ".config", FileName)
}

// Load reads the configuration at path, or the default location when path is
// empty. A missing default file yields the defaults; a missing explicit file
// is an error.
func Load(path string) (*models.Config, error) {
	v := viper.New()
	setupViper(v)

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		missing := errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg models.Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		hexColorHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper) {
	// C7Z_ALWAYS_OVERWRITE=true overrides always-overwrite.
	v.SetEnvPrefix("C7Z")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("background-color", models.DefaultBackgroundColor)
	v.SetDefault("border-color", models.DefaultBorderColor)
	v.SetDefault("text-color", models.DefaultTextColor)
	v.SetDefault("flag-color", models.DefaultFlagColor)
	v.SetDefault("file-bullet", models.DefaultFileBullet)
	v.SetDefault("folder-bullet", models.DefaultFolderBullet)
	v.SetDefault("dialog-helper", workflow.DefaultDialogHelper)
	v.SetDefault("editor", "")
	v.SetDefault("always-overwrite", false)
	v.SetDefault("confirm-open", true)
	v.SetDefault("tool", archiver.DefaultTool)
	v.SetDefault("log-level", models.DefaultLogLevel)
	v.SetDefault("log-file", "")
}

// hexColorHook lets colors be written as "#rrggbb" as well as [r, g, b].
func hexColorHook() mapstructure.DecodeHookFuncType {
	intSlice := reflect.TypeOf([]int(nil))
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		s, ok := data.(string)
		if !ok || to != intSlice || !strings.HasPrefix(s, "#") {
			return data, nil
		}
		return models.ParseHex(s)
	}
}

// Validate checks cfg against its struct tags.
func Validate(cfg *models.Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}

// ResolveEditor returns the configured editor, falling back to $VISUAL and
// then $EDITOR.
func ResolveEditor(cfg *models.Config) string {
	if e := strings.TrimSpace(cfg.Editor); e != "" {
		return e
	}
	if e := strings.TrimSpace(os.Getenv("VISUAL")); e != "" {
		return e
	}
	return strings.TrimSpace(os.Getenv("EDITOR"))
}
