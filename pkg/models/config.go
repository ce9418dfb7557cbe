package models

import (
	"fmt"
	"strconv"
)

// Config is the user configuration read from content-7z.toml.
type Config struct {
	BackgroundColor []int `mapstructure:"background-color" validate:"len=3,dive,min=0,max=255"`
	BorderColor     []int `mapstructure:"border-color" validate:"len=3,dive,min=0,max=255"`
	TextColor       []int `mapstructure:"text-color" validate:"len=3,dive,min=0,max=255"`
	FlagColor       []int `mapstructure:"flag-color" validate:"len=3,dive,min=0,max=255"`

	FileBullet   string `mapstructure:"file-bullet" validate:"required"`
	FolderBullet string `mapstructure:"folder-bullet" validate:"required"`

	// DialogHelper is the key legend of the overwrite question.
	DialogHelper string `mapstructure:"dialog-helper"`

	// Editor overrides $VISUAL and $EDITOR.
	Editor          string `mapstructure:"editor"`
	AlwaysOverwrite bool   `mapstructure:"always-overwrite"`
	ConfirmOpen     bool   `mapstructure:"confirm-open"`

	// Tool is the archive program used to list and extract.
	Tool string `mapstructure:"tool" validate:"required"`

	LogLevel string `mapstructure:"log-level" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile  string `mapstructure:"log-file"`
}

// Default colors and glyphs.
var (
	DefaultBackgroundColor = []int{0, 0, 0}
	DefaultBorderColor     = []int{255, 255, 255}
	DefaultTextColor       = []int{200, 200, 200}
	DefaultFlagColor       = []int{200, 200, 200}
)

const (
	DefaultFileBullet   = "▢"
	DefaultFolderBullet = "▸"
	DefaultLogLevel     = "warn"
)

// Hex renders an [r, g, b] triple as "#rrggbb". Missing components are zero.
func Hex(rgb []int) string {
	var c [3]int
	copy(c[:], rgb)
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// ParseHex parses "#rrggbb" into an [r, g, b] triple.
func ParseHex(s string) ([]int, error) {
	if len(s) != 7 || s[0] != '#' {
		return nil, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	rgb := make([]int, 3)
	for i := range rgb {
		n, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", s, err)
		}
		rgb[i] = int(n)
	}
	return rgb, nil
}
