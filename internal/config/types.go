// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/modpm/modpm/pkg/settings"
)

const (
	// ThemeDefault uses huh's default theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

var (
	// ErrInvalidTheme is returned when a Theme value is not recognized.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidModulesPath is returned when modules_path is not absolute.
	ErrInvalidModulesPath = errors.New("invalid modules path")
	// ErrInvalidMirror is returned for a blank or non-HTTP mirror entry.
	ErrInvalidMirror = errors.New("invalid mirror")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Theme names the prompt color theme. Defined locally to avoid coupling
	// config to internal/tui; cmd/modpm converts at the boundary.
	Theme string

	// InvalidThemeError is returned when a Theme value is not recognized.
	InvalidThemeError struct {
		Value Theme
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the decoded modpm configuration.
	Config struct {
		// ModulesPath is the storage root. Empty means the settings default.
		ModulesPath string `json:"modules_path,omitempty" mapstructure:"modules_path"`
		// Mirrors is the registry mirror list, tried in random order.
		Mirrors []string `json:"mirrors,omitempty" mapstructure:"mirrors"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose,omitempty" mapstructure:"verbose"`
		// FailOnPrompt turns every confirmation into a failure.
		FailOnPrompt bool `json:"fail_on_prompt,omitempty" mapstructure:"fail_on_prompt"`
		// UI holds presentation options.
		UI UIConfig `json:"ui,omitempty" mapstructure:"ui"`
	}

	// UIConfig holds presentation options.
	UIConfig struct {
		Theme Theme `json:"theme,omitempty" mapstructure:"theme"`
	}
)

// Themes returns every valid Theme.
func Themes() []Theme {
	return []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16}
}

// String returns the string representation of the Theme.
func (t Theme) String() string { return string(t) }

// Validate returns an error if the Theme is not one of Themes.
func (t Theme) Validate() error {
	if !slices.Contains(Themes(), t) {
		return &InvalidThemeError{Value: t}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme %q (valid: default, charm, dracula, catppuccin, base16)", e.Value)
}

// Unwrap returns ErrInvalidTheme for errors.Is() compatibility.
func (e *InvalidThemeError) Unwrap() error { return ErrInvalidTheme }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the constraints environment overrides can break after the
// file itself passed the schema.
func (c *Config) Validate() error {
	var errs []error

	if c.ModulesPath != "" && !filepath.IsAbs(c.ModulesPath) {
		errs = append(errs, fmt.Errorf("%w: %q is not absolute", ErrInvalidModulesPath, c.ModulesPath))
	}
	for _, m := range c.Mirrors {
		trimmed := strings.TrimSpace(m)
		if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidMirror, m))
		}
	}
	if err := c.UI.Theme.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		ModulesPath:  "",
		Mirrors:      slices.Clone(settings.DefaultMirrors),
		Verbose:      false,
		FailOnPrompt: false,
		UI: UIConfig{
			Theme: ThemeDefault,
		},
	}
}
