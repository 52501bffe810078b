// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

const (
	// ThemeDefault uses the default huh theme.
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
	// ErrNoTerminal is returned when a prompt is requested but stdin is not a terminal.
	ErrNoTerminal = errors.New("stdin is not a terminal")
	// ErrAborted is returned when the user aborts a prompt (ctrl+c).
	ErrAborted = errors.New("prompt aborted")
	// ErrInvalidTheme is returned when a Theme value is not recognized.
	ErrInvalidTheme = errors.New("invalid theme")
)

type (
	// Theme represents the visual theme for TUI components.
	Theme string

	// InvalidThemeError is returned when a Theme value is not recognized.
	InvalidThemeError struct {
		Value Theme
	}

	// Config holds common configuration for TUI components.
	Config struct {
		// Theme specifies the visual theme to use.
		Theme Theme
		// Accessible enables accessible mode for screen readers.
		Accessible bool
		// Input is where answers are read from. Nil means stdin.
		Input io.Reader
		// Output specifies where to write the component output. Nil picks
		// stdout, or stderr in accessible mode.
		Output io.Writer
		// IsTerminal reports whether a human can answer. Nil checks stdin.
		IsTerminal func() bool
	}
)

// DefaultConfig returns the default configuration for TUI components.
// Accessible mode is enabled when the ACCESSIBLE environment variable is set.
func DefaultConfig() Config {
	return Config{
		Theme:      ThemeDefault,
		Accessible: os.Getenv("ACCESSIBLE") != "",
	}
}

// IsValid returns whether the Theme is one of the defined themes.
func (t Theme) IsValid() (bool, []error) {
	switch t {
	case ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16:
		return true, nil
	default:
		return false, []error{&InvalidThemeError{Value: t}}
	}
}

// String returns the string representation of the Theme.
func (t Theme) String() string { return string(t) }

// Error implements the error interface.
func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme %q", e.Value)
}

// Unwrap returns ErrInvalidTheme for errors.Is() compatibility.
func (e *InvalidThemeError) Unwrap() error { return ErrInvalidTheme }

// isInputTerminal returns true if stdin is connected to a terminal.
// Returns false when running inside command substitution ($()) or pipes.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (c Config) interactive() bool {
	if c.IsTerminal != nil {
		return c.IsTerminal()
	}
	return isInputTerminal()
}

// getOutputWriter returns cfg.Output, or the writer prompts use by default.
// Accessible prompts go to stderr so they are not captured by $().
func getOutputWriter(cfg Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}
	if cfg.Accessible {
		return os.Stderr
	}
	return os.Stdout
}

func getInputReader(cfg Config) io.Reader {
	if cfg.Input != nil {
		return cfg.Input
	}
	return os.Stdin
}

// getHuhTheme converts a Theme to a huh.Theme.
func getHuhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}
