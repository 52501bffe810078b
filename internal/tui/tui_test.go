// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestTheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		theme Theme
		want  bool
	}{
		{ThemeDefault, true},
		{ThemeCharm, true},
		{ThemeDracula, true},
		{ThemeCatppuccin, true},
		{ThemeBase16, true},
		{"", false},
		{"invalid", false},
		{"DEFAULT", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.theme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.theme.IsValid()
			if isValid != tt.want {
				t.Errorf("Theme(%q).IsValid() = %v, want %v", tt.theme, isValid, tt.want)
			}
			if tt.want {
				return
			}
			if len(errs) == 0 || !errors.Is(errs[0], ErrInvalidTheme) {
				t.Errorf("Theme(%q).IsValid() errors = %v, want ErrInvalidTheme", tt.theme, errs)
			}
		})
	}
}

func TestGetHuhTheme(t *testing.T) {
	t.Parallel()

	for _, theme := range []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16, "unknown"} {
		if getHuhTheme(theme) == nil {
			t.Errorf("getHuhTheme(%q) returned nil", theme)
		}
	}
}

func TestGetOutputWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if w := getOutputWriter(Config{Output: &buf}); w != &buf {
		t.Error("explicit Output should be returned as-is")
	}
	if w := getOutputWriter(Config{Accessible: true}); w != os.Stderr {
		t.Error("accessible prompts should write to stderr")
	}
	if w := getOutputWriter(Config{}); w != os.Stdout {
		t.Error("default prompts should write to stdout")
	}
}

func TestGetInputReader(t *testing.T) {
	t.Parallel()

	r := strings.NewReader("y\n")
	if getInputReader(Config{Input: r}) != r {
		t.Error("explicit Input should be returned as-is")
	}
	if getInputReader(Config{}) != os.Stdin {
		t.Error("default input should be stdin")
	}
}

func TestConfig_Interactive(t *testing.T) {
	t.Parallel()

	if !(Config{IsTerminal: func() bool { return true }}).interactive() {
		t.Error("IsTerminal hook returning true should be honored")
	}
	if (Config{IsTerminal: func() bool { return false }}).interactive() {
		t.Error("IsTerminal hook returning false should be honored")
	}
}
