// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmOptions configures the Confirm component.
type ConfirmOptions struct {
	// Title is the question/prompt to display.
	Title string
	// Description provides additional context below the title.
	Description string
	// Affirmative is the text for the affirmative option (default: "Yes").
	Affirmative string
	// Negative is the text for the negative option (default: "No").
	Negative string
	// Default is the default value (true for yes, false for no).
	Default bool
	// Config holds common TUI configuration.
	Config Config
}

// runForm is replaced in tests; huh needs a real terminal otherwise.
var runForm = func(ctx context.Context, f *huh.Form) error {
	return f.RunWithContext(ctx)
}

// Confirm asks a yes/no question and returns the answer.
func Confirm(ctx context.Context, opts ConfirmOptions) (bool, error) {
	if !opts.Config.interactive() {
		return false, ErrNoTerminal
	}

	form := newConfirmForm(&opts)
	result := opts.Default
	form.confirm.Value(&result)

	if err := runForm(ctx, form.Form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrAborted
		}
		return false, fmt.Errorf("confirm: %w", err)
	}
	return result, nil
}

type confirmForm struct {
	*huh.Form
	confirm *huh.Confirm
}

func newConfirmForm(opts *ConfirmOptions) confirmForm {
	if opts.Affirmative == "" {
		opts.Affirmative = "Yes"
	}
	if opts.Negative == "" {
		opts.Negative = "No"
	}

	c := huh.NewConfirm().
		Title(opts.Title).
		Affirmative(opts.Affirmative).
		Negative(opts.Negative)
	if opts.Description != "" {
		c = c.Description(opts.Description)
	}

	f := huh.NewForm(huh.NewGroup(c)).
		WithTheme(getHuhTheme(opts.Config.Theme)).
		WithAccessible(opts.Config.Accessible).
		WithInput(getInputReader(opts.Config)).
		WithOutput(getOutputWriter(opts.Config))

	return confirmForm{Form: f, confirm: c}
}
