// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"testing"
)

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  bool
	}{
		{"https://github.com/alice/markdown", true},
		{"http://example.com/a/b", true},
		{"ssh://git@example.com/a/b.git", true},
		{"git://example.com/a/b", true},
		{"git@github.com:alice/markdown.git", true},
		{"alice.markdown", false},
		{"pcre", false},
		{"ftp://example.com/a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			if got := IsURL(tt.token); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    URLIdent
		wantErr error
	}{
		{raw: "https://github.com/alice/markdown.git", want: URLIdent{Publisher: "alice", Name: "markdown"}},
		{raw: "https://github.com/alice/markdown", want: URLIdent{Publisher: "alice", Name: "markdown"}},
		{raw: "https://gitlab.com/group/sub/tool.git/", want: URLIdent{Publisher: "sub", Name: "tool"}},
		{raw: "git@github.com:bob/regex-utils.git", want: URLIdent{Publisher: "bob", Name: "regex-utils"}},
		{raw: "ssh://git@host:2222/carol/zlib", want: URLIdent{Publisher: "carol", Name: "zlib"}},
		{raw: "https://example.com/solo.git", want: URLIdent{Name: "solo"}},
		{raw: "https://github.com/owner/chart.js.git", want: URLIdent{Publisher: "owner", Name: "chart.js"}},
		{raw: "https://example.com/", wantErr: ErrUnresolvableName},
		{raw: "https://example.com", wantErr: ErrUnresolvableName},
		{raw: "https://example.com/.git", wantErr: ErrUnresolvableName},
		{raw: "https://exa mple.com/%zz", wantErr: ErrInvalidURL},
		{raw: "https:///alice/markdown", wantErr: ErrInvalidURL},
		{raw: "mailto:alice@example.com", wantErr: ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := ParseURL(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseURL(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURL(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseURL(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestURLIdentIdentifier(t *testing.T) {
	t.Parallel()

	if got := (URLIdent{Publisher: "Bob", Name: "regex-utils"}).Identifier(); got != "bob.regex_utils" {
		t.Errorf("Identifier() = %q", got)
	}
	if got := (URLIdent{Name: "Solo"}).Identifier(); got != "solo" {
		t.Errorf("Identifier() = %q", got)
	}
	if got := (URLIdent{Publisher: "my.org", Name: "chart.js"}).Identifier(); got != "my_org.chart_js" {
		t.Errorf("Identifier() = %q", got)
	}
}
