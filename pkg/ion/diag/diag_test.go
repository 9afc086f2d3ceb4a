package diag

import (
	"strings"
	"testing"

	"ion-lang/ionc/pkg/ion/token"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "with source and position",
			err: &Error{
				Kind:    KindParse,
				Message: "unexpected token RBRACE",
				Source:  "demo.ion",
				Pos:     token.Position{Line: 4, Column: 1},
			},
			want: []string{"[parse] unexpected token RBRACE", "--> demo.ion:4:1"},
		},
		{
			name: "position without source",
			err: &Error{
				Kind:    KindLex,
				Message: "unterminated string literal",
				Pos:     token.Position{Line: 2, Column: 10},
			},
			want: []string{"[lex] unterminated string literal", "--> 2:10"},
		},
		{
			name: "suggestion included",
			err: &Error{
				Kind:       KindSemantic,
				Message:    "unknown effect 'Databse'",
				Pos:        token.Position{Line: 1, Column: 20},
				Suggestion: "Did you mean 'Database'?",
			},
			want: []string{"= suggestion: Did you mean 'Database'?"},
		},
		{
			name: "no position at all",
			err:  &Error{Kind: KindGenerate, Message: "target exploded"},
			want: []string{"[generate] target exploded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Error() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestListSeverity(t *testing.T) {
	l := NewList()
	l.AddWarning(KindSemantic, "match on Result does not cover Error", token.Position{Line: 3, Column: 5})

	if l.HasErrors() {
		t.Error("HasErrors() = true for a warning-only list")
	}
	if err := l.ToError(); err != nil {
		t.Errorf("ToError() = %v for a warning-only list, want nil", err)
	}
	if got := len(l.Warnings()); got != 1 {
		t.Errorf("len(Warnings()) = %d, want 1", got)
	}

	l.AddError(KindSemantic, "duplicate function 'f'", token.Position{Line: 9, Column: 1})
	if !l.HasErrors() {
		t.Error("HasErrors() = false after adding an error")
	}
	if err := l.ToError(); err == nil {
		t.Error("ToError() = nil after adding an error")
	}
	if got := l.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}

func TestListHasKind(t *testing.T) {
	l := NewList()
	l.AddError(KindParse, "boom", token.Position{Line: 1, Column: 1})

	if !l.HasKind(KindParse) {
		t.Error("HasKind(KindParse) = false, want true")
	}
	if l.HasKind(KindSemantic) {
		t.Error("HasKind(KindSemantic) = true, want false")
	}
}

func TestSuggestEffect(t *testing.T) {
	tests := []struct {
		name    string
		unknown string
		want    string
	}{
		{name: "close typo", unknown: "Databse", want: "Did you mean 'Database'?"},
		{name: "lowercase", unknown: "network", want: "Did you mean 'Network'?"},
		{name: "far off lists valid names", unknown: "Quux", want: "Valid names include:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestEffect(tt.unknown)
			if !strings.Contains(got, tt.want) {
				t.Errorf("SuggestEffect(%q) = %q, want it to contain %q", tt.unknown, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"Database", "Databse", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.s1, tt.s2); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}
