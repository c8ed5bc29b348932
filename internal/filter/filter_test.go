package filter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/i18nscan/internal/linemap"
	"github.com/nao1215/i18nscan/internal/model"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already normalized", in: "Hello world", want: "Hello world"},
		{name: "trims ends", in: "  Hello  ", want: "Hello"},
		{name: "collapses inner runs", in: "Hello \n\t  world", want: "Hello world"},
		{name: "non-breaking space counts as whitespace", in: "Hello\u00a0 world", want: "Hello world"},
		{name: "blank", in: " \n\t ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q became %q", got, again)
			}
		})
	}
}

func TestNormalizeQuotes(t *testing.T) {
	t.Parallel()

	got := NormalizeQuotes("“Don’t” ‘stop’")
	want := `"Don't" 'stop'`
	if got != want {
		t.Errorf("NormalizeQuotes() = %q, want %q", got, want)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	ignore := regexp.MustCompile(`^TODO`)
	p := New(Options{MinLength: 3, IgnorePatterns: []*regexp.Regexp{ignore}}, nil)

	tests := []struct {
		name string
		raw  string
		want Reason
	}{
		{name: "prose is admitted", raw: "Welcome back", want: Admitted},
		{name: "prose with punctuation is admitted", raw: "Click here!", want: Admitted},
		{name: "single brace pair is prose", raw: "Use {name} here", want: Admitted},
		{name: "let in prose is admitted", raw: "Please let us know", want: Admitted},
		{name: "empty", raw: "", want: RejectEmpty},
		{name: "whitespace only", raw: "  \n ", want: RejectEmpty},
		{name: "too short", raw: " ab ", want: RejectTooShort},
		{name: "placeholder open leak", raw: "Hello " + model.PlaceholderDirective, want: RejectPlaceholder},
		{name: "placeholder close fragment leak", raw: "Hello " + model.PlaceholderClose, want: RejectPlaceholder},
		{name: "ignore pattern", raw: "TODO fix later", want: RejectIgnored},
		{name: "punctuation only", raw: "--- ... !!!", want: RejectPunctuation},
		{name: "ruby interpolation", raw: "Hello #{name}", want: RejectInterpolation},
		{name: "format interpolation", raw: "Total %{count} items", want: RejectInterpolation},
		{name: "script template interpolation", raw: "Hi ${user}", want: RejectInterpolation},
		{name: "double braces", raw: "{{ user.name }}", want: RejectBraces},
		{name: "relative path", raw: "./assets/logo", want: RejectPath},
		{name: "absolute path", raw: "/users/sign_in", want: RejectPath},
		{name: "single rooted segment", raw: "/home", want: RejectPath},
		{name: "equality operator", raw: "a == b", want: RejectCode},
		{name: "arrow function", raw: "x => x + 1", want: RejectCode},
		{name: "function declaration", raw: "function greet(name)", want: RejectCode},
		{name: "ruby method definition", raw: "def greet", want: RejectCode},
		{name: "variable declaration", raw: "const total = 3", want: RejectCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, got := p.Check(tt.raw)
			if got != tt.want {
				t.Errorf("Check(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestAdmit(t *testing.T) {
	t.Parallel()

	t.Run("builds a finding with line and context", func(t *testing.T) {
		t.Parallel()

		content := "<p>\n  “Hello”   there\n</p>"
		p := New(Options{MinLength: DefaultMinLength}, linemap.Build(content))
		raw := "\n  “Hello”   there\n"

		got, ok := p.Admit(Candidate{
			Raw:    raw,
			Kind:   model.KindTextNode,
			Source: model.SourceText,
			Offset: strings.Index(content, "“Hello”"),
		})
		if !ok {
			t.Fatal("expected candidate to be admitted")
		}

		want := model.Finding{
			Text:    `"Hello" there`,
			Kind:    model.KindTextNode,
			Source:  model.SourceText,
			Line:    model.IntPtr(2),
			Context: "“Hello”   there",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Admit() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown offset yields no line", func(t *testing.T) {
		t.Parallel()

		p := New(Options{MinLength: 1}, linemap.Build("x\ny"))
		got, ok := p.Admit(Candidate{Raw: "Saved", Kind: model.KindScriptLiteral, Offset: linemap.NoOffset})
		if !ok {
			t.Fatal("expected candidate to be admitted")
		}
		if got.Line != nil {
			t.Errorf("expected nil line, got %d", *got.Line)
		}
	})

	t.Run("rejects anything shorter than the minimum length", func(t *testing.T) {
		t.Parallel()

		for minLength := 1; minLength <= 8; minLength++ {
			p := New(Options{MinLength: minLength}, nil)
			for n := 1; n < minLength; n++ {
				raw := strings.Repeat("a", n)
				if _, ok := p.Admit(Candidate{Raw: raw, Kind: model.KindTextNode}); ok {
					t.Errorf("minLength %d admitted %q", minLength, raw)
				}
			}
		}
	})

	t.Run("rejects any placeholder leak", func(t *testing.T) {
		t.Parallel()

		p := New(Options{MinLength: 1}, nil)
		for _, token := range []string{
			model.PlaceholderComment,
			model.PlaceholderTranslated,
			model.PlaceholderDirective,
			model.PlaceholderOpen,
			model.PlaceholderClose,
		} {
			for _, raw := range []string{token, "Hello " + token, token + " world"} {
				if _, ok := p.Admit(Candidate{Raw: raw, Kind: model.KindTextNode}); ok {
					t.Errorf("admitted placeholder leak %q", raw)
				}
			}
		}
	})
}

func TestCompilePatterns(t *testing.T) {
	t.Parallel()

	t.Run("skips empty patterns", func(t *testing.T) {
		t.Parallel()
		got, err := CompilePatterns([]string{"", `^\d+$`})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 compiled pattern, got %d", len(got))
		}
	})

	t.Run("reports invalid patterns", func(t *testing.T) {
		t.Parallel()
		if _, err := CompilePatterns([]string{"("}); err == nil {
			t.Error("expected error for invalid pattern")
		}
	})
}
