package rawtext

import "testing"

func TestIndexDecoded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		text      string
		from      int
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{
			name:      "verbatim",
			raw:       "<p>Hello</p>",
			text:      "Hello",
			wantStart: 3,
			wantEnd:   8,
			wantOK:    true,
		},
		{
			name:      "CRLF line endings",
			raw:       "<p>\r\n  Hello\r\n  there\r\n</p>",
			text:      "Hello\n  there",
			wantStart: 7,
			wantEnd:   21,
			wantOK:    true,
		},
		{
			name:      "lone CR line endings",
			raw:       "<p>Hello\rthere</p>",
			text:      "Hello\nthere",
			wantStart: 3,
			wantEnd:   14,
			wantOK:    true,
		},
		{
			name:      "named reference",
			raw:       "<p>Terms&nbsp;apply</p>",
			text:      "Terms\u00a0apply",
			wantStart: 3,
			wantEnd:   19,
			wantOK:    true,
		},
		{
			name:      "escaped ampersand",
			raw:       "<p>Tom &amp; Jerry</p>",
			text:      "Tom & Jerry",
			wantStart: 3,
			wantEnd:   18,
			wantOK:    true,
		},
		{
			name:      "numeric reference",
			raw:       "<p>It&#39;s here</p>",
			text:      "It's here",
			wantStart: 3,
			wantEnd:   16,
			wantOK:    true,
		},
		{
			name:      "literal ampersand that is not a reference",
			raw:       "<p>A & B; C</p>",
			text:      "A & B; C",
			wantStart: 3,
			wantEnd:   11,
			wantOK:    true,
		},
		{
			name:   "absent",
			raw:    "<p>Hello</p>",
			text:   "Goodbye",
			wantOK: false,
		},
		{
			name:   "empty text",
			raw:    "<p>Hello</p>",
			text:   "",
			wantOK: false,
		},
		{
			name:      "search starts at from",
			raw:       "<p>Save</p><b>Save</b>",
			text:      "Save",
			from:      4,
			wantStart: 14,
			wantEnd:   18,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			start, end, ok := IndexDecoded(tt.raw, tt.text, tt.from)
			if ok != tt.wantOK {
				t.Fatalf("IndexDecoded() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("IndexDecoded() = [%d, %d), want [%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestIndexKeepsReferencesLiteral(t *testing.T) {
	t.Parallel()

	if _, _, ok := Index("<p>Tom &amp; Jerry</p>", "Tom & Jerry", 0); ok {
		t.Error("Index() matched a character reference against its decoded text")
	}
	start, end, ok := Index("x = `a\r\nb`", "`a\nb`", 0)
	if !ok || start != 4 || end != 10 {
		t.Errorf("Index() = %d, %d, %v, want 4, 10, true", start, end, ok)
	}
}
