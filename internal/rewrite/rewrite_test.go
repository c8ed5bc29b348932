package rewrite

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/i18nscan/internal/model"
)

func TestReplace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		finding model.Finding
		key     string
		want    string
	}{
		{
			name:    "text node",
			content: "<h1>Welcome</h1>",
			finding: model.Finding{Text: "Welcome", Kind: model.KindTextNode, Context: "Welcome"},
			key:     "welcome",
			want:    `<h1><%= t("welcome") %></h1>`,
		},
		{
			name:    "text node keeps surrounding whitespace",
			content: "<p>\n  Hello   there\n</p>",
			finding: model.Finding{Text: "Hello there", Kind: model.KindTextNode, Context: "Hello   there"},
			key:     "hello_there",
			want:    "<p>\n  <%= t(\"hello_there\") %>\n</p>",
		},
		{
			name:    "text node with entities",
			content: "<p>Tom &amp; Jerry</p>",
			finding: model.Finding{Text: "Tom & Jerry", Kind: model.KindTextNode, Context: "Tom & Jerry"},
			key:     "tom_jerry",
			want:    `<p><%= t("tom_jerry") %></p>`,
		},
		{
			name:    "text node with a named character reference",
			content: "<p>Terms&nbsp;apply</p>",
			finding: model.Finding{Text: "Terms apply", Kind: model.KindTextNode, Context: "Terms\u00a0apply"},
			key:     "terms_apply",
			want:    `<p><%= t("terms_apply") %></p>`,
		},
		{
			name:    "text node spanning CRLF lines",
			content: "<p>\r\n  Hello there\r\n  my friend\r\n</p>",
			finding: model.Finding{Text: "Hello there my friend", Kind: model.KindTextNode, Context: "Hello there\n  my friend"},
			key:     "hello_there_my_friend",
			want:    "<p>\r\n  <%= t(\"hello_there_my_friend\") %>\r\n</p>",
		},
		{
			name:    "attribute with a character reference",
			content: `<img alt="Tom &amp; Jerry">`,
			finding: model.Finding{Text: "Tom & Jerry", Kind: model.KindAttribute, Source: "img[alt]", Context: "Tom & Jerry"},
			key:     "tom_jerry",
			want:    `<img alt="<%= t("tom_jerry") %>">`,
		},
		{
			name:    "attribute name in another case",
			content: `<IMG ALT="Close">`,
			finding: model.Finding{Text: "Close", Kind: model.KindAttribute, Source: "img[alt]", Context: "Close"},
			key:     "close",
			want:    `<IMG ALT="<%= t("close") %>">`,
		},
		{
			name:    "every occurrence of a text node",
			content: "<p>Save</p><b>Save</b>",
			finding: model.Finding{Text: "Save", Kind: model.KindTextNode, Context: "Save"},
			key:     "save",
			want:    `<p><%= t("save") %></p><b><%= t("save") %></b>`,
		},
		{
			name:    "text node ignores attribute values and longer text",
			content: `<a title="Save">Saved</a><p>Save</p>`,
			finding: model.Finding{Text: "Save", Kind: model.KindTextNode, Context: "Save"},
			key:     "save",
			want:    `<a title="Save">Saved</a><p><%= t("save") %></p>`,
		},
		{
			name:    "attribute",
			content: `<img alt="Close" src="x.png">`,
			finding: model.Finding{Text: "Close", Kind: model.KindAttribute, Source: "img[alt]", Context: "Close"},
			key:     "close",
			want:    `<img alt="<%= t("close") %>" src="x.png">`,
		},
		{
			name:    "single quoted attribute",
			content: `<input placeholder='Your name'>`,
			finding: model.Finding{Text: "Your name", Kind: model.KindAttribute, Source: "input[placeholder]", Context: "Your name"},
			key:     "your_name",
			want:    `<input placeholder='<%= t("your_name") %>'>`,
		},
		{
			name:    "attribute name must match exactly",
			content: `<img data-alt="Close" alt="Close">`,
			finding: model.Finding{Text: "Close", Kind: model.KindAttribute, Source: "img[alt]", Context: "Close"},
			key:     "close",
			want:    `<img data-alt="Close" alt="<%= t("close") %>">`,
		},
		{
			name:    "directive literal",
			content: `<%= link_to "Sign up", signup_path %>`,
			finding: model.Finding{Text: "Sign up", Kind: model.KindScriptLiteral, Source: model.SourceScripting, Context: "Sign up"},
			key:     "sign_up",
			want:    `<%= link_to t("sign_up"), signup_path %>`,
		},
		{
			name:    "script literal",
			content: "<p>Are you sure?</p><script>confirm('Are you sure?')</script>",
			finding: model.Finding{Text: "Are you sure?", Kind: model.KindScriptLiteral, Source: model.SourceScript, Context: "Are you sure?"},
			key:     "are_you_sure",
			want:    `<p>Are you sure?</p><script>confirm('<%= j t("are_you_sure") %>')</script>`,
		},
		{
			name:    "script template literal",
			content: "<script>el.textContent = `Loading data`;</script>",
			finding: model.Finding{Text: "Loading data", Kind: model.KindScriptTemplateLiteral, Source: model.SourceScript, Context: "Loading data"},
			key:     "loading_data",
			want:    "<script>el.textContent = `<%= j t(\"loading_data\") %>`;</script>",
		},
		{
			name:    "script template literal spanning CRLF lines",
			content: "<script>el.textContent = `Loading\r\ndata`;</script>",
			finding: model.Finding{Text: "Loading data", Kind: model.KindScriptTemplateLiteral, Source: model.SourceScript, Context: "Loading\ndata"},
			key:     "loading_data",
			want:    "<script>el.textContent = `<%= j t(\"loading_data\") %>`;</script>",
		},
		{
			name:    "tag containing a directive",
			content: `<a href="<%= root_path %>" title="Home page">Home page</a>`,
			finding: model.Finding{Text: "Home page", Kind: model.KindTextNode, Context: "Home page"},
			key:     "home_page",
			want:    `<a href="<%= root_path %>" title="Home page"><%= t("home_page") %></a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := New(tt.content)
			out := r.Replace(tt.finding, tt.key)
			if !out.Replaced() {
				t.Fatalf("Replace() not replaced: %v", out.Err)
			}
			if got := r.Content(); got != tt.want {
				t.Errorf("Content() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestReplaceMiss(t *testing.T) {
	t.Parallel()

	t.Run("text not present", func(t *testing.T) {
		t.Parallel()
		r := New("<p>Hello</p>")
		out := r.Replace(model.Finding{Text: "Goodbye", Kind: model.KindTextNode, Context: "Goodbye"}, "goodbye")
		if !errors.Is(out.Err, ErrReplacementMiss) {
			t.Errorf("Err = %v, want ErrReplacementMiss", out.Err)
		}
		if r.Content() != "<p>Hello</p>" {
			t.Errorf("content changed: %q", r.Content())
		}
	})

	t.Run("data attribute strings are unsupported", func(t *testing.T) {
		t.Parallel()
		r := New(`<div data-props='{"a":"Hello"}'></div>`)
		out := r.Replace(model.Finding{Text: "Hello", Kind: model.KindDataAttributeString, Source: "div[data-props]", Context: "Hello"}, "hello")
		if !errors.Is(out.Err, ErrUnsupportedKind) {
			t.Errorf("Err = %v, want ErrUnsupportedKind", out.Err)
		}
		if Reason(out.Err) != "unsupported" {
			t.Errorf("Reason = %q", Reason(out.Err))
		}
	})

	t.Run("claimed spans are not matched twice", func(t *testing.T) {
		t.Parallel()
		r := New(`<%= link_to "Save", path %>`)
		first := r.Replace(model.Finding{Text: "Save", Kind: model.KindScriptLiteral, Source: model.SourceScripting, Context: "Save"}, "save")
		second := r.Replace(model.Finding{Text: "Save", Kind: model.KindScriptLiteral, Source: model.SourceScripting, Context: "Save"}, "other")
		if !first.Replaced() {
			t.Fatalf("first replacement failed: %v", first.Err)
		}
		if !errors.Is(second.Err, ErrReplacementMiss) {
			t.Errorf("second Err = %v, want ErrReplacementMiss", second.Err)
		}
		if got := r.Content(); got != `<%= link_to t("save"), path %>` {
			t.Errorf("Content() = %q", got)
		}
	})
}

func TestApplyDescendingOrder(t *testing.T) {
	t.Parallel()

	content := "aaa bbb ccc"
	edits := []Edit{
		{Start: 0, End: 3, Text: "A"},
		{Start: 8, End: 11, Text: "CCCCC"},
		{Start: 4, End: 7, Text: ""},
	}
	if got := Apply(content, edits); got != "A  CCCCC" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestMultipleFindingsInOneFile(t *testing.T) {
	t.Parallel()

	content := "<div>\n" +
		"  <h1>Welcome</h1>\n" +
		"  <img alt=\"Company logo\" src=\"/logo.png\">\n" +
		"  <%= link_to \"Sign in\", login_path %>\n" +
		"</div>\n"

	r := New(content)
	requests := []struct {
		finding model.Finding
		key     string
	}{
		{model.Finding{Text: "Sign in", Kind: model.KindScriptLiteral, Source: model.SourceScripting, Context: "Sign in"}, "sign_in"},
		{model.Finding{Text: "Welcome", Kind: model.KindTextNode, Context: "Welcome"}, "welcome"},
		{model.Finding{Text: "Company logo", Kind: model.KindAttribute, Source: "img[alt]", Context: "Company logo"}, "company_logo"},
	}
	for _, req := range requests {
		if out := r.Replace(req.finding, req.key); !out.Replaced() {
			t.Fatalf("Replace(%q) failed: %v", req.finding.Text, out.Err)
		}
	}

	want := "<div>\n" +
		"  <h1><%= t(\"welcome\") %></h1>\n" +
		"  <img alt=\"<%= t(\"company_logo\") %>\" src=\"/logo.png\">\n" +
		"  <%= link_to t(\"sign_in\"), login_path %>\n" +
		"</div>\n"
	if diff := cmp.Diff(want, r.Content()); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
	if len(r.Edits()) != 3 {
		t.Errorf("Edits() = %d, want 3", len(r.Edits()))
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	content := `<p title="a > b">x</p><!-- c --><style>p{}</style><% y %>`
	l := scanLayout(content)

	check := func(sub string, want region) {
		t.Helper()
		i := indexOf(content, sub)
		if got := l.regions[i]; got != want {
			t.Errorf("region of %q = %d, want %d", sub, got, want)
		}
	}
	check("title", regionTag)
	check("b\"", regionTag)
	check("x<", regionText)
	check(" c ", regionComment)
	check("p{}", regionStyle)
	check(" y ", regionDirective)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
