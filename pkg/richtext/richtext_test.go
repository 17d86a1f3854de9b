package richtext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formblock/pkg/model"
)

func TestRender_NodeTree(t *testing.T) {
	content := model.RichText{Nodes: []model.Node{
		{Type: "h2", Children: []model.Node{{Text: "Welcome"}}},
		{Children: []model.Node{
			{Text: "Hi", Bold: true},
			{Text: " there"},
		}},
		{Type: "ul", Children: []model.Node{
			{Type: "li", Children: []model.Node{{Text: "one", Italic: true}}},
			{Type: "li", Children: []model.Node{{Text: "two", Code: true}}},
		}},
	}}

	got, err := New().Render(content)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<h2>Welcome</h2><p><strong>Hi</strong> there</p><ul><li><em>one</em></li><li><code>two</code></li></ul>"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("html mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_ParagraphAndMarks(t *testing.T) {
	content := model.RichText{Nodes: []model.Node{
		{Type: "p", Children: []model.Node{
			{Text: "a", Underline: true},
			{Text: "b", Strike: true},
		}},
	}}

	got, err := New().Render(content)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff("<p><u>a</u><s>b</s></p>", string(got)); diff != "" {
		t.Fatalf("html mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EscapesText(t *testing.T) {
	content := model.RichText{Nodes: []model.Node{
		{Type: "p", Children: []model.Node{{Text: "<script>alert(1)</script>"}}},
	}}

	got, err := New().Render(content)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(got), "<script") {
		t.Fatalf("expected script to be escaped, got %q", got)
	}
	if !strings.Contains(string(got), "&lt;script&gt;") {
		t.Fatalf("expected escaped text, got %q", got)
	}
}

func TestRender_LinkNewTab(t *testing.T) {
	content := model.RichText{Nodes: []model.Node{
		{Type: "p", Children: []model.Node{
			{Type: "link", URL: "https://example.com/docs", NewTab: true, Children: []model.Node{{Text: "docs"}}},
		}},
	}}

	got, err := New().Render(content)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := string(got)
	for _, fragment := range []string{`href="https://example.com/docs"`, `target="_blank"`, `nofollow`, `>docs</a>`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
}

func TestRender_DropsUnsafeLinkScheme(t *testing.T) {
	content := model.RichText{Nodes: []model.Node{
		{Type: "link", URL: "javascript:alert(1)", Children: []model.Node{{Text: "x"}}},
	}}

	got, err := New().Render(content)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(got), "javascript:") {
		t.Fatalf("expected javascript url to be removed, got %q", got)
	}
}

func TestRender_Markdown(t *testing.T) {
	got, err := New().Render(model.RichText{Markdown: "# Title\n\nSome *text* here."})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := string(got)
	if !strings.Contains(out, "Title</h1>") {
		t.Fatalf("expected heading, got %q", out)
	}
	if !strings.Contains(out, "<em>text</em>") {
		t.Fatalf("expected emphasis, got %q", out)
	}
}

func TestRender_MarkdownStripsRawHTML(t *testing.T) {
	got, err := New().Render(model.RichText{Markdown: "hello <script>alert(1)</script> world"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(got), "<script") {
		t.Fatalf("expected script to be stripped, got %q", got)
	}
	if !strings.Contains(string(got), "hello") {
		t.Fatalf("expected text to survive, got %q", got)
	}
}

func TestRender_Empty(t *testing.T) {
	got, err := New().Render(model.RichText{Nodes: []model.Node{{Type: "p", Children: []model.Node{{Text: "  "}}}}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
