package richtext

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formblock/pkg/model"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// DefaultPolicy is the UGC policy applied to all rendered content. Links get
// rel="nofollow noopener" and may keep target="_blank".
func DefaultPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("target").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
		p.AddTargetBlankToFullyQualifiedLinks(false)
		p.RequireNoFollowOnLinks(true)
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("span", "p", "div")
		policy = p
	})
	return policy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPolicy replaces the sanitizer policy.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if p != nil {
			r.policy = p
		}
	}
}

// WithMarkdownExtensions overrides the markdown parser extensions.
func WithMarkdownExtensions(ext parser.Extensions) Option {
	return func(r *Renderer) {
		r.extensions = ext
	}
}

// Renderer turns CMS rich text into sanitized HTML.
type Renderer struct {
	policy     *bluemonday.Policy
	extensions parser.Extensions
}

// New returns a renderer using DefaultPolicy.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		policy:     DefaultPolicy(),
		extensions: parser.CommonExtensions | parser.NoEmptyLineBeforeBlock,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render returns sanitized HTML for content. Node trees take precedence over
// markdown when both are present.
func (r *Renderer) Render(content model.RichText) (template.HTML, error) {
	if content.Empty() {
		return "", nil
	}
	var raw string
	if len(content.Nodes) > 0 {
		var b strings.Builder
		writeNodes(&b, content.Nodes)
		raw = b.String()
	} else {
		raw = r.markdown(content.Markdown)
	}
	clean := strings.TrimSpace(r.policy.Sanitize(raw))
	return template.HTML(clean), nil
}

// RenderString is Render returning a plain string, for template payloads.
func (r *Renderer) RenderString(content model.RichText) (string, error) {
	out, err := r.Render(content)
	return string(out), err
}

func (r *Renderer) markdown(source string) string {
	// Parsers keep state and cannot be reused between documents.
	p := parser.NewWithExtensions(r.extensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	return string(markdown.ToHTML([]byte(source), p, renderer))
}

var blockTags = map[string]string{
	"h1":         "h1",
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"h5":         "h5",
	"h6":         "h6",
	"p":          "p",
	"paragraph":  "p",
	"blockquote": "blockquote",
	"quote":      "blockquote",
	"ul":         "ul",
	"ol":         "ol",
	"li":         "li",
	"indent":     "div",
}

func writeNodes(b *strings.Builder, nodes []model.Node) {
	for _, node := range nodes {
		writeNode(b, node)
	}
}

func writeNode(b *strings.Builder, node model.Node) {
	if node.IsLeaf() {
		writeLeaf(b, node)
		return
	}

	if node.Type == "link" {
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(node.URL))
		b.WriteString(`"`)
		if node.NewTab {
			b.WriteString(` target="_blank" rel="noopener noreferrer"`)
		}
		b.WriteString(">")
		writeNodes(b, node.Children)
		b.WriteString("</a>")
		return
	}

	tag, ok := blockTags[node.Type]
	switch {
	case node.Type == "":
		// Untyped elements are paragraphs.
		tag = "p"
	case !ok:
		writeNodes(b, node.Children)
		return
	}
	b.WriteString("<" + tag)
	if node.Type == "indent" {
		b.WriteString(` class="indent"`)
	}
	b.WriteString(">")
	writeNodes(b, node.Children)
	b.WriteString("</" + tag + ">")
}

func writeLeaf(b *strings.Builder, node model.Node) {
	text := html.EscapeString(node.Text)
	text = strings.ReplaceAll(text, "\n", "<br>")
	if node.Code {
		text = "<code>" + text + "</code>"
	}
	if node.Bold {
		text = "<strong>" + text + "</strong>"
	}
	if node.Italic {
		text = "<em>" + text + "</em>"
	}
	if node.Underline {
		text = "<u>" + text + "</u>"
	}
	if node.Strike {
		text = "<s>" + text + "</s>"
	}
	b.WriteString(text)
}
