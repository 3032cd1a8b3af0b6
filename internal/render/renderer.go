// Package render is the document renderer boundary: filled template text
// goes in, a paginated byte stream comes out.
package render

import (
	"bytes"

	"github.com/lexassist/lexassist/internal/utils"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer interface {
	Render(title, body string) ([]byte, error)
}

// HTMLRenderer turns the markdown document body into a standalone,
// print-ready HTML page.
type HTMLRenderer struct {
	md goldmark.Markdown
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (r *HTMLRenderer) Render(title, body string) ([]byte, error) {
	const op = "HTMLRenderer.Render"

	var buf bytes.Buffer
	writeHeader(&buf, title)

	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "render failed", err)
	}

	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, title string) {
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	buf.WriteString(htmlEscape(title))
	buf.WriteString(`</title>
<style>
body { font-family: Georgia, serif; max-width: 48em; margin: 2em auto; line-height: 1.5; }
h1 { text-align: center; text-decoration: underline; }
@media print { body { margin: 1in; } }
</style></head><body>
`)
}

func htmlEscape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
