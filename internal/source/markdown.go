package source

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	markdownHints = regexp.MustCompile(`(?m)^(#{1,6} |[-*+] |\d+\. |> |` + "```" + `)|\[[^\]]+\]\([^)]+\)`)
)

// LooksLikeMarkdown guesses whether text without a file name is Markdown.
func LooksLikeMarkdown(b []byte) bool {
	return len(markdownHints.FindAllIndex(b, 3)) >= 2
}

// PlainText renders Markdown as prose. Blocks are separated by blank lines,
// code blocks, HTML and images are dropped, link text is kept without its
// destination and table cells are read row by row.
func PlainText(src []byte) string {
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var w plainWriter
	w.walk(doc, reader.Source())
	return strings.TrimSpace(w.buf.String())
}

type plainWriter struct {
	buf bytes.Buffer
}

func (w *plainWriter) walk(node ast.Node, source []byte) {
	switch n := node.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML, *ast.Image:
		return

	case *ast.Text:
		w.buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			w.buf.WriteByte('\n')
		case n.SoftLineBreak():
			w.buf.WriteByte(' ')
		}
		return

	case *ast.String:
		w.buf.Write(n.Value)
		return

	case *ast.CodeSpan:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				w.buf.Write(t.Segment.Value(source))
			}
		}
		return

	case *ast.AutoLink:
		w.buf.Write(n.Label(source))
		return

	case *ast.ThematicBreak:
		w.block()
		return

	case *extast.TableCell:
		w.children(n, source)
		w.buf.WriteByte(' ')
		return

	case *extast.TaskCheckBox:
		return
	}

	w.children(node, source)

	if node.Type() == ast.TypeBlock && node.Kind() != ast.KindDocument {
		w.block()
	}
}

func (w *plainWriter) children(node ast.Node, source []byte) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		w.walk(c, source)
	}
}

// block ends the current block with a blank line unless one was written
// already.
func (w *plainWriter) block() {
	b := bytes.TrimRight(w.buf.Bytes(), " ")
	w.buf.Truncate(len(b))
	if w.buf.Len() == 0 || bytes.HasSuffix(b, []byte("\n\n")) {
		return
	}
	if bytes.HasSuffix(b, []byte("\n")) {
		w.buf.WriteByte('\n')
		return
	}
	w.buf.WriteString("\n\n")
}
