package markdown

import (
	"fmt"
	"io"

	"github.com/russross/blackfriday/v2"
)

const bfExtensions = blackfriday.CommonExtensions | blackfriday.Footnotes

// Blackfriday serializes bodies with blackfriday.
type Blackfriday struct{}

// Serialize parses body and resolves scope expressions in its text nodes.
func (Blackfriday) Serialize(body []byte, scope Scope) (*Serialized, error) {
	md := blackfriday.New(blackfriday.WithExtensions(bfExtensions))
	root := md.Parse(body)
	if root == nil {
		return nil, fmt.Errorf("Serialize: no document")
	}
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && node.Type == blackfriday.Text {
			node.Literal = scope.expand(node.Literal)
		}
		return blackfriday.GoToNext
	})
	return &Serialized{Scope: scope, tree: bfTree{root: root}}, nil
}

// bfTree is a blackfriday syntax tree.
type bfTree struct {
	root *blackfriday.Node
}

func (t bfTree) render(w io.Writer) error {
	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.FootnoteReturnLinks,
	})
	ew := &errWriter{w: w}
	r.RenderHeader(ew, t.root)
	t.root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if ew.err != nil {
			return blackfriday.Terminate
		}
		return r.RenderNode(ew, node, entering)
	})
	r.RenderFooter(ew, t.root)
	if ew.err != nil {
		return fmt.Errorf("render: %w", ew.err)
	}
	return nil
}

// errWriter remembers the first write error, since blackfriday renderers
// do not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}
