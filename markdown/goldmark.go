package markdown

import (
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Goldmark serializes bodies with goldmark. Each call builds its own engine,
// because the scope is installed as an extension.
type Goldmark struct{}

// Serialize parses body into a goldmark tree.
func (Goldmark) Serialize(body []byte, scope Scope) (*Serialized, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			&scopeExtension{scope: scope},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	source := append([]byte(nil), body...)
	doc := md.Parser().Parse(text.NewReader(source))
	if doc == nil {
		return nil, fmt.Errorf("Serialize: no document")
	}
	return &Serialized{Scope: scope, tree: gmTree{md: md, source: source, doc: doc}}, nil
}

// gmTree is a goldmark syntax tree with the source it points into.
type gmTree struct {
	md     goldmark.Markdown
	source []byte
	doc    gast.Node
}

func (t gmTree) render(w io.Writer) error {
	err := t.md.Renderer().Render(w, t.source, t.doc)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// KindScopeValue is the node kind of a resolved scope expression.
var KindScopeValue = gast.NewNodeKind("ScopeValue")

// ScopeValue is an inline node holding the value of a {name} expression.
type ScopeValue struct {
	gast.BaseInline
	Name  string
	Value string
}

// Kind implements ast.Node.
func (n *ScopeValue) Kind() gast.NodeKind {
	return KindScopeValue
}

// Dump implements ast.Node.
func (n *ScopeValue) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Value": n.Value}, nil)
}

// scopeParser turns {name} into a ScopeValue when name is in scope.
type scopeParser struct {
	scope Scope
}

func (p *scopeParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *scopeParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	m := exprRegexp.FindIndex(line)
	if m == nil || m[0] != 0 {
		return nil
	}
	name := string(line[1 : m[1]-1])
	v, ok := p.scope.lookup(name)
	if !ok {
		return nil
	}
	block.Advance(m[1])
	return &ScopeValue{Name: name, Value: v}
}

// scopeRenderer writes ScopeValue nodes as escaped text.
type scopeRenderer struct{}

func (r *scopeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindScopeValue, r.render)
}

func (r *scopeRenderer) render(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(util.EscapeHTML([]byte(node.(*ScopeValue).Value)))
	}
	return gast.WalkContinue, nil
}

// scopeExtension installs the scope parser and renderer.
type scopeExtension struct {
	scope Scope
}

func (e *scopeExtension) Extend(m goldmark.Markdown) {
	if len(e.scope) == 0 {
		return
	}
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&scopeParser{scope: e.scope}, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&scopeRenderer{}, 500),
	))
}
