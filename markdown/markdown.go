/*
Package markdown serializes document bodies into render-ready trees.

Serialization parses the body once into the syntax tree of one of two engines,
blackfriday (the default) or goldmark, and resolves MDX-style scope
expressions: a word in braces such as {title} in prose is replaced with the
matching value from the scope, normally the document's front matter. Names
missing from the scope, and anything inside code spans or code blocks, are left
as written.
*/
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"
)

// Scope holds the values available to {name} expressions.
type Scope map[string]any

// lookup returns the text for name, if the scope has it.
func (s Scope) lookup(name string) (string, bool) {
	v, ok := s[name]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Engine turns a body into a Serialized tree.
type Engine interface {
	Serialize(body []byte, scope Scope) (*Serialized, error)
}

// New returns the engine with the given name, "blackfriday" or "goldmark".
// The empty name selects blackfriday.
func New(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "blackfriday":
		return Blackfriday{}, nil
	case "goldmark":
		return Goldmark{}, nil
	}
	return nil, fmt.Errorf("markdown: unknown engine %q", name)
}

// tree is a parsed body that knows how to render itself.
type tree interface {
	render(w io.Writer) error
}

// Serialized is the render-ready form of a body. A nil *Serialized renders
// as nothing.
type Serialized struct {
	Scope Scope
	tree  tree
}

// Render writes the HTML for the tree.
func (s *Serialized) Render(w io.Writer) error {
	if s == nil || s.tree == nil {
		return nil
	}
	return s.tree.render(w)
}

// HTML renders the tree into a template value.
func (s *Serialized) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	err := s.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("HTML: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// exprRegexp matches a scope expression like {title}.
var exprRegexp = regexp.MustCompile(`\{([A-Za-z_$][A-Za-z0-9_$]*)\}`)

// expand replaces the scope expressions in text that name known values.
func (s Scope) expand(text []byte) []byte {
	if len(s) == 0 || bytes.IndexByte(text, '{') < 0 {
		return text
	}
	return exprRegexp.ReplaceAllFunc(text, func(m []byte) []byte {
		v, ok := s.lookup(string(m[1 : len(m)-1]))
		if !ok {
			return m
		}
		return []byte(v)
	})
}
