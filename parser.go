package shadepbr

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Reserved node body keys.
const (
	keyUUID    = "uuid"
	keyUVLinks = "uvLinks"
)

// ParseGraph parses a graph description from bytes.
func ParseGraph(data []byte, opt *ParseOptions) (*MemoryGraph, error) {
	return DecodeGraph(bytes.NewReader(data), opt)
}

// DecodeGraph parses a graph description from reader.
//
// A description is a list of node blocks:
//
//	class file1 : file
//	{
//	    fileTextureName = "textures/base.png";
//	    uvLinks[] = {0};
//	};
//	class surface1 : aiStandardSurface
//	{
//	    uuid = "0C1B4E0A-8D51-4C22-9C7E-5B6A1F0E2D11";
//	    base = 1;
//	    baseColor[] = {0.8, 0.8, 0.8};
//	    baseColor = file1;
//	    class normalCamera { normalCameraX = 0; normalCameraY = 0; normalCameraZ = bump1; };
//	};
//
// Bare identifiers reference other nodes and create connections; true and false are booleans.
func DecodeGraph(r io.Reader, opt *ParseOptions) (*MemoryGraph, error) {
	popt := opt.normalize()
	p := newParser(r, popt)
	classes, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	return p.buildGraph(classes)
}

// DecodeGraphFile parses a graph description from a file.
func DecodeGraphFile(path string, opt *ParseOptions) (*MemoryGraph, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGraph(b, opt)
}

// parser represents a parser for graph descriptions.
type parser struct {
	l   *lexer       // Lexer for the input
	buf token        // Buffered token
	has bool         // Has buffered token
	opt ParseOptions // Options for the parser
}

// newParser creates a new parser.
func newParser(r io.Reader, opt ParseOptions) *parser {
	return &parser{l: newLexer(r, opt), opt: opt}
}

// next returns the next token.
func (p *parser) next() (token, error) {
	if p.has {
		p.has = false
		return p.buf, nil
	}

	return p.l.next()
}

// peek returns the next token without consuming it.
func (p *parser) peek() (token, error) {
	if p.has {
		return p.buf, nil
	}

	tok, err := p.l.next()
	if err != nil {
		return tok, err
	}

	p.buf = tok
	p.has = true
	return tok, nil
}

// parseDocument parses top-level node blocks.
func (p *parser) parseDocument() ([]classNode, error) {
	var out []classNode
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == tokEOF {
			return out, nil
		}
		if tok.Type != tokClass {
			return nil, p.errorf(tok, "expected node class")
		}

		cn, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		out = append(out, cn)
	}
}

// parseNode parses a statement.
func (p *parser) parseNode() (node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Type == tokClass {
		return p.parseClass()
	}

	return p.parseAssign()
}

// parseClass parses a class block.
func (p *parser) parseClass() (classNode, error) {
	classTok, err := p.expect(tokClass)
	if err != nil {
		return classNode{}, err
	}

	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return classNode{}, err
	}

	// Optional type name
	base := ""
	if tok, _ := p.peek(); tok.Type == tokColon {
		_, _ = p.next()
		btok, err := p.expect(tokIdent)
		if err != nil {
			return classNode{}, err
		}
		base = btok.Lit
	}

	if _, err := p.expect(tokLBrace); err != nil {
		return classNode{}, err
	}

	var body []node
	for {
		tok, err := p.peek()
		if err != nil {
			return classNode{}, err
		}

		if tok.Type == tokRBrace {
			_, _ = p.next()
			break
		}
		if tok.Type == tokEOF {
			return classNode{}, p.errorf(tok, "unterminated class %s", nameTok.Lit)
		}

		n, err := p.parseNode()
		if err != nil {
			return classNode{}, err
		}

		body = append(body, n)
	}

	if err := p.expectSemicolon(); err != nil {
		return classNode{}, err
	}

	return classNode{Name: nameTok.Lit, Base: base, Body: body, Line: classTok.Line}, nil
}

// parseAssign parses an assignment.
func (p *parser) parseAssign() (node, error) {
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	isArray := false
	if tok, _ := p.peek(); tok.Type == tokLBracket {
		_, _ = p.next()
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		isArray = true
	}

	if _, err := p.expect(tokEqual); err != nil {
		return nil, err
	}

	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}

	return assignNode{Name: nameTok.Lit, IsArray: isArray, Value: val, Line: nameTok.Line}, nil
}

// parseValue parses a literal.
func (p *parser) parseValue() (value, error) {
	tok, err := p.next()
	if err != nil {
		return value{}, err
	}

	switch tok.Type {
	case tokNumber:
		f, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil {
			return value{}, p.errorf(tok, "invalid number")
		}
		return value{Kind: valueNumber, Num: f}, nil

	case tokString:
		return value{Kind: valueString, Str: tok.Lit}, nil

	case tokIdent:
		return value{Kind: valueIdent, Str: tok.Lit}, nil

	case tokLBrace:
		arr, err := p.parseArray()
		return value{Kind: valueArray, Array: arr}, err

	default:
		return value{}, p.errorf(tok, "unexpected token")
	}
}

// parseArray parses array elements after the opening brace.
func (p *parser) parseArray() ([]value, error) {
	var arr []value
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if tok.Type == tokRBrace {
			_, _ = p.next()
			break
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		arr = append(arr, v)
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}

		if tok.Type == tokComma {
			_, _ = p.next()
			continue
		}
		if tok.Type == tokRBrace {
			continue
		}

		return nil, p.errorf(tok, "expected ',' or '}' in array")
	}

	return arr, nil
}

// buildGraph converts parsed node blocks into a MemoryGraph.
// Nodes are declared first so connections may reference later blocks.
func (p *parser) buildGraph(classes []classNode) (*MemoryGraph, error) {
	g := NewMemoryGraph()
	refs := make([]NodeRef, len(classes))
	for i, cn := range classes {
		typ, ok := ParseShaderType(cn.Base, !p.opt.DisableCaseInsensitive)
		if !ok && cn.Base != "" {
			typ = ShaderTypeUnknown
		}

		id := ""
		for _, st := range cn.Body {
			if a, ok := st.(assignNode); ok && matchKey(a.Name, keyUUID, !p.opt.DisableCaseInsensitive) {
				if a.Value.Kind != valueString {
					return nil, p.lineErrorf(a.Line, "uuid must be a string")
				}
				id = a.Value.Str
			}
		}

		ref, err := g.AddNode(cn.Name, typ, id)
		if err != nil {
			return nil, fmt.Errorf("%w at %d: %w", ErrParse, cn.Line, err)
		}
		if cn.Base != "" {
			g.nodes[ref].info.TypeName = cn.Base
		}
		refs[i] = ref
	}

	for i, cn := range classes {
		for _, st := range cn.Body {
			var err error
			switch s := st.(type) {
			case assignNode:
				err = p.applyAssign(g, refs[i], s)
			case classNode:
				err = p.applyCompound(g, refs[i], s)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// applyAssign applies a node body assignment.
func (p *parser) applyAssign(g *MemoryGraph, ref NodeRef, a assignNode) error {
	ci := !p.opt.DisableCaseInsensitive
	switch {
	case matchKey(a.Name, keyUUID, ci):
		return nil

	case matchKey(a.Name, keyUVLinks, ci):
		idx, err := p.intArray(a)
		if err != nil {
			return err
		}
		return g.SetUVLinks(ref, idx...)
	}

	if a.Value.Kind != valueArray {
		return p.applyValue(g, ref, a.Name, a.Value, a.Line)
	}

	// Array literal: compound attribute with default children, elements may be connections.
	if !g.HasAttribute(ref, a.Name) {
		children := defaultChildren(a.Name, len(a.Value.Array))
		if err := g.AddCompound(ref, a.Name, children); err != nil {
			return p.wrap(a.Line, err)
		}
	}

	children := g.AttributeChildren(ref, a.Name)
	if len(children) < len(a.Value.Array) {
		return p.lineErrorf(a.Line, "%s has %d children, got %d values", a.Name, len(children), len(a.Value.Array))
	}
	for i, v := range a.Value.Array {
		if err := p.applyValue(g, ref, children[i], v, a.Line); err != nil {
			return err
		}
	}

	return nil
}

// applyCompound declares a compound attribute with explicit children.
func (p *parser) applyCompound(g *MemoryGraph, ref NodeRef, cn classNode) error {
	var children []string
	var assigns []assignNode
	for _, st := range cn.Body {
		a, ok := st.(assignNode)
		if !ok || a.IsArray {
			return p.lineErrorf(cn.Line, "compound %s accepts scalar children only", cn.Name)
		}
		// A child may be listed twice: once with its value, once with its connection.
		if !slices.Contains(children, a.Name) {
			children = append(children, a.Name)
		}
		assigns = append(assigns, a)
	}

	if err := g.AddCompound(ref, cn.Name, children); err != nil {
		return p.wrap(cn.Line, err)
	}
	for _, a := range assigns {
		if err := p.applyValue(g, ref, a.Name, a.Value, a.Line); err != nil {
			return err
		}
	}

	return nil
}

// applyValue sets a scalar literal or connects a referenced node.
func (p *parser) applyValue(g *MemoryGraph, ref NodeRef, attr string, v value, line int) error {
	var err error
	switch v.Kind {
	case valueNumber:
		err = g.SetAttr(ref, attr, FloatValue(v.Num))
	case valueString:
		err = g.SetAttr(ref, attr, StringValue(v.Str))
	case valueIdent:
		if b, ok := v.isBool(); ok {
			err = g.SetAttr(ref, attr, BoolValue(b))
			break
		}
		src, ok := g.Lookup(v.Str)
		if !ok {
			return p.lineErrorf(line, "unknown node %q", v.Str)
		}
		err = g.Connect(src, ref, attr)
	default:
		return p.lineErrorf(line, "nested arrays are not supported for %s", attr)
	}

	return p.wrap(line, err)
}

// intArray reads an array of integers.
func (p *parser) intArray(a assignNode) ([]int, error) {
	if a.Value.Kind != valueArray {
		return nil, p.lineErrorf(a.Line, "%s must be an array", a.Name)
	}

	out := make([]int, 0, len(a.Value.Array))
	for _, v := range a.Value.Array {
		if v.Kind != valueNumber || v.Num != float64(int(v.Num)) {
			return nil, p.lineErrorf(a.Line, "%s must contain integers", a.Name)
		}
		out = append(out, int(v.Num))
	}

	return out, nil
}

// expect expects a token.
func (p *parser) expect(tt tokenType) (token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}

	if tok.Type != tt {
		return tok, p.errorf(tok, "expected %s", tokenName(tt))
	}

	return tok, nil
}

// expectSemicolon expects a semicolon.
func (p *parser) expectSemicolon() error {
	_, err := p.expect(tokSemicolon)
	return err
}

// errorf formats an error at a token.
func (p *parser) errorf(tok token, format string, args ...any) error {
	return fmt.Errorf("%w at %d:%d: %s", ErrParse, tok.Line, tok.Col, fmt.Sprintf(format, args...))
}

// lineErrorf formats an error at a line.
func (p *parser) lineErrorf(line int, format string, args ...any) error {
	return fmt.Errorf("%w at %d: %s", ErrParse, line, fmt.Sprintf(format, args...))
}

// wrap attaches a line to a graph building error.
func (p *parser) wrap(line int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w at %d: %w", ErrParse, line, err)
}

// tokenName returns the name of a token.
func tokenName(tt tokenType) string {
	switch tt {
	case tokEOF:
		return "EOF"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokLBrace:
		return "{"
	case tokRBrace:
		return "}"
	case tokLBracket:
		return "["
	case tokRBracket:
		return "]"
	case tokEqual:
		return "="
	case tokSemicolon:
		return ";"
	case tokColon:
		return ":"
	case tokComma:
		return ","
	case tokClass:
		return "class"
	default:
		return "token"
	}
}

// matchKey checks if the two strings are equal.
func matchKey(a, b string, ci bool) bool {
	if ci {
		return strings.EqualFold(a, b)
	}
	return a == b
}
