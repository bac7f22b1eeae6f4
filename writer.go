package shadepbr

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// EncodeGraph writes a graph description of g to writer.
func EncodeGraph(w io.Writer, g *MemoryGraph, opt *FormatOptions) error {
	fopt := opt.normalize()
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, indent: fopt.Indent}
	if err := wr.writeGraph(g); err != nil {
		return err
	}

	return bw.Flush()
}

// EncodeGraphFile writes a graph description of g to a file.
func EncodeGraphFile(path string, g *MemoryGraph, opt *FormatOptions) error {
	b, err := FormatGraph(g, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// FormatGraph renders a graph description of g to bytes.
// Output is deterministic: nodes and attributes follow declaration order.
func FormatGraph(g *MemoryGraph, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeGraph(&buf, g, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writer writes a graph description to a writer.
type writer struct {
	w      io.Writer // Writer to write to
	indent string    // Indentation string
	cache  []string  // Cache of indentation strings
	level  int       // Current nesting level
}

// writeGraph writes every node block of g.
func (w *writer) writeGraph(g *MemoryGraph) error {
	if g == nil {
		return nil
	}

	for i, ref := range g.order {
		if i > 0 {
			if err := w.writeString("\n"); err != nil {
				return err
			}
		}
		if err := w.writeNode(g, g.nodes[ref]); err != nil {
			return err
		}
	}

	return nil
}

// writeNode writes a node block.
func (w *writer) writeNode(g *MemoryGraph, n *memNode) error {
	if !isIdentifier(n.info.Name) {
		return fmt.Errorf("%w: node name %q is not an identifier", ErrUnsupportedInput, n.info.Name)
	}

	typeName := n.info.TypeName
	if typeName == "" {
		typeName = n.info.Type.String()
	}

	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString("class " + n.info.Name + " : " + typeName + "\n"); err != nil {
		return err
	}
	if err := w.writeString("{\n"); err != nil {
		return err
	}

	w.level++
	if err := w.writeAssign(keyUUID, value{Kind: valueString, Str: n.info.UUID}, false); err != nil {
		return err
	}

	for _, name := range n.order {
		if err := w.writeAttr(g, n, n.attrs[name]); err != nil {
			return err
		}
	}

	if len(n.uvLinks) > 0 {
		arr := make([]value, 0, len(n.uvLinks))
		for _, idx := range n.uvLinks {
			arr = append(arr, value{Kind: valueNumber, Num: float64(idx)})
		}
		if err := w.writeAssign(keyUVLinks, value{Kind: valueArray, Array: arr}, true); err != nil {
			return err
		}
	}
	w.level--

	return w.writeString("};\n")
}

// writeAttr writes a top-level attribute and its connection.
func (w *writer) writeAttr(g *MemoryGraph, n *memNode, a *memAttr) error {
	if len(a.children) == 0 {
		return w.writeScalar(g, a)
	}

	// Array form when children carry default names and no child is connected.
	arrayForm := slices.Equal(a.children, defaultChildren(a.name, len(a.children)))
	for _, child := range a.children {
		if n.attrs[child].source != "" {
			arrayForm = false
		}
	}

	if arrayForm {
		arr := make([]value, 0, len(a.children))
		for _, child := range a.children {
			arr = append(arr, literal(n.attrs[child].value))
		}
		if err := w.writeAssign(a.name, value{Kind: valueArray, Array: arr}, true); err != nil {
			return err
		}
		return w.writeConnection(g, a)
	}

	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString("class " + a.name + "\n"); err != nil {
		return err
	}
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString("{\n"); err != nil {
		return err
	}

	w.level++
	for _, child := range a.children {
		if err := w.writeScalar(g, n.attrs[child]); err != nil {
			return err
		}
	}
	w.level--

	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString("};\n"); err != nil {
		return err
	}

	return w.writeConnection(g, a)
}

// writeScalar writes a scalar attribute followed by its connection, if any.
func (w *writer) writeScalar(g *MemoryGraph, a *memAttr) error {
	if err := w.writeAssign(a.name, literal(a.value), false); err != nil {
		return err
	}

	return w.writeConnection(g, a)
}

// writeConnection writes attr=source; for connected attributes.
func (w *writer) writeConnection(g *MemoryGraph, a *memAttr) error {
	if a.source == "" {
		return nil
	}

	src, ok := g.nodes[a.source]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, a.source)
	}

	return w.writeAssign(a.name, value{Kind: valueIdent, Str: src.info.Name}, false)
}

// writeAssign writes an assignment line.
func (w *writer) writeAssign(name string, val value, isArray bool) error {
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString(name); err != nil {
		return err
	}
	if isArray {
		if err := w.writeString("[]"); err != nil {
			return err
		}
	}
	if err := w.writeString("="); err != nil {
		return err
	}
	if err := w.writeValue(val); err != nil {
		return err
	}

	return w.writeString(";\n")
}

// writeIndent writes the current indentation level to the writer.
func (w *writer) writeIndent() error {
	if w.level <= 0 {
		return nil
	}

	return w.writeString(w.indentFor(w.level))
}

// writeValue writes a value to the writer.
func (w *writer) writeValue(v value) error {
	switch v.Kind {
	case valueNumber:
		return w.writeNumber(v.Num)
	case valueString:
		return w.writeQuoted(v.Str)
	case valueIdent:
		return w.writeString(v.Str)
	case valueArray:
		return w.writeArray(v.Array)
	default:
		return nil
	}
}

// writeArray writes an array of values to the writer.
func (w *writer) writeArray(vals []value) error {
	if err := w.writeString("{"); err != nil {
		return err
	}

	for i, v := range vals {
		if i > 0 {
			if err := w.writeString(", "); err != nil {
				return err
			}
		}
		if err := w.writeValue(v); err != nil {
			return err
		}
	}

	return w.writeString("}")
}

// writeNumber writes a float64 value to the writer.
func (w *writer) writeNumber(v float64) error {
	var buf [32]byte
	b := strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
	_, err := w.w.Write(b)

	return err
}

// writeQuoted writes a quoted string, escaping backslashes and quotes.
func (w *writer) writeQuoted(s string) error {
	if err := w.writeString("\""); err != nil {
		return err
	}
	if err := w.writeString(quoteEscaper.Replace(s)); err != nil {
		return err
	}

	return w.writeString("\"")
}

// writeString writes a string to the writer.
func (w *writer) writeString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// indentFor returns the indentation string for a nesting level.
func (w *writer) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(w.cache) <= level {
		w.cache = append(w.cache, make([]string, level-len(w.cache)+1)...)
	}
	if w.cache[level] == "" {
		w.cache[level] = strings.Repeat(w.indent, level)
	}

	return w.cache[level]
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// literal converts a constant attribute value to a description literal.
func literal(v Value) value {
	switch v.Kind {
	case ValueString:
		return value{Kind: valueString, Str: v.Str}
	case ValueBool:
		if v.Num != 0 {
			return value{Kind: valueIdent, Str: "true"}
		}
		return value{Kind: valueIdent, Str: "false"}
	default:
		f, _ := v.Float()
		return value{Kind: valueNumber, Num: f}
	}
}

// isIdentifier reports whether s lexes as a single identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}

	return !strings.EqualFold(s, "class")
}
