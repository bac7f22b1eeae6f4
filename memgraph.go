package shadepbr

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// nodeNamespace seeds UUIDs derived for nodes declared without one.
var nodeNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("shadepbr.node"))

// MemoryGraph is an in-memory Graph, built programmatically or decoded from a graph description.
type MemoryGraph struct {
	nodes  map[NodeRef]*memNode // Nodes by handle
	byName map[string]NodeRef   // Handles by display name
	order  []NodeRef            // Declaration order
}

// memNode is a node of a MemoryGraph.
type memNode struct {
	attrs   map[string]*memAttr // Attributes by name, children included
	info    NodeInfo            // Node identity
	order   []string            // Top-level attribute declaration order
	uvLinks []int               // Linked UV-set indices
}

// memAttr is an attribute of a memNode.
type memAttr struct {
	name     string   // Attribute name
	parent   string   // Compound parent name, empty for top-level attributes
	source   NodeRef  // Connected source node, empty when unconnected
	children []string // Compound children in declaration order
	value    Value    // Constant value
}

var _ Graph = (*MemoryGraph)(nil)

// NewMemoryGraph creates an empty graph.
func NewMemoryGraph() *MemoryGraph {
	return &MemoryGraph{
		nodes:  make(map[NodeRef]*memNode),
		byName: make(map[string]NodeRef),
	}
}

// CanonicalUUID validates id and returns its upper-case canonical form.
func CanonicalUUID(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("invalid uuid %q: %w", id, err)
	}
	return strings.ToUpper(u.String()), nil
}

// DeriveUUID returns a deterministic UUID for a node name.
func DeriveUUID(name string) string {
	return strings.ToUpper(uuid.NewSHA1(nodeNamespace, []byte(name)).String())
}

// AddNode adds a node. An empty id derives a deterministic UUID from the name.
func (g *MemoryGraph) AddNode(name string, typ ShaderType, id string) (NodeRef, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty node name", ErrStructuralMismatch)
	}
	if _, ok := g.byName[name]; ok {
		return "", fmt.Errorf("%w: duplicate node name %q", ErrStructuralMismatch, name)
	}

	if id == "" {
		id = DeriveUUID(name)
	} else {
		canon, err := CanonicalUUID(id)
		if err != nil {
			return "", err
		}
		id = canon
	}

	ref := NodeRef(id)
	if _, ok := g.nodes[ref]; ok {
		return "", fmt.Errorf("%w: duplicate node uuid %s", ErrStructuralMismatch, id)
	}

	g.nodes[ref] = &memNode{
		info:  NodeInfo{UUID: id, Name: name, Type: typ, TypeName: typ.String()},
		attrs: make(map[string]*memAttr),
	}
	g.byName[name] = ref
	g.order = append(g.order, ref)

	return ref, nil
}

// Lookup returns the handle of a node by display name.
func (g *MemoryGraph) Lookup(name string) (NodeRef, bool) {
	ref, ok := g.byName[name]
	return ref, ok
}

// Nodes returns node handles in declaration order.
func (g *MemoryGraph) Nodes() []NodeRef {
	return slices.Clone(g.order)
}

// SetAttr sets a constant attribute value, declaring the attribute if needed.
// Vector values declare a compound attribute with R, G, B, A children.
func (g *MemoryGraph) SetAttr(node NodeRef, attr string, v Value) error {
	n, err := g.node(node)
	if err != nil {
		return err
	}

	a, ok := n.attrs[attr]
	if !ok {
		if v.Kind == ValueVector {
			return g.AddCompound(node, attr, defaultChildren(attr, len(v.Vec)), v.Vec...)
		}
		n.declare(&memAttr{name: attr, value: v})
		return nil
	}

	if len(a.children) == 0 {
		a.value = v
		return nil
	}

	// Compound: spread components over children.
	vals, ok := v.Vector()
	if !ok {
		return fmt.Errorf("%w: %s.%s is compound", ErrAttributeType, n.info.Name, attr)
	}
	for i, child := range a.children {
		if i < len(vals) {
			n.attrs[child].value = FloatValue(vals[i])
		}
	}

	return nil
}

// AddCompound declares a compound attribute with named children and optional initial values.
func (g *MemoryGraph) AddCompound(node NodeRef, attr string, children []string, vals ...float64) error {
	n, err := g.node(node)
	if err != nil {
		return err
	}
	if _, ok := n.attrs[attr]; ok {
		return fmt.Errorf("%w: %s.%s already declared", ErrStructuralMismatch, n.info.Name, attr)
	}

	for i, child := range children {
		if _, ok := n.attrs[child]; ok || child == attr || slices.Contains(children[:i], child) {
			return fmt.Errorf("%w: %s.%s already declared", ErrStructuralMismatch, n.info.Name, child)
		}
	}

	n.declare(&memAttr{name: attr, value: VectorValue(), children: slices.Clone(children)})
	for i, child := range children {
		v := 0.0
		if i < len(vals) {
			v = vals[i]
		}
		n.attrs[child] = &memAttr{name: child, parent: attr, value: FloatValue(v)}
	}

	return nil
}

// Connect connects src as the driver of dst.attr. Undeclared attributes are declared as scalars.
func (g *MemoryGraph) Connect(src, dst NodeRef, attr string) error {
	if _, err := g.node(src); err != nil {
		return err
	}
	n, err := g.node(dst)
	if err != nil {
		return err
	}

	a, ok := n.attrs[attr]
	if !ok {
		a = &memAttr{name: attr, value: FloatValue(0)}
		n.declare(a)
	}
	a.source = src

	return nil
}

// SetUVLinks sets the UV-set indices a texture node is linked to.
func (g *MemoryGraph) SetUVLinks(node NodeRef, indices ...int) error {
	n, err := g.node(node)
	if err != nil {
		return err
	}
	n.uvLinks = slices.Clone(indices)
	return nil
}

// Describe implements Graph.
func (g *MemoryGraph) Describe(node NodeRef) (NodeInfo, error) {
	n, err := g.node(node)
	if err != nil {
		return NodeInfo{}, err
	}
	return n.info, nil
}

// HasAttribute implements Graph.
func (g *MemoryGraph) HasAttribute(node NodeRef, attr string) bool {
	n, ok := g.nodes[node]
	if !ok {
		return false
	}
	_, ok = n.attrs[attr]
	return ok
}

// AttributeValue implements Graph. Compound attributes yield a vector of their children.
func (g *MemoryGraph) AttributeValue(node NodeRef, attr string) (Value, error) {
	n, err := g.node(node)
	if err != nil {
		return Value{}, err
	}
	a, ok := n.attrs[attr]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s has no %s attribute", ErrMissingAttribute, n.info.Name, attr)
	}
	if len(a.children) == 0 {
		return a.value, nil
	}

	vals := make([]float64, 0, len(a.children))
	for _, child := range a.children {
		f, _ := n.attrs[child].value.Float()
		vals = append(vals, f)
	}
	return VectorValue(vals...), nil
}

// IsConnected implements Graph.
func (g *MemoryGraph) IsConnected(node NodeRef, attr string) bool {
	_, ok := g.ConnectionSource(node, attr)
	return ok
}

// ConnectionSource implements Graph.
func (g *MemoryGraph) ConnectionSource(node NodeRef, attr string) (NodeRef, bool) {
	n, ok := g.nodes[node]
	if !ok {
		return "", false
	}
	a, ok := n.attrs[attr]
	if !ok || a.source == "" {
		return "", false
	}
	return a.source, true
}

// AttributeChildren implements Graph.
func (g *MemoryGraph) AttributeChildren(node NodeRef, attr string) []string {
	n, ok := g.nodes[node]
	if !ok {
		return nil
	}
	a, ok := n.attrs[attr]
	if !ok {
		return nil
	}
	return slices.Clone(a.children)
}

// UVSetLinks implements Graph.
func (g *MemoryGraph) UVSetLinks(node NodeRef) ([]int, error) {
	n, err := g.node(node)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.uvLinks), nil
}

// node returns the node for a handle.
func (g *MemoryGraph) node(ref NodeRef) (*memNode, error) {
	n, ok := g.nodes[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, ref)
	}
	return n, nil
}

// declare registers a top-level attribute.
func (n *memNode) declare(a *memAttr) {
	n.attrs[a.name] = a
	n.order = append(n.order, a.name)
}

// childSuffixes are the host suffixes of compound color children.
var childSuffixes = [...]string{"R", "G", "B", "A"}

// defaultChildren returns child names for an n-component compound attribute.
func defaultChildren(attr string, n int) []string {
	out := make([]string, 0, n)
	for i := range n {
		if i < len(childSuffixes) {
			out = append(out, attr+childSuffixes[i])
			continue
		}
		out = append(out, attr+strconv.Itoa(i))
	}
	return out
}
