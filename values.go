package shadepbr

// valueKind represents the kind of a parsed literal.
type valueKind int

const (
	// valueNumber indicates numeric literal.
	valueNumber valueKind = iota
	// valueString indicates quoted string literal.
	valueString
	// valueIdent indicates bare identifier literal (node reference or boolean).
	valueIdent
	// valueArray indicates array literal.
	valueArray
)

// value represents a parsed literal.
type value struct {
	Str   string    // String or identifier value
	Array []value   // Array elements
	Kind  valueKind // Literal kind
	Num   float64   // Number value
}

// isBool reports whether the literal is a true/false identifier.
func (v value) isBool() (bool, bool) {
	if v.Kind != valueIdent {
		return false, false
	}
	switch v.Str {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// node is a parsed description statement.
type node interface {
	node()
}

// assignNode represents name[ ] = value; statements.
type assignNode struct {
	Name    string // Attribute name
	Value   value  // Assigned literal
	Line    int    // Source line
	IsArray bool   // Whether declared with []
}

// node implements the node interface.
func (assignNode) node() {}

// classNode represents class blocks: graph nodes at top level, compound attributes inside.
type classNode struct {
	Name string // Node or attribute name
	Base string // Node type name
	Body []node // Statements
	Line int    // Source line
}

// node implements the node interface.
func (classNode) node() {}
