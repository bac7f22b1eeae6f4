package shadepbr

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeRef is an opaque handle to a node of the host shading graph.
// Graph implementations in this package use the node UUID.
type NodeRef string

// ShaderType is the host type id of a shading node.
type ShaderType uint32

// Known host type ids.
const (
	ShaderTypeUnknown           ShaderType = 0
	ShaderTypeAiCarPaint        ShaderType = 0x115d8b
	ShaderTypeAiFlat            ShaderType = 0x115d85
	ShaderTypeAiLambert         ShaderType = 0x115db0
	ShaderTypeAiStandardSurface ShaderType = 0x115d51
	ShaderTypeAiWireframe       ShaderType = 0x115d08
	ShaderTypeMayaBlinn         ShaderType = 0x52424c4e
	ShaderTypeMayaLambert       ShaderType = 0x524c414d
	ShaderTypeMayaPhong         ShaderType = 0x5250484f
	ShaderTypeMayaSurface       ShaderType = 0x52535348
	ShaderTypeAiImage           ShaderType = 0x115d17
	ShaderTypeMayaFile          ShaderType = 0x52544654
	ShaderTypeBump2d            ShaderType = 0x5242554d
)

// shaderTypeNames maps known type ids to host type names.
var shaderTypeNames = map[ShaderType]string{
	ShaderTypeAiCarPaint:        "aiCarPaint",
	ShaderTypeAiFlat:            "aiFlat",
	ShaderTypeAiLambert:         "aiLambert",
	ShaderTypeAiStandardSurface: "aiStandardSurface",
	ShaderTypeAiWireframe:       "aiWireframe",
	ShaderTypeMayaBlinn:         "blinn",
	ShaderTypeMayaLambert:       "lambert",
	ShaderTypeMayaPhong:         "phong",
	ShaderTypeMayaSurface:       "surfaceShader",
	ShaderTypeAiImage:           "aiImage",
	ShaderTypeMayaFile:          "file",
	ShaderTypeBump2d:            "bump2d",
}

// String returns the host type name, or the hex id for unknown types.
func (t ShaderType) String() string {
	if s, ok := shaderTypeNames[t]; ok {
		return s
	}
	return "0x" + strconv.FormatUint(uint64(t), 16)
}

// ParseShaderType resolves a host type name or a 0x-prefixed hex id.
func ParseShaderType(name string, caseInsensitive bool) (ShaderType, bool) {
	for t, s := range shaderTypeNames {
		if matchKey(name, s, caseInsensitive) {
			return t, true
		}
	}

	if hex, ok := strings.CutPrefix(strings.ToLower(name), "0x"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err == nil {
			return ShaderType(v), true
		}
	}

	return ShaderTypeUnknown, false
}

// IsTexture reports whether t is a file-backed texture node kind.
func (t ShaderType) IsTexture() bool {
	return t == ShaderTypeMayaFile || t == ShaderTypeAiImage
}

// NodeInfo describes a graph node.
type NodeInfo struct {
	UUID     string     `json:"uuid" yaml:"uuid"`                             // Stable node identifier
	Name     string     `json:"name" yaml:"name"`                             // Display name
	Type     ShaderType `json:"type" yaml:"type"`                             // Host type id
	TypeName string     `json:"typeName,omitempty" yaml:"typeName,omitempty"` // Host type name as authored
}

// ValueKind represents the kind of a constant attribute value.
type ValueKind int

const (
	// ValueFloat indicates a scalar value.
	ValueFloat ValueKind = iota
	// ValueVector indicates a multi-component value (compound attributes).
	ValueVector
	// ValueString indicates a string value.
	ValueString
	// ValueBool indicates a boolean value.
	ValueBool
)

// Value is a constant attribute value.
type Value struct {
	Str  string    // String value
	Vec  []float64 // Vector value
	Kind ValueKind // Value kind
	Num  float64   // Scalar value; booleans use 0 or 1
}

// FloatValue creates a scalar Value.
func FloatValue(v float64) Value { return Value{Kind: ValueFloat, Num: v} }

// VectorValue creates a vector Value.
func VectorValue(v ...float64) Value { return Value{Kind: ValueVector, Vec: v} }

// StringValue creates a string Value.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// BoolValue creates a boolean Value.
func BoolValue(b bool) Value {
	if b {
		return Value{Kind: ValueBool, Num: 1}
	}
	return Value{Kind: ValueBool}
}

// Float returns the value as a scalar. Vectors yield their first component.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case ValueFloat, ValueBool:
		return v.Num, true
	case ValueVector:
		if len(v.Vec) == 0 {
			return 0, false
		}
		return v.Vec[0], true
	default:
		return 0, false
	}
}

// Vector returns the value components. Scalars yield a one-element slice.
func (v Value) Vector() ([]float64, bool) {
	switch v.Kind {
	case ValueVector:
		return v.Vec, true
	case ValueFloat, ValueBool:
		return []float64{v.Num}, true
	default:
		return nil, false
	}
}

// Bool returns the value as a boolean.
func (v Value) Bool() (bool, bool) {
	f, ok := v.Float()
	return f != 0, ok
}

// Graph is the read-only capability the exporter uses to query the host shading graph.
// Implementations must not require callers to hold host-owned references between calls.
type Graph interface {
	// Describe returns identity and type of a node.
	Describe(node NodeRef) (NodeInfo, error)
	// HasAttribute reports whether the node declares the attribute.
	HasAttribute(node NodeRef, attr string) bool
	// AttributeValue returns the constant value of an attribute.
	AttributeValue(node NodeRef, attr string) (Value, error)
	// IsConnected reports whether the attribute itself has an incoming connection.
	IsConnected(node NodeRef, attr string) bool
	// ConnectionSource returns the node driving the attribute.
	ConnectionSource(node NodeRef, attr string) (NodeRef, bool)
	// AttributeChildren returns compound child attribute names in declaration order.
	AttributeChildren(node NodeRef, attr string) []string
	// UVSetLinks returns the UV-set indices a texture node is linked to on consuming meshes.
	UVSetLinks(node NodeRef) ([]int, error)
}

// attrError builds a missing attribute error.
func attrError(g Graph, node NodeRef, attr string) error {
	return fmt.Errorf("%w: %s has no %s attribute", ErrMissingAttribute, nodeName(g, node), attr)
}

// nodeName returns the display name of a node, or its handle when unknown.
func nodeName(g Graph, node NodeRef) string {
	info, err := g.Describe(node)
	if err != nil || info.Name == "" {
		return string(node)
	}
	return info.Name
}

// floatAttr reads a scalar attribute.
func floatAttr(g Graph, node NodeRef, attr string) (float64, error) {
	if !g.HasAttribute(node, attr) {
		return 0, attrError(g, node, attr)
	}
	v, err := g.AttributeValue(node, attr)
	if err != nil {
		return 0, err
	}
	f, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrAttributeType, nodeName(g, node), attr)
	}
	return f, nil
}

// colorAttr reads a three-component attribute.
func colorAttr(g Graph, node NodeRef, attr string) (Color, error) {
	if !g.HasAttribute(node, attr) {
		return Color{}, attrError(g, node, attr)
	}
	v, err := g.AttributeValue(node, attr)
	if err != nil {
		return Color{}, err
	}
	vals, ok := v.Vector()
	if !ok {
		return Color{}, fmt.Errorf("%w: %s.%s", ErrAttributeType, nodeName(g, node), attr)
	}
	// Scalar attributes broadcast to gray.
	if len(vals) == 1 {
		return Gray(vals[0]), nil
	}
	return ColorFromSlice(vals), nil
}

// boolAttr reads a boolean attribute.
func boolAttr(g Graph, node NodeRef, attr string) (bool, error) {
	f, err := floatAttr(g, node, attr)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}

// stringAttr reads a string attribute.
func stringAttr(g Graph, node NodeRef, attr string) (string, error) {
	if !g.HasAttribute(node, attr) {
		return "", attrError(g, node, attr)
	}
	v, err := g.AttributeValue(node, attr)
	if err != nil {
		return "", err
	}
	if v.Kind != ValueString {
		return "", fmt.Errorf("%w: %s.%s", ErrAttributeType, nodeName(g, node), attr)
	}
	return v.Str, nil
}
