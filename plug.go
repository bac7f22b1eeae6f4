package shadepbr

// Bump utility attributes.
const (
	bumpValueAttr = "bumpValue"
)

// ResolveTextureSource finds the node driving node.attr.
//
// When the attribute itself is unconnected and compound, its children are scanned in
// declaration order and the first connected child is used. An unconnected attribute
// yields ("", false, nil): callers use the constant value. A missing attribute is an
// error wrapping ErrMissingAttribute.
func ResolveTextureSource(g Graph, node NodeRef, attr string) (NodeRef, bool, error) {
	if !g.HasAttribute(node, attr) {
		return "", false, attrError(g, node, attr)
	}

	if src, ok := g.ConnectionSource(node, attr); ok {
		return src, true, nil
	}

	for _, child := range g.AttributeChildren(node, attr) {
		if src, ok := g.ConnectionSource(node, child); ok {
			return src, true, nil
		}
	}

	return "", false, nil
}

// resolveNormalSource resolves a normal input, looking through one bump2d node.
func resolveNormalSource(g Graph, node NodeRef, attr string) (NodeRef, bool, error) {
	src, ok, err := ResolveTextureSource(g, node, attr)
	if err != nil || !ok {
		return src, ok, err
	}

	info, err := g.Describe(src)
	if err != nil {
		return "", false, err
	}
	if info.Type != ShaderTypeBump2d {
		return src, true, nil
	}

	return ResolveTextureSource(g, src, bumpValueAttr)
}
