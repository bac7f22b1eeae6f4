package shadepbr

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Packed texture name suffixes.
const (
	colorAlphaSuffix = "_RGBA.png"
	ormSuffix        = "_ORM.jpg"
	coatSuffix       = "_coat.jpg"
)

// Channel layouts of the packed textures.
var (
	colorAlphaMapping = [PackChannels]ChannelSource{{0, 0}, {0, 1}, {0, 2}, {1, 0}}
	// R and A sample the always-null slots 2 and 3.
	ormMapping  = [PackChannels]ChannelSource{{2, 0}, {0, 1}, {1, 1}, {3, 0}}
	coatMapping = [PackChannels]ChannelSource{{0, 0}, {1, 1}, {2, 0}, {3, 0}}
)

// packSlot is a pack source: the texture node driving an attribute and its file.
type packSlot struct {
	node NodeRef
	path string
}

// packPlan describes one packed texture.
type packPlan struct {
	ref packSlot // Node providing identity and UV placement
	name     string
	sources  [PackChannels]string
	defaults [PackChannels]float64
	mapping  [PackChannels]ChannelSource
	hasAlpha bool
}

// resolvePackSlot resolves node.attr to a texture file. ok is false when nothing is connected.
func (e *Exporter) resolvePackSlot(node NodeRef, attr string) (packSlot, bool, error) {
	src, ok, err := ResolveTextureSource(e.g, node, attr)
	if err != nil || !ok {
		return packSlot{}, false, err
	}

	path, err := LocateSource(e.g, src)
	if err != nil {
		return packSlot{}, false, err
	}

	return packSlot{node: src, path: path}, true, nil
}

// resolvePackPair resolves both pack inputs, reporting failures and the no-texture case.
func (e *Exporter) resolvePackPair(node NodeRef, attrA, attrB string) (a, b packSlot, aok, bok, ok bool) {
	var err error
	if a, aok, err = e.resolvePackSlot(node, attrA); err != nil {
		e.rep.Error(err.Error(), rankTexture)
		return a, b, false, false, false
	}
	if b, bok, err = e.resolvePackSlot(node, attrB); err != nil {
		e.rep.Error(err.Error(), rankTexture)
		return a, b, false, false, false
	}
	if !aok && !bok {
		e.rep.Message(fmt.Sprintf("%s has no texture connected to attribute %s or %s", nodeName(e.g, node), attrA, attrB), rankTexture)
		return a, b, false, false, false
	}

	return a, b, aok, bok, true
}

// exportColorAlpha packs color RGB and alpha R into one RGBA texture.
// Null inputs fall back to baseColor and opacity.
func (e *Exporter) exportColorAlpha(node NodeRef, colorAttr, alphaAttr string, baseColor Color, opacity float64) *Texture {
	e.rep.Message("Exporting texture color and alpha", rankStep)
	if !e.checkAttrs(node, colorAttr, alphaAttr) {
		return nil
	}

	color, alpha, cok, aok, ok := e.resolvePackPair(node, colorAttr, alphaAttr)
	if !ok {
		return nil
	}

	ref := color
	if !cok {
		ref = alpha
	}

	return e.packTexture(packPlan{
		ref:      ref,
		name:     textureName(colorStem(color, cok, baseColor) + "_" + packStem(alpha, aok, opacity) + colorAlphaSuffix),
		sources:  [PackChannels]string{color.path, alpha.path},
		defaults: [PackChannels]float64{baseColor.R, baseColor.G, baseColor.B, opacity},
		mapping:  colorAlphaMapping,
		hasAlpha: aok || opacity < 1,
	})
}

// exportORM packs roughness G and metalness G into the G and B channels of an ORM texture.
// Occlusion is not modeled and stays 1.
func (e *Exporter) exportORM(node NodeRef, metalAttr, roughAttr string, metal, rough float64) *Texture {
	e.rep.Message("Exporting texture occlusion, roughness and metallic", rankStep)
	if !e.checkAttrs(node, metalAttr, roughAttr) {
		return nil
	}

	m, r, mok, rok, ok := e.resolvePackPair(node, metalAttr, roughAttr)
	if !ok {
		return nil
	}

	if mok && rok && m.path == r.path {
		e.rep.Warning(fmt.Sprintf("%s and %s share %s; it is used as a packed ORM texture", metalAttr, roughAttr, m.path), rankTexture)
		return e.plainTexture(m)
	}

	ref := m
	if !mok {
		ref = r
	}

	return e.packTexture(packPlan{
		ref:      ref,
		name:     textureName(packStem(r, rok, rough) + "_" + packStem(m, mok, metal) + ormSuffix),
		sources:  [PackChannels]string{r.path, m.path},
		defaults: [PackChannels]float64{1, rough, metal, 1},
		mapping:  ormMapping,
	})
}

// exportCoat packs coat intensity R and coat roughness G into one texture.
func (e *Exporter) exportCoat(node NodeRef, intensityAttr, roughAttr string, intensity, rough float64) *Texture {
	e.rep.Message("Exporting texture clear coat intensity and roughness", rankStep)
	if !e.checkAttrs(node, intensityAttr, roughAttr) {
		return nil
	}

	in, r, iok, rok, ok := e.resolvePackPair(node, intensityAttr, roughAttr)
	if !ok {
		return nil
	}

	if iok && rok && in.path == r.path {
		e.rep.Warning(fmt.Sprintf("%s and %s share %s; it is used as a packed clear coat texture", intensityAttr, roughAttr, in.path), rankTexture)
		return e.plainTexture(in)
	}

	ref := in
	if !iok {
		ref = r
	}

	return e.packTexture(packPlan{
		ref:      ref,
		name:     textureName(nodeName(e.g, node) + coatSuffix),
		sources:  [PackChannels]string{in.path, r.path},
		defaults: [PackChannels]float64{intensity, rough, 0, 1},
		mapping:  coatMapping,
	})
}

// packTexture runs a pack next to the reference source and registers the result.
func (e *Exporter) packTexture(p packPlan) *Texture {
	info, err := e.g.Describe(p.ref.node)
	if err != nil {
		e.rep.Error(err.Error(), rankTexture)
		return nil
	}

	uv, err := ExtractUV(e.g, p.ref.node, e.rep)
	if err != nil {
		e.rep.Error(err.Error(), rankTexture)
		return nil
	}

	req := PackRequest{
		Defaults: p.defaults,
		Mapping:  p.mapping,
		Quality:  e.opt.TextureQuality,
	}
	for i, src := range p.sources {
		req.Sources[i] = e.resolver.ResolvePath(src)
	}
	req.Destination = filepath.Join(filepath.Dir(e.resolver.ResolvePath(p.ref.path)), p.name)

	img, err := Pack(req)
	if err != nil {
		e.rep.Error(fmt.Sprintf("Failed to merge %s: %v", p.name, err), rankTexture)
		return nil
	}
	e.rep.Message(fmt.Sprintf("Merged texture written to %s", req.Destination), rankTexture)

	tex := &Texture{
		Image:        img,
		ID:           info.UUID,
		Name:         p.name,
		OriginalPath: req.Destination,
		HasAlpha:     p.hasAlpha,
		UVTransform:  uv,
	}

	if e.opt.WriteTextures {
		e.copyTexture(tex)
	}
	e.scene.AddTexture(tex)

	return tex
}

// plainTexture exports a resolved pack source as-is.
func (e *Exporter) plainTexture(s packSlot) *Texture {
	tex, err := e.textureFromNode(s.node, s.path)
	if err != nil {
		e.rep.Error(err.Error(), rankTexture)
		return nil
	}

	if e.opt.WriteTextures {
		e.copyTexture(tex)
	}
	e.scene.AddTexture(tex)

	return tex
}

// checkAttrs reports every attribute missing on node.
func (e *Exporter) checkAttrs(node NodeRef, attrs ...string) bool {
	ok := true
	for _, attr := range attrs {
		if !e.g.HasAttribute(node, attr) {
			e.rep.Error(attrError(e.g, node, attr).Error(), rankStep)
			ok = false
		}
	}

	return ok
}

// colorStem names a color pack input by file stem, or by its truncated 8-bit RGB default when null.
func colorStem(s packSlot, ok bool, def Color) string {
	if ok {
		return imageStem(s.path)
	}

	return packStem(s, false, def.R) + "_" + packStem(s, false, def.G) + "_" + packStem(s, false, def.B)
}

// packStem names a pack input by file stem, or by its truncated 8-bit default when null.
func packStem(s packSlot, ok bool, def float64) string {
	if ok {
		return imageStem(s.path)
	}

	return strconv.Itoa(int(Clamp01(def) * 255))
}
