package shadepbr

import (
	"fmt"
)

// aiStandardSurface attributes.
const (
	attrBase              = "base"
	attrBaseColor         = "baseColor"
	attrOpacity           = "opacity"
	attrMetalness         = "metalness"
	attrSpecularRoughness = "specularRoughness"
	attrEmission          = "emission"
	attrEmissionColor     = "emissionColor"
	attrNormalCamera      = "normalCamera"
	attrCoat              = "coat"
	attrCoatRoughness     = "coatRoughness"
	attrCoatIOR           = "coatIOR"
	attrCoatColor         = "coatColor"
	attrCoatNormal        = "coatNormal"
)

// aiFlat and legacy attributes.
const (
	attrColor   = "color"
	attrDiffuse = "diffuse"
)

// translate dispatches on the shader type of a material node.
func (e *Exporter) translate(ref NodeRef, info NodeInfo) error {
	switch info.Type {
	case ShaderTypeMayaLambert, ShaderTypeMayaBlinn, ShaderTypeMayaPhong:
		return e.translateLegacy(ref, info)
	case ShaderTypeAiFlat:
		return e.translateFlat(ref, info)
	case ShaderTypeAiStandardSurface:
		return e.translateStandardSurface(ref, info)
	default:
		e.rep.Warning(fmt.Sprintf("%s is an unsupported material type and will not be exported", info.Name), rankStep)
		return fmt.Errorf("%w: %s is %s", ErrUnsupportedShader, info.Name, info.Type)
	}
}

// translateLegacy emits a minimal record for non-physical host materials.
func (e *Exporter) translateLegacy(ref NodeRef, info NodeInfo) error {
	e.rep.Message("Exporting Maya non-physical material", rankStep)

	color, err := colorAttr(e.g, ref, attrColor)
	if err != nil {
		return err
	}
	diffuse, err := floatAttr(e.g, ref, attrDiffuse)
	if err != nil {
		return err
	}

	e.scene.AddMaterial(&Material{
		ID:        info.UUID,
		Name:      info.Name,
		Model:     ModelLegacy,
		BaseColor: color.Scale(diffuse),
		Alpha:     1,
	})

	return nil
}

// translateFlat builds an unlit record.
func (e *Exporter) translateFlat(ref NodeRef, info NodeInfo) error {
	e.rep.Message("Exporting AiFlat shader", rankStep)

	color, err := colorAttr(e.g, ref, attrColor)
	if err != nil {
		return err
	}

	m := &Material{
		ID:        info.UUID,
		Name:      info.Name,
		Model:     ModelUnlit,
		BaseColor: color,
		Alpha:     1,
	}

	hasOpacity := e.g.HasAttribute(ref, attrOpacity)
	if hasOpacity {
		opacity, err := colorAttr(e.g, ref, attrOpacity)
		if err != nil {
			return err
		}
		m.Alpha = opacity.Average()
	}

	if e.texturesEnabled() {
		if hasOpacity {
			m.BaseTexture = e.exportColorAlpha(ref, attrColor, attrOpacity, color, m.Alpha)
		} else {
			m.BaseTexture = e.exportTexture(ref, attrColor)
		}
	}
	if m.BaseTexture != nil {
		m.BaseColor = White
		if m.BaseTexture.HasAlpha {
			m.Alpha = 1
		}
	}

	applyAlphaMode(m)
	e.scene.AddMaterial(m)

	return nil
}

// standardSurface holds the constant inputs of an aiStandardSurface node.
type standardSurface struct {
	baseColor     Color
	opacity       Color
	emissionColor Color
	base          float64
	metalness     float64
	roughness     float64
	emission      float64
	coat          float64
}

// readStandardSurface reads the constants every aiStandardSurface node carries.
func readStandardSurface(g Graph, ref NodeRef) (standardSurface, error) {
	var s standardSurface
	var err error

	floats := []struct {
		dst  *float64
		attr string
	}{
		{&s.base, attrBase},
		{&s.metalness, attrMetalness},
		{&s.roughness, attrSpecularRoughness},
		{&s.emission, attrEmission},
		{&s.coat, attrCoat},
	}
	for _, f := range floats {
		if *f.dst, err = floatAttr(g, ref, f.attr); err != nil {
			return standardSurface{}, err
		}
	}

	colors := []struct {
		dst  *Color
		attr string
	}{
		{&s.baseColor, attrBaseColor},
		{&s.opacity, attrOpacity},
		{&s.emissionColor, attrEmissionColor},
	}
	for _, c := range colors {
		if *c.dst, err = colorAttr(g, ref, c.attr); err != nil {
			return standardSurface{}, err
		}
	}

	return s, nil
}

// translateStandardSurface builds a metallic-roughness record.
func (e *Exporter) translateStandardSurface(ref NodeRef, info NodeInfo) error {
	e.rep.Message("Exporting AiStandardSurface shader", rankStep)

	s, err := readStandardSurface(e.g, ref)
	if err != nil {
		return err
	}

	m := &Material{
		ID:    info.UUID,
		Name:  info.Name,
		Model: ModelMetallicRoughness,
	}

	// Base color and opacity
	opacityAvg := s.opacity.Average()
	if e.texturesEnabled() {
		m.BaseTexture = e.exportColorAlpha(ref, attrBaseColor, attrOpacity, s.baseColor, opacityAvg)
	}
	if m.BaseTexture == nil {
		m.BaseColor = s.baseColor.Scale(s.base)
	} else {
		// Weight and color are baked into the packed map.
		m.BaseColor = Gray(s.base)
	}
	m.Alpha = opacityAvg
	if m.BaseTexture != nil && m.BaseTexture.HasAlpha {
		m.Alpha = 1
	}

	// Metalness and roughness
	m.Metallic = s.metalness
	m.Roughness = s.roughness
	if e.texturesEnabled() {
		orm := e.exportORM(ref, attrMetalness, attrSpecularRoughness, s.metalness, s.roughness)
		if orm != nil {
			m.MetallicRoughnessTexture = orm
			m.OcclusionTexture = orm
			m.Metallic = 1
			m.Roughness = 1
		}
	}

	// Emission
	if e.texturesEnabled() {
		m.EmissiveTexture = e.exportTexture(ref, attrEmissionColor)
	}
	if m.EmissiveTexture == nil {
		m.Emissive = s.emissionColor.Scale(s.emission)
	} else {
		m.Emissive = Gray(s.emission)
	}

	// Normal
	if e.texturesEnabled() {
		m.NormalTexture = e.exportTextureWith(ref, attrNormalCamera, resolveNormalSource)
	}

	// Clear coat is gated on connection presence, not on the connected value.
	_, coatConnected, err := ResolveTextureSource(e.g, ref, attrCoat)
	if err != nil {
		return err
	}
	if s.coat > 0 || coatConnected {
		cc, err := e.translateClearCoat(ref, s.coat)
		if err != nil {
			return err
		}
		m.ClearCoat = cc
	}

	applyAlphaMode(m)

	if e.opt.FullPBR {
		e.rep.Message("Converting AiStandardSurface material to full PBR", rankStep)
		e.scene.AddMaterial(NewPBRMaterial(m))
		return nil
	}
	e.scene.AddMaterial(m)

	return nil
}

// translateClearCoat builds the clear coat layer of an aiStandardSurface node.
func (e *Exporter) translateClearCoat(ref NodeRef, weight float64) (*ClearCoat, error) {
	e.rep.Message("Exporting AiStandardSurface clear coat", rankStep)

	ior, err := floatAttr(e.g, ref, attrCoatIOR)
	if err != nil {
		return nil, err
	}
	rough, err := floatAttr(e.g, ref, attrCoatRoughness)
	if err != nil {
		return nil, err
	}
	tint, err := colorAttr(e.g, ref, attrCoatColor)
	if err != nil {
		return nil, err
	}

	cc := &ClearCoat{
		Enabled:           true,
		IndexOfRefraction: ior,
		Intensity:         weight,
		Roughness:         rough,
		TintColor:         tint,
		TintThickness:     DefaultTintThickness,
	}

	if !e.texturesEnabled() {
		cc.TintEnabled = !tint.IsWhite()
		return cc, nil
	}

	cc.Texture = e.exportCoat(ref, attrCoat, attrCoatRoughness, weight, rough)
	if cc.Texture != nil {
		cc.Intensity = 1
		cc.Roughness = 1
	}

	cc.TintTexture = e.exportTexture(ref, attrCoatColor)
	if cc.TintTexture != nil || !tint.IsWhite() {
		cc.TintEnabled = true
	}
	if cc.TintTexture != nil {
		cc.TintColor = White
	}

	cc.BumpTexture = e.exportTextureWith(ref, attrCoatNormal, resolveNormalSource)

	return cc, nil
}

// applyAlphaMode sets the transparency mode from alpha and the base texture.
func applyAlphaMode(m *Material) {
	if m.Alpha != 1 || (m.BaseTexture != nil && m.BaseTexture.HasAlpha) {
		m.TransparencyMode = TransparencyAlphaBlend
	}

	// Dead: nothing above selects alpha test. Kept until alpha-test detection exists.
	if m.TransparencyMode == TransparencyAlphaTest {
		cut := DefaultAlphaCutOff
		m.AlphaCutOff = &cut
	}
}
