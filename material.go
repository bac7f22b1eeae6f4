package shadepbr

// ShaderModel indicates the renderer-facing material model.
type ShaderModel string

const (
	// ModelUnlit is a constant-color material without lighting.
	ModelUnlit ShaderModel = "unlit"
	// ModelMetallicRoughness is the metallic-roughness PBR model.
	ModelMetallicRoughness ShaderModel = "pbrMetallicRoughness"
	// ModelLegacy is a minimal record for non-physical host materials.
	ModelLegacy ShaderModel = "legacy"
)

// TransparencyMode indicates how alpha is applied.
type TransparencyMode int

const (
	// TransparencyOpaque ignores alpha.
	TransparencyOpaque TransparencyMode = 0
	// TransparencyAlphaTest discards fragments below AlphaCutOff.
	TransparencyAlphaTest TransparencyMode = 1
	// TransparencyAlphaBlend blends by alpha.
	TransparencyAlphaBlend TransparencyMode = 2
)

// String returns the renderer name of the mode.
func (m TransparencyMode) String() string {
	switch m {
	case TransparencyAlphaTest:
		return "ALPHATEST"
	case TransparencyAlphaBlend:
		return "ALPHABLEND"
	default:
		return "OPAQUE"
	}
}

// DefaultAlphaCutOff is the cutoff written for alpha-tested materials.
const DefaultAlphaCutOff = 0.5

// DefaultTintThickness approximates the host coat tint depth.
const DefaultTintThickness = 0.65

// SceneMaterial is a material record appended to a Scene.
type SceneMaterial interface {
	MaterialID() string
	MaterialName() string
}

// Material represents a translated material record.
type Material struct {
	BaseTexture              *Texture         `json:"baseTexture,omitempty" yaml:"baseTexture,omitempty"`                           // Base color (and alpha) texture
	MetallicRoughnessTexture *Texture         `json:"metallicRoughnessTexture,omitempty" yaml:"metallicRoughnessTexture,omitempty"` // Packed ORM texture
	OcclusionTexture         *Texture         `json:"occlusionTexture,omitempty" yaml:"occlusionTexture,omitempty"`                 // Occlusion texture, shares the ORM texture
	EmissiveTexture          *Texture         `json:"emissiveTexture,omitempty" yaml:"emissiveTexture,omitempty"`                   // Emissive texture
	NormalTexture            *Texture         `json:"normalTexture,omitempty" yaml:"normalTexture,omitempty"`                       // Tangent space normal map
	AlphaCutOff              *float64         `json:"alphaCutOff,omitempty" yaml:"alphaCutOff,omitempty"`                           // Cutoff for alpha test
	ClearCoat                *ClearCoat       `json:"clearCoat,omitempty" yaml:"clearCoat,omitempty"`                               // Clear coat layer
	ID                       string           `json:"id" yaml:"id"`                                                                 // Material node UUID
	Name                     string           `json:"name" yaml:"name"`                                                             // Material node name
	Model                    ShaderModel      `json:"model" yaml:"model"`                                                           // Material model
	BaseColor                Color            `json:"baseColor" yaml:"baseColor"`                                                   // Base color factor
	Emissive                 Color            `json:"emissive" yaml:"emissive"`                                                     // Emissive factor
	Metallic                 float64          `json:"metallic" yaml:"metallic"`                                                     // Metallic factor
	Roughness                float64          `json:"roughness" yaml:"roughness"`                                                   // Roughness factor
	Alpha                    float64          `json:"alpha" yaml:"alpha"`                                                           // Alpha factor
	TransparencyMode         TransparencyMode `json:"transparencyMode" yaml:"transparencyMode"`                                     // Alpha mode
	DoubleSided              bool             `json:"doubleSided,omitempty" yaml:"doubleSided,omitempty"`                           // Disable back-face culling
}

// MaterialID implements SceneMaterial.
func (m *Material) MaterialID() string { return m.ID }

// MaterialName implements SceneMaterial.
func (m *Material) MaterialName() string { return m.Name }

// Textures returns the non-nil texture slots of m, clear coat included.
func (m *Material) Textures() []*Texture {
	var out []*Texture
	add := func(t *Texture) {
		if t != nil {
			out = append(out, t)
		}
	}

	add(m.BaseTexture)
	add(m.MetallicRoughnessTexture)
	add(m.OcclusionTexture)
	add(m.EmissiveTexture)
	add(m.NormalTexture)
	if m.ClearCoat != nil {
		add(m.ClearCoat.Texture)
		add(m.ClearCoat.TintTexture)
		add(m.ClearCoat.BumpTexture)
	}

	return out
}

// ClearCoat represents a clear coat layer.
type ClearCoat struct {
	Texture           *Texture `json:"texture,omitempty" yaml:"texture,omitempty"`         // Packed intensity (R) and roughness (G)
	TintTexture       *Texture `json:"tintTexture,omitempty" yaml:"tintTexture,omitempty"` // Tint color texture
	BumpTexture       *Texture `json:"bumpTexture,omitempty" yaml:"bumpTexture,omitempty"` // Coat normal map
	TintColor         Color    `json:"tintColor" yaml:"tintColor"`                         // Tint color
	Intensity         float64  `json:"intensity" yaml:"intensity"`                         // Coat weight
	Roughness         float64  `json:"roughness" yaml:"roughness"`                         // Coat roughness
	IndexOfRefraction float64  `json:"indexOfRefraction" yaml:"indexOfRefraction"`         // Coat IOR
	TintThickness     float64  `json:"tintThickness" yaml:"tintThickness"`                 // Tint thickness
	Enabled           bool     `json:"isEnabled" yaml:"isEnabled"`                         // Whether the coat is rendered
	TintEnabled       bool     `json:"isTintEnabled" yaml:"isTintEnabled"`                 // Whether the tint is applied
}

// PBRMaterial is the full PBR record wrapping a metallic-roughness material.
type PBRMaterial struct {
	ClearCoat            *ClearCoat       `json:"clearCoat,omitempty" yaml:"clearCoat,omitempty"`                                             // Clear coat layer
	AlbedoTexture        *Texture         `json:"albedoTexture,omitempty" yaml:"albedoTexture,omitempty"`                                     // Albedo texture
	MetallicTexture      *Texture         `json:"metallicTexture,omitempty" yaml:"metallicTexture,omitempty"`                                 // Packed metallic-roughness texture
	AmbientTexture       *Texture         `json:"ambientTexture,omitempty" yaml:"ambientTexture,omitempty"`                                   // Ambient occlusion texture
	EmissiveTexture      *Texture         `json:"emissiveTexture,omitempty" yaml:"emissiveTexture,omitempty"`                                 // Emissive texture
	BumpTexture          *Texture         `json:"bumpTexture,omitempty" yaml:"bumpTexture,omitempty"`                                         // Normal map
	AlphaCutOff          *float64         `json:"alphaCutOff,omitempty" yaml:"alphaCutOff,omitempty"`                                         // Cutoff for alpha test
	ID                   string           `json:"id" yaml:"id"`                                                                               // Material node UUID
	Name                 string           `json:"name" yaml:"name"`                                                                           // Material node name
	AlbedoColor          Color            `json:"albedoColor" yaml:"albedoColor"`                                                             // Albedo factor
	EmissiveColor        Color            `json:"emissiveColor" yaml:"emissiveColor"`                                                         // Emissive factor
	Metallic             float64          `json:"metallic" yaml:"metallic"`                                                                   // Metallic factor
	Roughness            float64          `json:"roughness" yaml:"roughness"`                                                                 // Roughness factor
	Alpha                float64          `json:"alpha" yaml:"alpha"`                                                                         // Alpha factor
	TransparencyMode     TransparencyMode `json:"transparencyMode" yaml:"transparencyMode"`                                                   // Alpha mode
	BackFaceCulling      bool             `json:"backFaceCulling" yaml:"backFaceCulling"`                                                     // Cull back faces
	UseRoughnessFromG    bool             `json:"useRoughnessFromMetallicTextureGreen" yaml:"useRoughnessFromMetallicTextureGreen"`           // Roughness is read from the G channel
	UseMetallnessFromB   bool             `json:"useMetallnessFromMetallicTextureBlue" yaml:"useMetallnessFromMetallicTextureBlue"`           // Metalness is read from the B channel
	UseAmbientOcclusionR bool             `json:"useAmbientOcclusionFromMetallicTextureRed" yaml:"useAmbientOcclusionFromMetallicTextureRed"` // Occlusion is read from the R channel
	UseAlphaFromAlbedo   bool             `json:"useAlphaFromAlbedoTexture" yaml:"useAlphaFromAlbedoTexture"`                                 // Alpha is read from the albedo texture
	Source               *Material        `json:"-" yaml:"-"`                                                                                 // Wrapped record
}

// NewPBRMaterial wraps a metallic-roughness material into the full PBR record.
func NewPBRMaterial(m *Material) *PBRMaterial {
	p := &PBRMaterial{
		ClearCoat:        m.ClearCoat,
		AlbedoTexture:    m.BaseTexture,
		MetallicTexture:  m.MetallicRoughnessTexture,
		AmbientTexture:   m.OcclusionTexture,
		EmissiveTexture:  m.EmissiveTexture,
		BumpTexture:      m.NormalTexture,
		AlphaCutOff:      m.AlphaCutOff,
		ID:               m.ID,
		Name:             m.Name,
		AlbedoColor:      m.BaseColor,
		EmissiveColor:    m.Emissive,
		Metallic:         m.Metallic,
		Roughness:        m.Roughness,
		Alpha:            m.Alpha,
		TransparencyMode: m.TransparencyMode,
		BackFaceCulling:  !m.DoubleSided,
		Source:           m,
	}

	if m.MetallicRoughnessTexture != nil {
		p.UseRoughnessFromG = true
		p.UseMetallnessFromB = true
		p.UseAmbientOcclusionR = m.OcclusionTexture != nil
	}
	if m.BaseTexture != nil && m.BaseTexture.HasAlpha {
		p.UseAlphaFromAlbedo = true
	}

	return p
}

// MaterialID implements SceneMaterial.
func (p *PBRMaterial) MaterialID() string { return p.ID }

// MaterialName implements SceneMaterial.
func (p *PBRMaterial) MaterialName() string { return p.Name }

// MultiMaterial represents a group of materials assigned per face subset.
type MultiMaterial struct {
	ID        string   `json:"id" yaml:"id"`               // Sorted member UUIDs joined by "_"
	Name      string   `json:"name" yaml:"name"`           // Member names ordered by UUID joined by "_"
	Materials []string `json:"materials" yaml:"materials"` // Member UUIDs in input order
}
