package shadepbr

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"
)

// Scene is the in-memory export output.
type Scene struct {
	OutputPath     string           `json:"outputPath,omitempty" yaml:"outputPath,omitempty"` // Directory textures are written to
	Materials      []SceneMaterial  `json:"materials" yaml:"materials"`                       // Material records in export order
	MultiMaterials []*MultiMaterial `json:"multiMaterials" yaml:"multiMaterials"`             // Multi-material groups
	Textures       []*Texture       `json:"textures" yaml:"textures"`                         // Texture references, unique by ID and name
	mu             sync.Mutex
}

// NewScene creates an empty scene.
func NewScene(outputPath string) *Scene {
	return &Scene{
		OutputPath:     outputPath,
		Materials:      []SceneMaterial{},
		MultiMaterials: []*MultiMaterial{},
		Textures:       []*Texture{},
	}
}

// AddMaterial appends a material record.
func (s *Scene) AddMaterial(m SceneMaterial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Materials = append(s.Materials, m)
}

// AddMultiMaterial appends a group unless one with the same ID exists.
// It returns the stored group and whether mm was appended.
func (s *Scene) AddMultiMaterial(mm *MultiMaterial) (*MultiMaterial, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.MultiMaterials {
		if existing.ID == mm.ID {
			return existing, false
		}
	}
	s.MultiMaterials = append(s.MultiMaterials, mm)

	return mm, true
}

// AddTexture appends a texture unless one with the same ID and name exists.
func (s *Scene) AddTexture(t *Texture) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.Textures {
		if existing.ID == t.ID && existing.Name == t.Name {
			return false
		}
	}
	s.Textures = append(s.Textures, t)

	return true
}

// Material returns the material record with the given ID.
func (s *Scene) Material(id string) (SceneMaterial, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.Materials {
		if m.MaterialID() == id {
			return m, true
		}
	}

	return nil, false
}

// HasTexture reports whether a texture with the given ID and name is listed.
func (s *Scene) HasTexture(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.Textures {
		if t.ID == id && t.Name == name {
			return true
		}
	}

	return false
}

// EncodeScene writes the scene as indented JSON.
func EncodeScene(w io.Writer, s *Scene, opt *FormatOptions) error {
	fopt := opt.normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", fopt.Indent)
	enc.SetEscapeHTML(false)

	return enc.Encode(s)
}

// EncodeSceneFile writes the scene as JSON to a file.
func EncodeSceneFile(path string, s *Scene, opt *FormatOptions) error {
	b, err := FormatScene(s, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// FormatScene renders the scene as JSON bytes.
func FormatScene(s *Scene, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeScene(&buf, s, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
