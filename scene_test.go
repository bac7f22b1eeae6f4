package shadepbr

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSceneAddTexture(t *testing.T) {
	s := NewScene("out")
	a := &Texture{ID: "1", Name: "a.png"}

	if !s.AddTexture(a) {
		t.Fatalf("first add rejected")
	}
	if s.AddTexture(&Texture{ID: "1", Name: "a.png"}) {
		t.Fatalf("duplicate add accepted")
	}
	// Same node packed under another name is a distinct texture.
	if !s.AddTexture(&Texture{ID: "1", Name: "a_RGBA.png"}) {
		t.Fatalf("distinct name rejected")
	}
	if !s.HasTexture("1", "a.png") || s.HasTexture("2", "a.png") {
		t.Fatalf("HasTexture mismatch")
	}
	if len(s.Textures) != 2 {
		t.Fatalf("textures: got %d", len(s.Textures))
	}
}

func TestSceneMaterialLookup(t *testing.T) {
	s := NewScene("")
	m := validMaterial()
	s.AddMaterial(m)

	got, ok := s.Material(m.ID)
	if !ok || got != m {
		t.Fatalf("lookup: got %v, %v", got, ok)
	}
	if _, ok := s.Material("missing"); ok {
		t.Fatalf("unexpected material")
	}
}

func TestFormatScene(t *testing.T) {
	g := loadTestGraph(t, "surface.graph")
	exp := NewExporter(g, nil, &ExportOptions{OutputPath: "out"}, &IssueLog{})
	_ = exp.ExportMaterials(g.Nodes())

	b, err := FormatScene(exp.Scene(), nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var doc struct {
		OutputPath string `json:"outputPath"`
		Materials  []struct {
			ID               string  `json:"id"`
			Name             string  `json:"name"`
			Model            string  `json:"model"`
			Metallic         float64 `json:"metallic"`
			TransparencyMode int     `json:"transparencyMode"`
		} `json:"materials"`
		MultiMaterials []json.RawMessage `json:"multiMaterials"`
		Textures       []json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, b)
	}

	if doc.OutputPath != "out" || len(doc.Materials) != 3 {
		t.Fatalf("scene: got %+v", doc)
	}
	first := doc.Materials[0]
	if first.Name != "surface1" || first.Model != "pbrMetallicRoughness" || first.Metallic != 0.2 || first.TransparencyMode != 0 {
		t.Fatalf("first material: got %+v", first)
	}
	if doc.MultiMaterials == nil || doc.Textures == nil {
		t.Fatalf("empty lists must encode as arrays:\n%s", b)
	}
	if !strings.Contains(string(b), "\n    \"materials\"") {
		t.Fatalf("expected default indent:\n%s", b)
	}
}

func TestEncodeSceneFile(t *testing.T) {
	s := NewScene("")
	tex := &Texture{ID: "1", Name: "a&b.png", OriginalPath: "a&b.png", UVTransform: UVTransform{WrapU: WrapRepeat, WrapV: WrapRepeat}}
	s.AddTexture(tex)

	path := filepath.Join(t.TempDir(), "scene.json")
	if err := EncodeSceneFile(path, s, &FormatOptions{Indent: "\t"}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(b, []byte(`"name": "a&b.png"`)) {
		t.Fatalf("html escaping applied or name missing:\n%s", b)
	}
	if !bytes.Contains(b, []byte("\n\t\"materials\"")) {
		t.Fatalf("expected tab indent:\n%s", b)
	}
	// UV placement is flattened into the texture object.
	if !bytes.Contains(b, []byte(`"wrapU": "wrap"`)) || bytes.Contains(b, []byte("UVTransform")) {
		t.Fatalf("uv placement not inlined:\n%s", b)
	}
}
