package shadepbr

import (
	"path/filepath"
	"strings"
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

// validTexture returns a texture reference that passes validation.
func validTexture(name string) *Texture {
	return &Texture{
		ID:           DeriveUUID(name),
		Name:         name,
		OriginalPath: "textures/" + name,
		UVTransform:  UVTransform{WrapU: WrapRepeat, WrapV: WrapClamp, UScale: 1, VScale: 1},
	}
}

// validMaterial returns a material record that passes validation.
func validMaterial() *Material {
	return &Material{
		ID:        DeriveUUID("surface1"),
		Name:      "surface1",
		Model:     ModelMetallicRoughness,
		BaseColor: Gray(0.8),
		Metallic:  0.2,
		Roughness: 0.5,
		Alpha:     1,
	}
}

func TestValidateMaterial(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Material)
		opt      *ValidateOptions
		wantWarn int
		wantErr  int
	}{
		{name: "valid", mutate: func(*Material) {}},
		{name: "empty id", mutate: func(m *Material) { m.ID = " " }, wantErr: 1},
		{name: "base color range", mutate: func(m *Material) { m.BaseColor.G = 1.2 }, wantErr: 1},
		{name: "factor ranges", mutate: func(m *Material) { m.Metallic = -0.1; m.Alpha = 2 }, wantErr: 2},
		{name: "range check disabled", mutate: func(m *Material) { m.Metallic = -0.1 }, opt: &ValidateOptions{DisableRangeCheck: true, DisableFileCheck: true}},
		{name: "bright emission", mutate: func(m *Material) { m.Emissive = Gray(4) }},
		{name: "negative emission", mutate: func(m *Material) { m.Emissive.B = -1 }, wantErr: 1},
		{name: "cutoff without test", mutate: func(m *Material) { m.AlphaCutOff = floatPtr(0.5) }, wantWarn: 1},
		{name: "test without cutoff", mutate: func(m *Material) { m.TransparencyMode = TransparencyAlphaTest }, wantWarn: 1},
		{name: "alpha test", mutate: func(m *Material) {
			m.TransparencyMode = TransparencyAlphaTest
			m.AlphaCutOff = floatPtr(DefaultAlphaCutOff)
		}},
		{name: "coat ranges", mutate: func(m *Material) {
			m.ClearCoat = &ClearCoat{Enabled: true, Intensity: 1.5, Roughness: 0.2, IndexOfRefraction: 0.9, TintColor: White}
		}, wantWarn: 1, wantErr: 1},
		{name: "texture problems", mutate: func(m *Material) {
			tex := validTexture("ns:base.exr")
			tex.CoordinatesIndex = 2
			tex.WrapV = "border"
			m.BaseTexture = tex
		}, wantWarn: 2, wantErr: 2},
		{name: "nameless texture", mutate: func(m *Material) {
			m.NormalTexture = &Texture{UVTransform: UVTransform{WrapU: WrapClamp, WrapV: WrapClamp}}
		}, wantWarn: 1, wantErr: 2},
		{name: "coat texture", mutate: func(m *Material) {
			m.ClearCoat = &ClearCoat{
				Enabled:           true,
				Intensity:         1,
				IndexOfRefraction: 1.5,
				TintColor:         White,
				BumpTexture:       &Texture{ID: "x", Name: "n.png", OriginalPath: "n.png"},
			}
		}, wantErr: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMaterial()
			tt.mutate(m)

			var warns, errs int
			for _, it := range ValidateMaterial(m, tt.opt) {
				switch it.Level {
				case IssueWarning:
					warns++
				case IssueError:
					errs++
				}
				if !strings.HasPrefix(it.Path, "surface1") {
					t.Fatalf("issue path lacks material context: %+v", it)
				}
			}
			if warns != tt.wantWarn || errs != tt.wantErr {
				t.Fatalf("warnings=%d errors=%d, want %d/%d", warns, errs, tt.wantWarn, tt.wantErr)
			}
		})
	}
}

func TestValidateMaterialRecords(t *testing.T) {
	nilRecords := []struct {
		name string
		m    SceneMaterial
	}{
		{name: "nil interface", m: nil},
		{name: "nil material", m: (*Material)(nil)},
		{name: "nil pbr material", m: (*PBRMaterial)(nil)},
	}
	for _, tt := range nilRecords {
		t.Run(tt.name, func(t *testing.T) {
			if issues := ValidateMaterial(tt.m, nil); len(issues) != 1 || issues[0].Code != "nil_material" {
				t.Fatalf("got %+v", issues)
			}
		})
	}

	p := NewPBRMaterial(validMaterial())
	p.AlbedoTexture = validTexture("base.png")
	if issues := ValidateMaterial(p, nil); len(issues) != 0 {
		t.Fatalf("pbr: got %+v", issues)
	}

	p.AlbedoColor.R = 3
	issues := ValidateMaterial(p, nil)
	if len(issues) != 1 || issues[0].Path != "surface1: baseColor" {
		t.Fatalf("pbr range: got %+v", issues)
	}
}

func TestValidateTextureFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, filepath.Join(dir, "present.png"), 2, 2, gradient)

	m := validMaterial()
	m.BaseTexture = validTexture("present.png")
	m.BaseTexture.OriginalPath = "present.png"
	m.EmissiveTexture = validTexture("absent.png")
	m.EmissiveTexture.OriginalPath = "absent.png"
	m.NormalTexture = validTexture("excluded.png")
	m.NormalTexture.OriginalPath = `Shared\Excluded.png`

	issues := ValidateMaterial(m, &ValidateOptions{SourceRoot: dir, ExcludePaths: []string{"shared/*"}})
	if len(issues) != 1 || issues[0].Code != "missing_resource" {
		t.Fatalf("got %+v", issues)
	}
	if want := "surface1: emissiveTexture: " + filepath.Join(dir, "absent.png"); issues[0].Path != want {
		t.Fatalf("path: got %q, want %q", issues[0].Path, want)
	}

	// The default options skip the file check.
	if issues := ValidateMaterial(m, nil); len(issues) != 0 {
		t.Fatalf("default options: got %+v", issues)
	}
}

func TestValidateScene(t *testing.T) {
	s := NewScene("")
	a := validMaterial()
	a.BaseTexture = validTexture("base.png")
	s.AddMaterial(a)
	s.AddTexture(a.BaseTexture)

	if issues := ValidateScene(s, nil); len(issues) != 0 {
		t.Fatalf("valid scene: got %+v", issues)
	}

	b := validMaterial()
	b.NormalTexture = validTexture("normal.png")
	s.AddMaterial(b)
	s.AddMultiMaterial(&MultiMaterial{ID: "g1", Name: "group", Materials: []string{a.ID, "unknown"}})
	s.MultiMaterials = append(s.MultiMaterials, &MultiMaterial{ID: "g1", Name: "group"})

	codes := map[string]int{}
	for _, it := range ValidateScene(s, nil) {
		codes[it.Code]++
	}
	want := map[string]int{"duplicate_id": 2, "missing_texture": 1, "missing_material": 1}
	for code, n := range want {
		if codes[code] != n {
			t.Fatalf("%s: got %d, want %d (%v)", code, codes[code], n, codes)
		}
	}

	s.Materials = append(s.Materials, (*Material)(nil))
	codes = map[string]int{}
	for _, it := range ValidateScene(s, &ValidateOptions{DisableFileCheck: true, DisableSceneRefCheck: true}) {
		codes[it.Code]++
	}
	if codes["missing_texture"] != 0 || codes["missing_material"] != 0 || codes["duplicate_id"] != 2 || codes["nil_material"] != 1 {
		t.Fatalf("scene refs disabled: got %v", codes)
	}
}

func TestValidateExportedScene(t *testing.T) {
	dir, g := setupTextured(t)
	exp := NewExporter(g, nil, &ExportOptions{SourceRoot: dir}, &IssueLog{})
	if err := exp.ExportMaterial(mustRef(t, g, "surface2")); err != nil {
		t.Fatalf("export: %v", err)
	}

	if issues := ValidateScene(exp.Scene(), &ValidateOptions{SourceRoot: dir}); len(issues) != 0 {
		t.Fatalf("got %+v", issues)
	}
}

func TestShouldExcludePath(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{path: "a/b.png", patterns: nil, want: false},
		{path: "a/b.png", patterns: []string{"A/B.PNG"}, want: true},
		{path: `a\b.png`, patterns: []string{"a/*"}, want: true},
		{path: "c/b.png", patterns: []string{"", "a/*"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := shouldExcludePath(tt.path, tt.patterns); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
