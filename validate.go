package shadepbr

import (
	"fmt"
	"os"
	"strings"
)

// materialView is the validated subset common to material records.
type materialView struct {
	textures  map[string]*Texture
	clearCoat *ClearCoat
	cutOff    *float64
	id        string
	baseColor Color
	emissive  Color
	factors   map[string]float64
	mode      TransparencyMode
}

// viewOf extracts the validated fields of a material record.
func viewOf(m SceneMaterial) (materialView, bool) {
	v, ok := baseView(m)
	if ok && v.clearCoat != nil {
		v.textures["clearCoat.texture"] = v.clearCoat.Texture
		v.textures["clearCoat.tintTexture"] = v.clearCoat.TintTexture
		v.textures["clearCoat.bumpTexture"] = v.clearCoat.BumpTexture
	}

	return v, ok
}

// baseView extracts the record specific fields.
func baseView(m SceneMaterial) (materialView, bool) {
	switch v := m.(type) {
	case *Material:
		if v == nil {
			return materialView{}, false
		}
		return materialView{
			textures: map[string]*Texture{
				"baseTexture":              v.BaseTexture,
				"metallicRoughnessTexture": v.MetallicRoughnessTexture,
				"occlusionTexture":         v.OcclusionTexture,
				"emissiveTexture":          v.EmissiveTexture,
				"normalTexture":            v.NormalTexture,
			},
			clearCoat: v.ClearCoat,
			cutOff:    v.AlphaCutOff,
			id:        v.ID,
			baseColor: v.BaseColor,
			emissive:  v.Emissive,
			factors:   map[string]float64{"metallic": v.Metallic, "roughness": v.Roughness, "alpha": v.Alpha},
			mode:      v.TransparencyMode,
		}, true
	case *PBRMaterial:
		if v == nil {
			return materialView{}, false
		}
		return materialView{
			textures: map[string]*Texture{
				"albedoTexture":   v.AlbedoTexture,
				"metallicTexture": v.MetallicTexture,
				"ambientTexture":  v.AmbientTexture,
				"emissiveTexture": v.EmissiveTexture,
				"bumpTexture":     v.BumpTexture,
			},
			clearCoat: v.ClearCoat,
			cutOff:    v.AlphaCutOff,
			id:        v.ID,
			baseColor: v.AlbedoColor,
			emissive:  v.EmissiveColor,
			factors:   map[string]float64{"metallic": v.Metallic, "roughness": v.Roughness, "alpha": v.Alpha},
			mode:      v.TransparencyMode,
		}, true
	default:
		return materialView{}, false
	}
}

// ValidateMaterial validates a material record and returns issues.
func ValidateMaterial(m SceneMaterial, opt *ValidateOptions) []Issue {
	vopt := opt.normalize()
	if isNilMaterial(m) {
		return []Issue{{Level: IssueError, Code: "nil_material", Message: "material is nil"}}
	}

	v, ok := viewOf(m)
	if !ok {
		return []Issue{{Level: IssueWarning, Code: "unknown_material", Message: fmt.Sprintf("unknown material record %T", m), Path: m.MaterialID()}}
	}

	var out []Issue
	if strings.TrimSpace(v.id) == "" {
		out = append(out, Issue{Level: IssueError, Code: "empty_id", Message: "material id is empty", Path: m.MaterialName()})
	}

	if !vopt.DisableRangeCheck {
		out = append(out, validateColor("baseColor", v.baseColor)...)
		for _, name := range []string{"metallic", "roughness", "alpha"} {
			out = append(out, validateFactor(name, v.factors[name])...)
		}
		// Emission weights above 1 are valid.
		if c := v.emissive; c.R < 0 || c.G < 0 || c.B < 0 {
			out = append(out, Issue{Level: IssueError, Code: "out_of_range", Message: "emissive color is negative", Path: "emissive"})
		}
		if cc := v.clearCoat; cc != nil {
			out = append(out, validateFactor("clearCoat.intensity", cc.Intensity)...)
			out = append(out, validateFactor("clearCoat.roughness", cc.Roughness)...)
			out = append(out, validateColor("clearCoat.tintColor", cc.TintColor)...)
			if cc.IndexOfRefraction < 1 {
				out = append(out, Issue{Level: IssueWarning, Code: "out_of_range", Message: "index of refraction below 1", Path: "clearCoat.indexOfRefraction"})
			}
		}
	}

	if v.cutOff != nil && v.mode != TransparencyAlphaTest {
		out = append(out, Issue{Level: IssueWarning, Code: "alpha_cutoff", Message: "alpha cutoff set without alpha test", Path: "alphaCutOff"})
	}
	if v.mode == TransparencyAlphaTest && v.cutOff == nil {
		out = append(out, Issue{Level: IssueWarning, Code: "alpha_cutoff", Message: "alpha test without cutoff", Path: "alphaCutOff"})
	}

	resolver := PathResolver{Root: vopt.SourceRoot}
	for _, slot := range textureSlots(v) {
		issues := validateTexture(v.textures[slot], resolver, vopt)
		for i := range issues {
			issues[i] = withContext(issues[i], slot)
		}
		out = append(out, issues...)
	}

	for i := range out {
		out[i] = withContext(out[i], m.MaterialName())
	}

	return out
}

// ValidateScene validates every record of a scene and cross references between them.
func ValidateScene(s *Scene, opt *ValidateOptions) []Issue {
	vopt := opt.normalize()
	if s == nil {
		return []Issue{{Level: IssueError, Code: "nil_scene", Message: "scene is nil"}}
	}

	var out []Issue
	seen := make(map[string]struct{}, len(s.Materials))
	for _, m := range s.Materials {
		out = append(out, ValidateMaterial(m, opt)...)
		if isNilMaterial(m) {
			continue
		}

		id := m.MaterialID()
		if _, ok := seen[id]; ok {
			out = append(out, Issue{Level: IssueError, Code: "duplicate_id", Message: "duplicate material id", Path: id})
		}
		seen[id] = struct{}{}

		if vopt.DisableSceneRefCheck {
			continue
		}
		v, ok := viewOf(m)
		if !ok {
			continue
		}
		for _, slot := range textureSlots(v) {
			t := v.textures[slot]
			if !s.HasTexture(t.ID, t.Name) {
				out = append(out, Issue{Level: IssueError, Code: "missing_texture", Message: "texture not listed in scene", Path: m.MaterialName() + ": " + slot})
			}
		}
	}

	groups := make(map[string]struct{}, len(s.MultiMaterials))
	for _, mm := range s.MultiMaterials {
		if _, ok := groups[mm.ID]; ok {
			out = append(out, Issue{Level: IssueError, Code: "duplicate_id", Message: "duplicate multi-material id", Path: mm.ID})
		}
		groups[mm.ID] = struct{}{}

		if vopt.DisableSceneRefCheck {
			continue
		}
		for _, id := range mm.Materials {
			if _, ok := seen[id]; !ok {
				out = append(out, Issue{Level: IssueWarning, Code: "missing_material", Message: "multi-material member not exported", Path: mm.Name + ": " + id})
			}
		}
	}

	return out
}

// isNilMaterial reports whether m is nil or wraps a nil record pointer.
func isNilMaterial(m SceneMaterial) bool {
	switch v := m.(type) {
	case nil:
		return true
	case *Material:
		return v == nil
	case *PBRMaterial:
		return v == nil
	default:
		return false
	}
}

// textureSlots returns the non-nil texture slots of v in a fixed order.
func textureSlots(v materialView) []string {
	order := []string{
		"baseTexture", "albedoTexture",
		"metallicRoughnessTexture", "metallicTexture",
		"occlusionTexture", "ambientTexture",
		"emissiveTexture",
		"normalTexture", "bumpTexture",
		"clearCoat.texture", "clearCoat.tintTexture", "clearCoat.bumpTexture",
	}

	var out []string
	for _, slot := range order {
		if v.textures[slot] != nil {
			out = append(out, slot)
		}
	}

	return out
}

// validateColor validates that every channel lies in [0,1].
func validateColor(name string, c Color) []Issue {
	if Clamp01(c.R) != c.R || Clamp01(c.G) != c.G || Clamp01(c.B) != c.B {
		return []Issue{{Level: IssueError, Code: "out_of_range", Message: "color channel outside [0,1]", Path: name}}
	}
	return nil
}

// validateFactor validates that a factor lies in [0,1].
func validateFactor(name string, v float64) []Issue {
	if Clamp01(v) != v {
		return []Issue{{Level: IssueError, Code: "out_of_range", Message: "factor outside [0,1]", Path: name}}
	}
	return nil
}

// validateTexture validates a texture reference.
func validateTexture(t *Texture, resolver PathResolver, opt ValidateOptions) []Issue {
	var out []Issue
	if t.ID == "" {
		out = append(out, Issue{Level: IssueError, Code: "empty_id", Message: "texture id is empty"})
	}
	if t.Name == "" {
		out = append(out, Issue{Level: IssueError, Code: "empty_name", Message: "texture name is empty"})
	}
	if strings.Contains(t.Name, ":") {
		out = append(out, Issue{Level: IssueWarning, Code: "unsafe_name", Message: "texture name contains ':'", Path: t.Name})
	}
	if t.CoordinatesIndex != 0 && t.CoordinatesIndex != 1 {
		out = append(out, Issue{Level: IssueError, Code: "uv_index", Message: "coordinates index must be 0 or 1", Path: t.Name})
	}
	for _, w := range []WrapMode{t.WrapU, t.WrapV} {
		switch w {
		case WrapClamp, WrapRepeat, WrapMirror:
		default:
			out = append(out, Issue{Level: IssueError, Code: "wrap_mode", Message: fmt.Sprintf("unknown wrap mode %q", w), Path: t.Name})
		}
	}
	if !IsSupportedImageExt(imageExt(t.OriginalPath)) {
		out = append(out, Issue{Level: IssueWarning, Code: "unsupported_format", Message: "unexpected texture extension", Path: t.OriginalPath})
	}

	if !opt.DisableFileCheck && !shouldExcludePath(t.OriginalPath, opt.ExcludePaths) {
		if p := resolver.ResolvePath(t.OriginalPath); p != "" {
			if _, err := os.Stat(p); err != nil {
				out = append(out, Issue{Level: IssueWarning, Code: "missing_resource", Message: "texture file not found", Path: p})
			}
		}
	}

	return out
}

// shouldExcludePath checks if the path should be excluded.
func shouldExcludePath(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	norm := normalizePathForMatch(path)
	for _, p := range patterns {
		if p == "" {
			continue
		}

		pp := normalizePathForMatch(p)
		if prefix, ok := strings.CutSuffix(pp, "*"); ok {
			if strings.HasPrefix(norm, prefix) {
				return true
			}
			continue
		}

		if norm == pp {
			return true
		}
	}

	return false
}

// normalizePathForMatch normalizes a path for matching.
func normalizePathForMatch(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.ToLower(p)
}

// withContext prefixes the issue path with ctx.
func withContext(issue Issue, ctx string) Issue {
	if ctx == "" {
		return issue
	}

	if issue.Path == "" {
		issue.Path = ctx
		return issue
	}

	issue.Path = ctx + ": " + issue.Path
	return issue
}
