package shadepbr

import (
	"fmt"
	"slices"
)

// Consistency warnings raised while reading UV placement.
const (
	warnMultipleUVSets = "texture linked to more than one UV set; only one is supported"
	warnRotateScale    = "texture rotation and tiling (scale) are applied independently and may combine unexpectedly"
)

// aiImage swrap/twrap enum values.
const (
	aiWrapPeriodic = 0
	aiWrapBlack    = 1
	aiWrapClamp    = 2
	aiWrapMirror   = 3
	aiWrapFile     = 4
)

// ExtractUV reads UV placement of a texture node.
//
// The UV set comes from the host linkage: none links to channel 0, the primary set maps to
// channel 0 and any other set maps to channel 1. Consistency warnings go to rep.
func ExtractUV(g Graph, tex NodeRef, rep Reporter) (UVTransform, error) {
	info, err := g.Describe(tex)
	if err != nil {
		return UVTransform{}, err
	}

	links, err := g.UVSetLinks(tex)
	if err != nil {
		return UVTransform{}, err
	}

	idx, mixed := NormalizeUVSet(links)
	if mixed && rep != nil {
		rep.Warning(warnMultipleUVSets, rankTexture)
	}

	var uv UVTransform
	switch info.Type {
	case ShaderTypeAiImage:
		uv, err = aiImageUV(g, tex)
	case ShaderTypeMayaFile:
		uv, err = fileUV(g, tex)
	default:
		return UVTransform{}, fmt.Errorf("%w: %s", ErrUnsupportedTextureNode, info.Name)
	}
	if err != nil {
		return UVTransform{}, err
	}
	uv.CoordinatesIndex = idx

	if uv.WAng != 0 && (uv.UScale != 1 || uv.VScale != 1) && rep != nil {
		rep.Warning(warnRotateScale, rankTexture)
	}

	return uv, nil
}

// NormalizeUVSet maps linked UV-set indices to a renderer channel.
//
// Empty linkage is channel 0. Otherwise the smallest linked index decides: 0 stays 0,
// anything else becomes 1. mixed reports linkage to both the primary and a secondary set.
func NormalizeUVSet(links []int) (index int, mixed bool) {
	if len(links) == 0 {
		return 0, false
	}

	set := slices.Clone(links)
	slices.Sort(set)
	set = slices.Compact(set)

	if len(set) > 1 {
		zeros := 0
		for _, v := range set {
			if v == 0 {
				zeros++
			}
		}
		mixed = zeros != 0 && zeros != len(set)
	}

	if set[0] == 0 {
		return 0, mixed
	}

	return 1, mixed
}

// fileUV reads placement attributes of a file node.
func fileUV(g Graph, tex NodeRef) (UVTransform, error) {
	var uv UVTransform
	var err error

	floats := []struct {
		dst  *float64
		attr string
	}{
		{&uv.UOffset, "offsetU"},
		{&uv.VOffset, "offsetV"},
		{&uv.UScale, "repeatU"},
		{&uv.VScale, "repeatV"},
		{&uv.WAng, "rotateFrame"},
	}
	for _, f := range floats {
		if *f.dst, err = floatAttr(g, tex, f.attr); err != nil {
			return UVTransform{}, err
		}
	}

	if uv.WrapU, err = fileWrap(g, tex, "mirrorU", "wrapU"); err != nil {
		return UVTransform{}, err
	}
	if uv.WrapV, err = fileWrap(g, tex, "mirrorV", "wrapV"); err != nil {
		return UVTransform{}, err
	}

	return uv, nil
}

// fileWrap resolves one axis addressing mode; mirror beats wrap.
func fileWrap(g Graph, tex NodeRef, mirrorAttr, wrapAttr string) (WrapMode, error) {
	mirror, err := boolAttr(g, tex, mirrorAttr)
	if err != nil {
		return "", err
	}
	if mirror {
		return WrapMirror, nil
	}

	wrap, err := boolAttr(g, tex, wrapAttr)
	if err != nil {
		return "", err
	}
	if wrap {
		return WrapRepeat, nil
	}

	return WrapClamp, nil
}

// aiImageUV reads placement attributes of an aiImage node. aiImage has no frame rotation.
func aiImageUV(g Graph, tex NodeRef) (UVTransform, error) {
	var uv UVTransform
	var err error

	floats := []struct {
		dst  *float64
		attr string
	}{
		{&uv.UOffset, "soffset"},
		{&uv.VOffset, "toffset"},
		{&uv.UScale, "sscale"},
		{&uv.VScale, "tscale"},
	}
	for _, f := range floats {
		if *f.dst, err = floatAttr(g, tex, f.attr); err != nil {
			return UVTransform{}, err
		}
	}

	if uv.WrapU, err = aiImageWrap(g, tex, "swrap"); err != nil {
		return UVTransform{}, err
	}
	if uv.WrapV, err = aiImageWrap(g, tex, "twrap"); err != nil {
		return UVTransform{}, err
	}

	return uv, nil
}

// aiImageWrap maps an aiImage wrap enum to a WrapMode.
func aiImageWrap(g Graph, tex NodeRef, attr string) (WrapMode, error) {
	v, err := floatAttr(g, tex, attr)
	if err != nil {
		return "", err
	}

	switch int(v) {
	case aiWrapPeriodic:
		return WrapRepeat, nil
	case aiWrapMirror:
		return WrapMirror, nil
	case aiWrapBlack, aiWrapClamp, aiWrapFile:
		return WrapClamp, nil
	default:
		return WrapClamp, nil
	}
}
