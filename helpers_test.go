package shadepbr

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

// loadTestGraph decodes a graph description from testdata.
func loadTestGraph(t *testing.T, name string) *MemoryGraph {
	t.Helper()

	g, err := DecodeGraphFile(filepath.Join("testdata", name), nil)
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}

	return g
}

// mustRef looks up a node by name.
func mustRef(t *testing.T, g *MemoryGraph, name string) NodeRef {
	t.Helper()

	ref, ok := g.Lookup(name)
	if !ok {
		t.Fatalf("node %s not found", name)
	}

	return ref
}

// mustNode adds a node with a derived UUID.
func mustNode(t *testing.T, g *MemoryGraph, name string, typ ShaderType) NodeRef {
	t.Helper()

	ref, err := g.AddNode(name, typ, "")
	if err != nil {
		t.Fatalf("add node %s: %v", name, err)
	}

	return ref
}

// mustSet sets a constant attribute.
func mustSet(t *testing.T, g *MemoryGraph, ref NodeRef, attr string, v Value) {
	t.Helper()

	if err := g.SetAttr(ref, attr, v); err != nil {
		t.Fatalf("set %s: %v", attr, err)
	}
}

// mustConnect connects src to dst.attr.
func mustConnect(t *testing.T, g *MemoryGraph, src, dst NodeRef, attr string) {
	t.Helper()

	if err := g.Connect(src, dst, attr); err != nil {
		t.Fatalf("connect %s: %v", attr, err)
	}
}

// addFileNode adds a file texture node with neutral placement.
func addFileNode(t *testing.T, g *MemoryGraph, name, path string) NodeRef {
	t.Helper()

	ref := mustNode(t, g, name, ShaderTypeMayaFile)
	mustSet(t, g, ref, fileTexturePathAttr, StringValue(path))
	for attr, v := range map[string]float64{"offsetU": 0, "offsetV": 0, "repeatU": 1, "repeatV": 1, "rotateFrame": 0} {
		mustSet(t, g, ref, attr, FloatValue(v))
	}
	for attr, v := range map[string]bool{"mirrorU": false, "mirrorV": false, "wrapU": true, "wrapV": true} {
		mustSet(t, g, ref, attr, BoolValue(v))
	}

	return ref
}

// addStandardSurface adds an untextured aiStandardSurface node.
func addStandardSurface(t *testing.T, g *MemoryGraph, name string) NodeRef {
	t.Helper()

	ref := mustNode(t, g, name, ShaderTypeAiStandardSurface)
	floats := map[string]float64{
		attrBase:              1,
		attrMetalness:         0,
		attrSpecularRoughness: 0.5,
		attrEmission:          0,
		attrCoat:              0,
		attrCoatRoughness:     0.1,
		attrCoatIOR:           1.5,
	}
	for attr, v := range floats {
		mustSet(t, g, ref, attr, FloatValue(v))
	}
	colors := map[string][]float64{
		attrBaseColor:     {0.8, 0.8, 0.8},
		attrOpacity:       {1, 1, 1},
		attrEmissionColor: {1, 1, 1},
		attrNormalCamera:  {0, 0, 0},
		attrCoatColor:     {1, 1, 1},
		attrCoatNormal:    {0, 0, 0},
	}
	for attr, v := range colors {
		mustSet(t, g, ref, attr, VectorValue(v...))
	}

	return ref
}

// writeTestImage writes a w x h image whose pixels come from px. The format follows the extension.
func writeTestImage(t *testing.T, path string, w, h int, px func(x, y int) color.NRGBA) {
	t.Helper()

	if err := SaveImage(path, testImage(w, h, px), 100); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// testImage builds a w x h image whose pixels come from px.
func testImage(w, h int, px func(x, y int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, px(x, y))
		}
	}

	return img
}

// solid returns a pixel function painting c everywhere.
func solid(c color.NRGBA) func(x, y int) color.NRGBA {
	return func(int, int) color.NRGBA { return c }
}

// gradient returns a pixel function with distinct values per channel and position.
func gradient(x, y int) color.NRGBA {
	return color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: uint8(x*20 + y*10), A: 255}
}
