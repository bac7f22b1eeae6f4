package shadepbr

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Texture path attributes per texture node kind.
const (
	fileTexturePathAttr    = "fileTextureName"
	aiImageTexturePathAttr = "filename"
)

// supportedImageExts is the allow-list of texture file extensions, without the leading dot.
var supportedImageExts = []string{"bmp", "gif", "jpg", "jpeg", "png", "tga"}

// WrapMode indicates texture addressing outside [0,1].
type WrapMode string

const (
	// WrapClamp clamps coordinates to the edge texel.
	WrapClamp WrapMode = "clamp"
	// WrapRepeat repeats the texture.
	WrapRepeat WrapMode = "wrap"
	// WrapMirror repeats the texture mirrored.
	WrapMirror WrapMode = "mirror"
)

// UVTransform represents texture placement on a UV set.
type UVTransform struct {
	WrapU            WrapMode `json:"wrapU" yaml:"wrapU"`                       // U addressing mode
	WrapV            WrapMode `json:"wrapV" yaml:"wrapV"`                       // V addressing mode
	CoordinatesIndex int      `json:"coordinatesIndex" yaml:"coordinatesIndex"` // UV channel, 0 or 1
	UOffset          float64  `json:"uOffset" yaml:"uOffset"`                   // U offset
	VOffset          float64  `json:"vOffset" yaml:"vOffset"`                   // V offset
	UScale           float64  `json:"uScale" yaml:"uScale"`                     // U repeat
	VScale           float64  `json:"vScale" yaml:"vScale"`                     // V repeat
	UAng             float64  `json:"uAng" yaml:"uAng"`                         // Rotation around U, always 0
	VAng             float64  `json:"vAng" yaml:"vAng"`                         // Rotation around V, always 0
	WAng             float64  `json:"wAng" yaml:"wAng"`                         // Rotation around W
}

// Texture represents an exported texture reference.
type Texture struct {
	Image        *image.NRGBA `json:"-" yaml:"-"`                                   // Packed image, nil for plain references
	ID           string       `json:"id" yaml:"id"`                                 // UUID of the reference texture node
	Name         string       `json:"name" yaml:"name"`                             // Output file name
	OriginalPath string       `json:"originalPath" yaml:"originalPath"`             // Source or packed file path
	HasAlpha     bool         `json:"hasAlpha,omitempty" yaml:"hasAlpha,omitempty"` // Whether the alpha channel carries data
	UVTransform  `yaml:",inline"`
}

// IsSupportedImageExt reports whether ext (without the leading dot) is in the allow-list.
// Matching is case-sensitive.
func IsSupportedImageExt(ext string) bool {
	return slices.Contains(supportedImageExts, ext)
}

// LocateSource returns the image path backing a texture node.
//
// Only file and aiImage nodes are recognized. The path must be non-blank and carry an
// allow-listed extension; the file itself is not checked here.
func LocateSource(g Graph, tex NodeRef) (string, error) {
	info, err := g.Describe(tex)
	if err != nil {
		return "", err
	}

	if !info.Type.IsTexture() {
		return "", fmt.Errorf("%w: %s is %s, only file or aiImage textures are supported", ErrUnsupportedTextureNode, info.Name, info.Type)
	}

	attr := fileTexturePathAttr
	if info.Type == ShaderTypeAiImage {
		attr = aiImageTexturePathAttr
	}

	path, err := stringAttr(g, tex, attr)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyTexturePath, info.Name)
	}

	ext := imageExt(path)
	if !IsSupportedImageExt(ext) {
		return "", fmt.Errorf("%w: %s texture format %q is not supported and cannot be used", ErrUnsupportedFormat, info.Name, ext)
	}

	return path, nil
}

// imageExt returns the file extension without the leading dot.
func imageExt(path string) string {
	return strings.TrimPrefix(filepath.Ext(normalizeOSPath(path)), ".")
}

// imageStem returns the file name without directory and extension.
func imageStem(path string) string {
	base := filepath.Base(normalizeOSPath(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// textureName sanitizes host namespace separators in output file names.
func textureName(name string) string {
	return strings.ReplaceAll(name, ":", "_")
}

// PathResolver resolves texture paths relative to Root.
type PathResolver struct {
	Root string
}

// ResolvePath resolves a raw path against Root.
func (r PathResolver) ResolvePath(raw string) string {
	if raw == "" {
		return ""
	}

	norm := normalizeOSPath(raw)
	if filepath.IsAbs(norm) || hasVolume(norm) {
		return filepath.Clean(norm)
	}

	if r.Root == "" {
		return filepath.Clean(norm)
	}

	return filepath.Clean(filepath.Join(r.Root, norm))
}

// hasVolume checks if the path has a volume.
func hasVolume(p string) bool {
	if len(p) >= 2 && p[1] == ':' {
		return true
	}
	return false
}

// normalizeOSPath normalizes a path for OS-specific separators.
func normalizeOSPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return filepath.FromSlash(p)
}

// exportTexture exports the texture driving node.attr as a plain reference.
func (e *Exporter) exportTexture(node NodeRef, attr string) *Texture {
	return e.exportTextureWith(node, attr, ResolveTextureSource)
}

// exportTextureWith exports a texture using a custom plug resolver.
func (e *Exporter) exportTextureWith(node NodeRef, attr string, resolve func(Graph, NodeRef, string) (NodeRef, bool, error)) *Texture {
	name := nodeName(e.g, node)
	e.rep.Message(fmt.Sprintf("Exporting texture %s.%s", name, attr), rankStep)

	src, ok, err := resolve(e.g, node, attr)
	if err != nil {
		e.rep.Error(err.Error(), rankStep)
		return nil
	}
	if !ok {
		e.rep.Message(fmt.Sprintf("%s has no texture connected to attribute %s", name, attr), rankTexture)
		return nil
	}

	path, err := LocateSource(e.g, src)
	if err != nil {
		e.rep.Error(err.Error(), rankTexture)
		return nil
	}

	tex, err := e.textureFromNode(src, path)
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

// textureFromNode builds a plain texture reference for a located texture node.
func (e *Exporter) textureFromNode(src NodeRef, path string) (*Texture, error) {
	info, err := e.g.Describe(src)
	if err != nil {
		return nil, err
	}

	uv, err := ExtractUV(e.g, src, e.rep)
	if err != nil {
		return nil, err
	}

	return &Texture{
		ID:           info.UUID,
		Name:         textureName(filepath.Base(normalizeOSPath(path))),
		OriginalPath: path,
		UVTransform:  uv,
	}, nil
}

// copyTexture copies the texture file into the scene output directory.
func (e *Exporter) copyTexture(tex *Texture) {
	if !e.opt.IsOutputPathExist() {
		e.rep.Warning(fmt.Sprintf("Output path %q is not a directory, texture %s is not copied", e.opt.OutputPath, tex.Name), rankTexture)
		return
	}

	e.rep.Message(fmt.Sprintf("Copying texture %s to scene output path %s", tex.Name, e.opt.OutputPath), rankStep)
	src := e.resolver.ResolvePath(tex.OriginalPath)
	dst := filepath.Join(e.opt.OutputPath, tex.Name)
	if err := copyFile(src, dst); err != nil {
		e.rep.Error(fmt.Sprintf("Failed to copy texture %s to scene output path %s: %v", tex.Name, e.opt.OutputPath, err), rankTexture)
	}
}

// copyFile copies src to dst, replacing dst.
func copyFile(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResourceFailure, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResourceFailure, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: %w", ErrResourceFailure, err)
	}

	return out.Close()
}
