package shadepbr

import (
	"os"
	"strings"
)

// DefaultTextureQuality is the lossy encode quality used when ExportOptions.TextureQuality is unset.
const DefaultTextureQuality = 100

// ExportOptions controls material translation.
type ExportOptions struct {
	// OutputPath is the scene output directory textures are copied to when WriteTextures is set.
	OutputPath string
	// SourceRoot resolves relative texture paths read from the graph (default is the working directory).
	SourceRoot string
	// TextureQuality is the lossy encode quality (1-100) for packed composites (default is 100).
	TextureQuality int
	// DisableTextureExport skips all texture resolution; materials get constant values only.
	DisableTextureExport bool
	// WriteTextures copies source and packed texture files into OutputPath.
	WriteTextures bool
	// FullPBR wraps metallic-roughness materials into the richer PBRMaterial record.
	FullPBR bool
}

// ParseOptions controls graph description parsing.
type ParseOptions struct {
	// DisableCaseInsensitive disables case-insensitive matching of node type names and reserved keys.
	DisableCaseInsensitive bool
	// DisableComments disables // and /* */ comments.
	DisableComments bool
}

// FormatOptions controls graph description formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is four spaces).
	Indent string
}

// ValidateOptions controls material validation rules.
type ValidateOptions struct {
	// SourceRoot resolves relative texture paths for the file check.
	SourceRoot string
	// ExcludePaths lists texture paths skipped by the file check; a trailing * matches a prefix.
	ExcludePaths []string
	// DisableFileCheck disables filesystem existence checks for texture source paths.
	DisableFileCheck bool
	// DisableRangeCheck disables [0,1] range checks for colors and factors.
	DisableRangeCheck bool
	// DisableSceneRefCheck disables checks that material textures are listed in the scene.
	DisableSceneRefCheck bool
}

// IsOutputPathExist reports whether the output path exists and is a directory.
func (o *ExportOptions) IsOutputPathExist() bool {
	if o == nil {
		return false
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return false
	}
	info, err := os.Stat(o.OutputPath)
	if err != nil {
		return false
	}

	return info.IsDir()
}

// normalize normalizes the ExportOptions.
func (o *ExportOptions) normalize() ExportOptions {
	if o == nil {
		return ExportOptions{TextureQuality: DefaultTextureQuality}
	}

	out := *o
	if out.TextureQuality <= 0 {
		out.TextureQuality = DefaultTextureQuality
	}
	if out.TextureQuality > 100 {
		out.TextureQuality = 100
	}

	return out
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{}
	}

	return *o
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "    "}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "    "
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{DisableFileCheck: true}
	}

	return *o
}
