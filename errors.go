package shadepbr

import (
	"errors"
	"fmt"
)

var (
	// ErrStructuralMismatch indicates a recognized node lacks an attribute its type must carry.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrUnsupportedInput indicates an unrecognized shader or texture node kind, or a disallowed image format.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrResourceFailure indicates an I/O, decode, encode or dimension failure while packing textures.
	ErrResourceFailure = errors.New("resource failure")

	// ErrLex indicates a graph description lexer failure.
	ErrLex = errors.New("lex error")

	// ErrParse indicates a graph description parser failure.
	ErrParse = errors.New("parse error")
)

var (
	// ErrMissingAttribute indicates the named attribute does not exist on the node.
	ErrMissingAttribute = fmt.Errorf("%w: missing attribute", ErrStructuralMismatch)

	// ErrUnknownNode indicates a node handle the graph does not know.
	ErrUnknownNode = fmt.Errorf("%w: unknown node", ErrStructuralMismatch)

	// ErrAttributeType indicates an attribute value of an unexpected kind.
	ErrAttributeType = fmt.Errorf("%w: unexpected attribute value kind", ErrStructuralMismatch)

	// ErrUnsupportedShader indicates a material node of an unrecognized shader type.
	ErrUnsupportedShader = fmt.Errorf("%w: unsupported shader type", ErrUnsupportedInput)

	// ErrUnsupportedTextureNode indicates a texture node that is neither a file nor an aiImage node.
	ErrUnsupportedTextureNode = fmt.Errorf("%w: unsupported texture node type", ErrUnsupportedInput)

	// ErrUnsupportedFormat indicates an image extension outside the supported allow-list.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported image format", ErrUnsupportedInput)

	// ErrEmptyTexturePath indicates a texture node whose path attribute is empty.
	ErrEmptyTexturePath = fmt.Errorf("%w: texture path is missing or invalid", ErrUnsupportedInput)

	// ErrDimensionMismatch indicates pack sources that are not square or not equal in size.
	ErrDimensionMismatch = fmt.Errorf("%w: image dimensions are not equal or not square", ErrResourceFailure)

	// ErrNoPackSource indicates a pack request without any source image.
	ErrNoPackSource = fmt.Errorf("%w: no source image to pack", ErrResourceFailure)

	// ErrChannelIndex indicates a pack mapping with an out of range slot or channel.
	ErrChannelIndex = fmt.Errorf("%w: channel index out of range", ErrResourceFailure)
)
