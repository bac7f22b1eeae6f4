package shadepbr

// Color represents an RGB color.
type Color struct {
	R float64 `json:"r" yaml:"r"` // Red channel component
	G float64 `json:"g" yaml:"g"` // Green channel component
	B float64 `json:"b" yaml:"b"` // Blue channel component
}

// White is the neutral tint color.
var White = Color{R: 1, G: 1, B: 1}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetColorRGB creates a Color from RGB values.
func SetColorRGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Gray creates a Color with all channels set to v.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v}
}

// ColorFromSlice builds a Color from the first three values; missing channels are 0.
func ColorFromSlice(vals []float64) Color {
	var c Color
	if len(vals) > 0 {
		c.R = vals[0]
	}
	if len(vals) > 1 {
		c.G = vals[1]
	}
	if len(vals) > 2 {
		c.B = vals[2]
	}
	return c
}

// Scale multiplies every channel by f.
func (c Color) Scale(f float64) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Average returns the mean of the three channels.
func (c Color) Average() float64 {
	return (c.R + c.G + c.B) / 3
}

// IsWhite reports whether every channel is exactly 1.
func (c Color) IsWhite() bool {
	return c.R == 1 && c.G == 1 && c.B == 1
}
