package shadepbr

import (
	"fmt"
	"image"
	"math"
)

// PackChannels is the number of destination channels: R, G, B, A.
const PackChannels = 4

// ChannelSource selects a source slot and the channel sampled from it.
type ChannelSource struct {
	Slot    int `json:"slot" yaml:"slot"`       // Source slot index, 0..3
	Channel int `json:"channel" yaml:"channel"` // Source channel index, 0=R 1=G 2=B 3=A
}

// PackRequest describes one channel pack.
type PackRequest struct {
	// Destination is the output file; empty keeps the result in memory only.
	Destination string
	// Sources holds up to four source image paths; empty entries are null slots.
	Sources [PackChannels]string
	// Defaults holds per destination channel values in [0,1] used when the mapped slot is null.
	Defaults [PackChannels]float64
	// Mapping selects the source slot and channel for each destination channel.
	Mapping [PackChannels]ChannelSource
	// Quality is the lossy encode quality (1-100).
	Quality int
}

// Pack merges the request sources into one image and writes it to Destination when set.
func Pack(req PackRequest) (*image.NRGBA, error) {
	var imgs [PackChannels]*image.NRGBA
	for i, src := range req.Sources {
		if src == "" {
			continue
		}
		img, err := LoadImage(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		imgs[i] = img
	}

	out, err := Merge(imgs, req.Defaults, req.Mapping)
	if err != nil {
		return nil, err
	}

	if req.Destination != "" {
		if err := SaveImage(req.Destination, out, req.Quality); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Merge builds an image whose channels sample the mapped source images.
//
// Every non-nil source must be square and all must share one size. Channels mapped to a
// nil slot are filled with round(clamp01(default)*255).
func Merge(srcs [PackChannels]*image.NRGBA, defaults [PackChannels]float64, mapping [PackChannels]ChannelSource) (*image.NRGBA, error) {
	size, err := packSize(srcs)
	if err != nil {
		return nil, err
	}

	for dc, m := range mapping {
		if m.Slot < 0 || m.Slot >= PackChannels || m.Channel < 0 || m.Channel > 3 {
			return nil, fmt.Errorf("%w: channel %d maps to slot %d channel %d", ErrChannelIndex, dc, m.Slot, m.Channel)
		}
	}

	var fill [PackChannels]uint8
	for i, d := range defaults {
		fill[i] = channelByte(d)
	}

	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		row := out.Pix[y*out.Stride : y*out.Stride+size*4]
		for x := range size {
			px := row[x*4 : x*4+4]
			for dc, m := range mapping {
				src := srcs[m.Slot]
				if src == nil {
					px[dc] = fill[dc]
					continue
				}
				px[dc] = src.Pix[src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)+m.Channel]
			}
		}
	}

	return out, nil
}

// packSize returns the shared square size of the non-nil sources.
func packSize(srcs [PackChannels]*image.NRGBA) (int, error) {
	size := 0
	for i, img := range srcs {
		if img == nil {
			continue
		}

		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return 0, fmt.Errorf("%w: source %d is %dx%d", ErrDimensionMismatch, i, b.Dx(), b.Dy())
		}
		if size != 0 && b.Dx() != size {
			return 0, fmt.Errorf("%w: source %d is %dx%d, expected %dx%d", ErrDimensionMismatch, i, b.Dx(), b.Dy(), size, size)
		}
		size = b.Dx()
	}

	if size == 0 {
		return 0, ErrNoPackSource
	}

	return size, nil
}

// channelByte scales a [0,1] value to an 8-bit channel.
func channelByte(v float64) uint8 {
	return uint8(math.Round(Clamp01(v) * 255))
}
