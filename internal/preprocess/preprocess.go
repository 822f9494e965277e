// Package preprocess produces the image variants handed to the recognition
// engine.
//
// Small glyphs recognize poorly at native resolution, so narrow images are
// upscaled by an integer factor before recognition; the fusion engine divides
// coordinates back down afterwards. Two variants are produced per image: a
// binarized copy (strong for clean screenshots and UI text) and a
// contrast-stretched grayscale copy (safer for photos and anti-aliased text).
// Variant 0 is the primary one and receives the broader page-segmentation
// sweep.
package preprocess

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

const (
	// maxUpscaledWidth caps width*scale so Tesseract memory stays bounded.
	maxUpscaledWidth = 6000

	// binarizeThreshold is the fixed luminance cutoff for the binary
	// variant, 65% of full scale.
	binarizeThreshold = uint8(165)
)

// ScaleFor returns the integer upscale factor for an image of the given
// width: 3 for narrow images, reduced until width*scale fits under the cap,
// never below 1.
func ScaleFor(width int) int {
	scale := 3
	for scale > 1 && width*scale > maxUpscaledWidth {
		scale--
	}
	return scale
}

// Variants renders the ordered recognition variants for img at the given
// upscale factor. The result always has at least one entry; index 0 is the
// primary variant.
func Variants(img image.Image, scale int) []image.Image {
	// Transparent pixels confuse recognition; composite onto white first.
	bounds := img.Bounds()
	flattened := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flattened = imaging.Overlay(flattened, img, image.Pt(0, 0), 1.0)

	resized := image.Image(flattened)
	if scale > 1 {
		resized = imaging.Resize(flattened, bounds.Dx()*scale, bounds.Dy()*scale, imaging.Lanczos)
	}

	gray := toGray(effect.Grayscale(resized))
	stretched := contrastStretch(gray)
	binary := segment.Threshold(stretched, binarizeThreshold)

	return []image.Image{binary, stretched}
}

// toGray repacks a grayscaled RGBA into a single-channel buffer. All three
// color channels are equal after effect.Grayscale, so the red channel
// carries the luminance.
func toGray(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Pix[out.PixOffset(x, y)] = img.Pix[img.PixOffset(x, y)]
		}
	}
	return out
}

// contrastStretch linearly rescales gray levels so the darkest pixel maps to
// 0 and the brightest to 255. A flat image is returned unchanged.
func contrastStretch(img *image.Gray) *image.Gray {
	minV, maxV := uint8(255), uint8(0)
	for _, v := range img.Pix {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV <= minV {
		return img
	}

	out := image.NewGray(img.Bounds())
	scale := 255.0 / float64(maxV-minV)
	for i, v := range img.Pix {
		out.Pix[i] = uint8(float64(v-minV)*scale + 0.5)
	}
	return out
}
