package preprocess

import (
	"image"
	"image/color"
	"testing"
)

func createGradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(64 + (x*128)/width)
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{100, 3},
		{1500, 3},
		{2000, 3},
		{2001, 2},
		{3000, 2},
		{3001, 1},
		{8000, 1},
	}
	for _, tt := range tests {
		if got := ScaleFor(tt.width); got != tt.want {
			t.Errorf("ScaleFor(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestVariants_CountAndOrder(t *testing.T) {
	img := createGradientImage(100, 40)

	variants := Variants(img, 1)
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}

	// The primary variant is binarized: only pure black and white pixels.
	primary := variants[0]
	bounds := primary.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(primary.At(x, y)).(color.Gray)
			if g.Y != 0 && g.Y != 255 {
				t.Fatalf("primary variant not binary at (%d,%d): %d", x, y, g.Y)
			}
		}
	}
}

func TestVariants_Upscale(t *testing.T) {
	img := createGradientImage(50, 20)

	variants := Variants(img, 3)
	for i, v := range variants {
		b := v.Bounds()
		if b.Dx() != 150 || b.Dy() != 60 {
			t.Errorf("variant %d: got %dx%d, want 150x60", i, b.Dx(), b.Dy())
		}
	}
}

func TestVariants_TransparencyComposite(t *testing.T) {
	// Fully transparent image must flatten to white, not black.
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))

	variants := Variants(img, 1)
	stretched := variants[1]
	g := color.GrayModel.Convert(stretched.At(10, 10)).(color.Gray)
	if g.Y != 255 {
		t.Errorf("transparent pixel flattened to %d, want 255", g.Y)
	}
}

func TestVariants_BinarySplitsLuminance(t *testing.T) {
	// A dark half and a bright half must land on opposite sides of the
	// luminance cutoff, so the binary variant keeps both tones.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(50)
			if x >= 2 {
				v = 220
			}
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	binary := Variants(img, 1)[0]
	dark := color.GrayModel.Convert(binary.At(0, 0)).(color.Gray)
	bright := color.GrayModel.Convert(binary.At(3, 0)).(color.Gray)
	if dark.Y != 0 {
		t.Errorf("dark half = %d, want 0", dark.Y)
	}
	if bright.Y != 255 {
		t.Errorf("bright half = %d, want 255", bright.Y)
	}
}

func TestToGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 40, G: 40, B: 40, A: 255})
	img.Set(1, 0, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	out := toGray(img)
	if out.Pix[0] != 40 || out.Pix[1] != 200 {
		t.Errorf("gray pixels = %d,%d, want 40,200", out.Pix[0], out.Pix[1])
	}
}

func TestContrastStretch_FlatImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	out := contrastStretch(img)
	for i, v := range out.Pix {
		if v != 128 {
			t.Fatalf("flat image changed at %d: %d", i, v)
		}
	}
}

func TestContrastStretch_FullRange(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.Pix[0] = 100
	img.Pix[1] = 150
	img.Pix[2] = 200

	out := contrastStretch(img)
	if out.Pix[0] != 0 {
		t.Errorf("darkest pixel = %d, want 0", out.Pix[0])
	}
	if out.Pix[2] != 255 {
		t.Errorf("brightest pixel = %d, want 255", out.Pix[2])
	}
}
