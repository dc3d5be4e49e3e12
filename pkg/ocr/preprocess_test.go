package ocr

import (
	"image"
	"image/color"
	"testing"
)

func grayImage(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func TestBinarize(t *testing.T) {
	img := grayImage(4, 4, 100)
	img.Set(0, 0, color.NRGBA{250, 250, 250, 255})

	out := binarize(img, 210)
	if r, _, _, _ := out.At(0, 0).RGBA(); r>>8 != 255 {
		t.Errorf("bright pixel binarized to %d, want 255", r>>8)
	}
	if r, _, _, _ := out.At(1, 1).RGBA(); r>>8 != 0 {
		t.Errorf("dark pixel binarized to %d, want 0", r>>8)
	}
}

func TestAdaptiveThresholdUniformImage(t *testing.T) {
	// a flat image has pixel == local mean everywhere; with a positive bias
	// nothing should fall below threshold
	out := adaptiveThreshold(grayImage(16, 16, 128), 5, 2)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if r, _, _, _ := out.At(x, y).RGBA(); r>>8 != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want white", x, y, r>>8)
			}
		}
	}
}

func TestAdaptiveThresholdDarkSpot(t *testing.T) {
	img := grayImage(16, 16, 200)
	img.Set(8, 8, color.NRGBA{0, 0, 0, 255})

	out := adaptiveThreshold(img, 5, 2)
	if r, _, _, _ := out.At(8, 8).RGBA(); r>>8 != 0 {
		t.Errorf("dark spot = %d, want black", r>>8)
	}
	if r, _, _, _ := out.At(0, 0).RGBA(); r>>8 != 255 {
		t.Errorf("far corner = %d, want white", r>>8)
	}
}

func TestDilateSpreadsBlack(t *testing.T) {
	img := grayImage(5, 5, 255)
	img.Set(2, 2, color.NRGBA{0, 0, 0, 255})

	out := dilate(img, 1)
	for _, p := range [][2]int{{2, 2}, {1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		if r, _, _, _ := out.At(p[0], p[1]).RGBA(); r>>8 != 0 {
			t.Errorf("pixel %v = %d, want black after dilation", p, r>>8)
		}
	}
	if r, _, _, _ := out.At(0, 0).RGBA(); r>>8 != 255 {
		t.Errorf("corner dilated unexpectedly")
	}
}

func TestDilateZeroRadiusNoop(t *testing.T) {
	img := grayImage(3, 3, 255)
	if out := dilate(img, 0); out != img {
		t.Error("radius 0 must return the input image")
	}
}

func TestPreprocessUpscalesSmallImages(t *testing.T) {
	out := Preprocess(grayImage(40, 60, 180), false)
	if out.Bounds().Dy() != 1300 {
		t.Errorf("height = %d, want 1300", out.Bounds().Dy())
	}
}

func TestPreprocessKeepsLargeImages(t *testing.T) {
	out := Preprocess(grayImage(30, 1000, 180), true)
	if out.Bounds().Dy() != 1000 {
		t.Errorf("height = %d, want 1000", out.Bounds().Dy())
	}
}
