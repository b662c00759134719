// Package preprocess cleans rendered page images before OCR. The pipeline is
// fixed and deterministic: grayscale, median denoise, Otsu binarization, and
// a min-area-rectangle deskew.
package preprocess

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const denoiseRadius = 1

// Clean runs the full page-cleaning pipeline. The output has the same
// dimensions as the input and contains only near-black and near-white pixels
// (rotation resampling may introduce intermediate values at glyph edges).
// A blank page passes through the deskew step untouched.
func Clean(img image.Image) *image.Gray {
	gray := toGray(img)
	denoised := medianFilter(gray, denoiseRadius)
	binary := binarize(denoised, otsuThreshold(denoised))
	return deskew(binary)
}

func toGray(img image.Image) *image.Gray {
	flat := imaging.Grayscale(img)
	b := flat.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			// All channels are equal after Grayscale; take red.
			out.SetGray(x, y, color.Gray{Y: flat.NRGBAAt(x, y).R})
		}
	}
	return out
}

// medianFilter applies a (2*radius+1)² median filter with edge clamping.
func medianFilter(g *image.Gray, radius int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	window := make([]uint8, 0, (2*radius+1)*(2*radius+1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					window = append(window, g.GrayAt(clamp(x+dx, w-1), clamp(y+dy, h-1)).Y)
				}
			}
			out.SetGray(x, y, color.Gray{Y: median(window)})
		}
	}
	return out
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// median sorts the window in place (insertion sort, windows are tiny).
func median(w []uint8) uint8 {
	for i := 1; i < len(w); i++ {
		for j := i; j > 0 && w[j] < w[j-1]; j-- {
			w[j], w[j-1] = w[j-1], w[j]
		}
	}
	return w[len(w)/2]
}

// otsuThreshold picks the global threshold maximizing inter-class variance.
func otsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	b := g.Bounds()
	total := b.Dx() * b.Dy()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			hist[g.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB, wB float64
	var best float64
	var threshold uint8
	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = uint8(i)
		}
	}
	return threshold
}

// binarize maps pixels above the threshold to white and the rest to black.
func binarize(g *image.Gray, threshold uint8) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if g.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
