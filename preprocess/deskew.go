package preprocess

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/disintegration/imaging"
)

// deskew straightens a binarized page. The rotation angle comes from the
// minimum-area bounding rectangle over all foreground (non-zero) pixels,
// using the classic OpenCV angle convention: an angle below -45° rotates by
// -(90+angle), otherwise by -angle. A page with no foreground pixels is
// returned unchanged.
func deskew(bin *image.Gray) *image.Gray {
	pts := foreground(bin)
	if len(pts) == 0 {
		return bin
	}
	angle := minAreaRectAngle(pts)
	if angle < -45 {
		angle = -(90 + angle)
	} else {
		angle = -angle
	}
	if angle == 0 {
		return bin
	}
	return rotateSameSize(bin, angle)
}

func foreground(g *image.Gray) []image.Point {
	b := g.Bounds()
	var pts []image.Point
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if g.GrayAt(x, y).Y != 0 {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// rotateSameSize rotates about the image center and crops back to the
// original dimensions, filling uncovered corners with white (paper color).
func rotateSameSize(g *image.Gray, degrees float64) *image.Gray {
	b := g.Bounds()
	rotated := imaging.Rotate(g, degrees, color.White)
	cropped := imaging.CropCenter(rotated, b.Dx(), b.Dy())
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(x, y, color.Gray{Y: cropped.NRGBAAt(x, y).R})
		}
	}
	return out
}

// minAreaRectAngle computes the orientation of the minimum-area bounding
// rectangle over the points (convex hull plus rotating calipers), reported in
// degrees in [-90, 0) to match the OpenCV minAreaRect convention.
func minAreaRectAngle(pts []image.Point) float64 {
	hull := convexHull(pts)
	if len(hull) == 1 {
		return -90
	}
	best := math.MaxFloat64
	bestTheta := 0.0
	for i := range hull {
		p, q := hull[i], hull[(i+1)%len(hull)]
		dx, dy := float64(q.X-p.X), float64(q.Y-p.Y)
		if dx == 0 && dy == 0 {
			continue
		}
		theta := math.Atan2(dy, dx)
		cos, sin := math.Cos(theta), math.Sin(theta)

		minU, maxU := math.MaxFloat64, -math.MaxFloat64
		minV, maxV := math.MaxFloat64, -math.MaxFloat64
		for _, h := range hull {
			u := cos*float64(h.X) + sin*float64(h.Y)
			v := -sin*float64(h.X) + cos*float64(h.Y)
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}
		area := (maxU - minU) * (maxV - minV)
		if area < best {
			best = area
			bestTheta = theta
		}
	}
	deg := bestTheta * 180 / math.Pi
	deg = math.Mod(deg, 90)
	if deg >= 0 {
		deg -= 90
	}
	return deg
}

// convexHull returns the hull in counter-clockwise order (Andrew's monotone
// chain). Duplicates and collinear points are dropped.
func convexHull(pts []image.Point) []image.Point {
	if len(pts) <= 2 {
		return pts
	}
	sorted := make([]image.Point, len(pts))
	copy(sorted, pts)
	sortPoints(sorted)

	var lower []image.Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []image.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) == 0 {
		// All points identical.
		return sorted[:1]
	}
	return hull
}

func sortPoints(pts []image.Point) {
	sort.Slice(pts, func(i, j int) bool { return less(pts[i], pts[j]) })
}

func less(a, b image.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func cross(o, a, b image.Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
