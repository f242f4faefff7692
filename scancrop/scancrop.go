package scancrop

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/arkdale/photon/utils"
)

// Point is an image coordinate with sub-pixel precision
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad is the refined outline of a single print on a scanner sheet
type Quad struct {
	TopLeft     Point `json:"top_left"`
	TopRight    Point `json:"top_right"`
	BottomRight Point `json:"bottom_right"`
	BottomLeft  Point `json:"bottom_left"`
}

// Rect is a rough, axis-aligned crop region as drawn by the user
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Grid describes evenly cut sheets: the crop lines between prints
type Grid struct {
	RowLines []int `json:"rows"`
	ColLines []int `json:"cols"`
}

// Rects expands the grid lines into the cells between them
func (g Grid) Rects() []Rect {
	var rects []Rect
	for r := 0; r+1 < len(g.RowLines); r++ {
		for c := 0; c+1 < len(g.ColLines); c++ {
			rects = append(rects, Rect{
				X:      g.ColLines[c],
				Y:      g.RowLines[r],
				Width:  g.ColLines[c+1] - g.ColLines[c],
				Height: g.RowLines[r+1] - g.RowLines[r],
			})
		}
	}
	return rects
}

const (
	edgeSamples   = 24
	lumaThreshold = 0.12
)

// DetectPrint refines a rough crop region to the actual print outline.
// The scanner background is assumed brighter than the print; edge points
// are found by scanning inward and the four borders are fitted lines.
func DetectPrint(img image.Image, rough Rect) (Quad, error) {
	bounds := img.Bounds()
	bg := backgroundLuma(img, rough)

	top := scanEdge(img, rough, bg, sideTop)
	bottom := scanEdge(img, rough, bg, sideBottom)
	left := scanEdge(img, rough, bg, sideLeft)
	right := scanEdge(img, rough, bg, sideRight)

	topLine, ok1 := fitLine(top, false)
	bottomLine, ok2 := fitLine(bottom, false)
	leftLine, ok3 := fitLine(left, true)
	rightLine, ok4 := fitLine(right, true)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Quad{}, errors.New("not enough edge points to fit print outline")
	}

	quad := Quad{
		TopLeft:     intersect(topLine, leftLine),
		TopRight:    intersect(topLine, rightLine),
		BottomRight: intersect(bottomLine, rightLine),
		BottomLeft:  intersect(bottomLine, leftLine),
	}

	for _, p := range []Point{quad.TopLeft, quad.TopRight, quad.BottomRight, quad.BottomLeft} {
		if p.X < float64(bounds.Min.X)-1 || p.X > float64(bounds.Max.X)+1 ||
			p.Y < float64(bounds.Min.Y)-1 || p.Y > float64(bounds.Max.Y)+1 {
			return Quad{}, errors.New("print outline escapes the image")
		}
	}
	return quad, nil
}

type side int

const (
	sideTop side = iota
	sideBottom
	sideLeft
	sideRight
)

// backgroundLuma samples the border of the rough region, which should be
// scanner background on a sheet with separated prints
func backgroundLuma(img image.Image, rough Rect) float64 {
	var sum float64
	var n int
	step := rough.Width / edgeSamples
	if step < 1 {
		step = 1
	}
	for x := rough.X; x < rough.X+rough.Width; x += step {
		sum += utils.Luminance(img.At(clampX(img, x), clampY(img, rough.Y)))
		sum += utils.Luminance(img.At(clampX(img, x), clampY(img, rough.Y+rough.Height-1)))
		n += 2
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

// scanEdge casts rays from the region border inward and records where
// the luminance leaves the background. Each ray starts with a coarse
// step that halves after every overshoot until it reaches one pixel.
func scanEdge(img image.Image, rough Rect, bg float64, s side) []Point {
	var points []Point

	for i := 0; i < edgeSamples; i++ {
		var ox, oy, dx, dy, limit int
		switch s {
		case sideTop:
			ox = rough.X + (i+1)*rough.Width/(edgeSamples+1)
			oy = rough.Y
			dy = 1
			limit = rough.Height / 2
		case sideBottom:
			ox = rough.X + (i+1)*rough.Width/(edgeSamples+1)
			oy = rough.Y + rough.Height - 1
			dy = -1
			limit = rough.Height / 2
		case sideLeft:
			ox = rough.X
			oy = rough.Y + (i+1)*rough.Height/(edgeSamples+1)
			dx = 1
			limit = rough.Width / 2
		case sideRight:
			ox = rough.X + rough.Width - 1
			oy = rough.Y + (i+1)*rough.Height/(edgeSamples+1)
			dx = -1
			limit = rough.Width / 2
		}

		if p, ok := castRay(img, ox, oy, dx, dy, limit, bg); ok {
			points = append(points, p)
		}
	}
	return points
}

func castRay(img image.Image, ox, oy, dx, dy, limit int, bg float64) (Point, bool) {
	step := limit / 4
	if step < 1 {
		step = 1
	}
	pos := 0

	for {
		next := pos + step
		if next > limit {
			if step == 1 {
				return Point{}, false
			}
			step /= 2
			continue
		}

		x := clampX(img, ox+dx*next)
		y := clampY(img, oy+dy*next)
		if math.Abs(utils.Luminance(img.At(x, y))-bg) > lumaThreshold {
			if step == 1 {
				return Point{X: float64(ox + dx*next), Y: float64(oy + dy*next)}, true
			}
			step /= 2
			continue
		}
		pos = next
	}
}

// line is y = a + b*x, or x = a + b*y for the vertical borders
type line struct {
	a        float64
	b        float64
	vertical bool
}

// fitLine runs least squares twice: once over all points, then again
// with the outliers outside the interquartile residual band dropped
func fitLine(points []Point, vertical bool) (line, bool) {
	if len(points) < 4 {
		return line{}, false
	}

	fit := leastSquares(points, vertical)

	residuals := make([]float64, len(points))
	for i, p := range points {
		residuals[i] = residual(fit, p)
	}
	sorted := append([]float64(nil), residuals...)
	sort.Float64s(sorted)
	q1 := sorted[len(sorted)/4]
	q3 := sorted[len(sorted)*3/4]
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	var kept []Point
	for i, p := range points {
		if residuals[i] >= lo && residuals[i] <= hi {
			kept = append(kept, p)
		}
	}
	if len(kept) < 4 {
		return fit, true
	}
	return leastSquares(kept, vertical), true
}

func leastSquares(points []Point, vertical bool) line {
	var sumU, sumV, sumUU, sumUV float64
	for _, p := range points {
		u, v := p.X, p.Y
		if vertical {
			u, v = p.Y, p.X
		}
		sumU += u
		sumV += v
		sumUU += u * u
		sumUV += u * v
	}
	n := float64(len(points))
	denom := n*sumUU - sumU*sumU
	if math.Abs(denom) < 1e-9 {
		return line{a: sumV / n, vertical: vertical}
	}
	b := (n*sumUV - sumU*sumV) / denom
	a := (sumV - b*sumU) / n
	return line{a: a, b: b, vertical: vertical}
}

func residual(l line, p Point) float64 {
	if l.vertical {
		return p.X - (l.a + l.b*p.Y)
	}
	return p.Y - (l.a + l.b*p.X)
}

// intersect crosses a horizontal-ish and a vertical-ish line
func intersect(h, v line) Point {
	// x = v.a + v.b*y, y = h.a + h.b*x
	denom := 1 - h.b*v.b
	if math.Abs(denom) < 1e-9 {
		return Point{X: v.a, Y: h.a}
	}
	y := (h.a + h.b*v.a) / denom
	x := v.a + v.b*y
	return Point{X: x, Y: y}
}

func clampX(img image.Image, x int) int {
	b := img.Bounds()
	if x < b.Min.X {
		return b.Min.X
	}
	if x >= b.Max.X {
		return b.Max.X - 1
	}
	return x
}

func clampY(img image.Image, y int) int {
	b := img.Bounds()
	if y < b.Min.Y {
		return b.Min.Y
	}
	if y >= b.Max.Y {
		return b.Max.Y - 1
	}
	return y
}
