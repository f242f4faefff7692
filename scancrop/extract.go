package scancrop

import (
	"image"
	"math"
)

// ExtractQuad samples the quad out of the sheet into an upright image.
// The margin fraction shaves the border off on every side, removing the
// sliver of background the fitted lines may still include.
func ExtractQuad(img image.Image, quad Quad, margin float64) *image.RGBA {
	topW := distance(quad.TopLeft, quad.TopRight)
	bottomW := distance(quad.BottomLeft, quad.BottomRight)
	leftH := distance(quad.TopLeft, quad.BottomLeft)
	rightH := distance(quad.TopRight, quad.BottomRight)

	w := int(math.Round((topW + bottomW) / 2))
	h := int(math.Round((leftH + rightH) / 2))
	if w < 1 || h < 1 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	bounds := img.Bounds()

	for y := 0; y < h; y++ {
		v := margin + (1-2*margin)*(float64(y)+0.5)/float64(h)
		for x := 0; x < w; x++ {
			u := margin + (1-2*margin)*(float64(x)+0.5)/float64(w)

			// bilinear blend of the four corners
			sx := (1-u)*(1-v)*quad.TopLeft.X + u*(1-v)*quad.TopRight.X +
				u*v*quad.BottomRight.X + (1-u)*v*quad.BottomLeft.X
			sy := (1-u)*(1-v)*quad.TopLeft.Y + u*(1-v)*quad.TopRight.Y +
				u*v*quad.BottomRight.Y + (1-u)*v*quad.BottomLeft.Y

			px := int(math.Round(sx))
			py := int(math.Round(sy))
			if px < bounds.Min.X {
				px = bounds.Min.X
			}
			if px >= bounds.Max.X {
				px = bounds.Max.X - 1
			}
			if py < bounds.Min.Y {
				py = bounds.Min.Y
			}
			if py >= bounds.Max.Y {
				py = bounds.Max.Y - 1
			}
			dst.Set(x, y, img.At(px, py))
		}
	}
	return dst
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
