// Package geom implements the plain geometry value types the placer builds
// its grid of page/column/line rectangles from (spec.md §3, "Support":
// "Geometry (point, rectangle)"). Grounded on
// _examples/original_source/src/placer/computed_info.py's Point/Rect pair
// (a Rect stored as origin + width/height, with left/top/right/bottom
// derived accessors), rendered in the teacher's plain-struct-with-methods
// idiom (aleksadvaisly-md2pdf has no geometry type of its own — it drives
// fpdf's own x/y cursor directly — so this is grounded on the reference
// implementation rather than the teacher here).
//
// Every placed-tree node that points at one of these (line→paragraph,
// paragraph→column, column→page) does so through a plain value or a
// non-owning index, never a pointer the geometry type itself owns — see
// spec.md §9's "Cyclic object references" note.
package geom

// Point is a location in PDF user space: x increases rightward, y increases
// downward from the page's top margin, matching fpdf's own coordinate
// convention (and so needing no flip at the drawing boundary).
type Point struct {
	X, Y float64
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{p.X + d.X, p.Y + d.Y} }

// Rect is an axis-aligned rectangle stored as its top-left origin plus
// width/height, so growing a column's used height is one field update
// rather than a recomputation from two corners.
type Rect struct {
	Origin        Point
	Width, Height float64
}

// NewRect builds a Rect from an origin and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Width: w, Height: h}
}

func (r Rect) Left() float64   { return r.Origin.X }
func (r Rect) Top() float64    { return r.Origin.Y }
func (r Rect) Right() float64  { return r.Origin.X + r.Width }
func (r Rect) Bottom() float64 { return r.Origin.Y + r.Height }

// Inset shrinks r by margin on every side — used to turn a page rectangle
// into its usable (margin-excluded) inner rectangle.
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	return Rect{
		Origin: Point{X: r.Origin.X + left, Y: r.Origin.Y + top},
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
}

// Contains reports whether p lies within r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}
