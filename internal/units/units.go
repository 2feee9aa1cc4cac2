// Package units defines the point-based measurement constants pdfo's
// geometry is expressed in, grounded on orig/src/constants.py's UNIT class.
// Every dimension elsewhere in the tree (margins, font sizes, page
// rectangles) is a plain float64 in Points; these constants exist only to
// convert user-facing units at the boundary.
package units

// Point is the base unit: 1/72 of an inch, matching fpdf's own default
// "pt" unit so no conversion is needed at the drawing boundary.
const Point = 1.0

const (
	Inch = 72.0 * Point
	CM   = Inch / 2.54
	MM   = CM / 10
	Pica = 12.0 * Point
)
