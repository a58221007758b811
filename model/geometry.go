package model

// BBox is an axis-aligned bounding box in page coordinates (top-left origin,
// Y increasing downward, units in points).
type BBox struct {
	X0, Y0 float64 // top-left corner
	X1, Y1 float64 // bottom-right corner
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// CenterY returns the vertical center of the box.
func (b BBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	u := b
	if other.X0 < u.X0 {
		u.X0 = other.X0
	}
	if other.Y0 < u.Y0 {
		u.Y0 = other.Y0
	}
	if other.X1 > u.X1 {
		u.X1 = other.X1
	}
	if other.Y1 > u.Y1 {
		u.Y1 = other.Y1
	}
	return u
}

// Overlaps reports whether b and other intersect.
func (b BBox) Overlaps(other BBox) bool {
	return b.X0 < other.X1 && other.X0 < b.X1 &&
		b.Y0 < other.Y1 && other.Y0 < b.Y1
}

// Color is an opaque RGB color. Extraction defaults to black when the source
// carries no color information.
type Color struct {
	R, G, B uint8
}

// Black is the default text color.
var Black = Color{0, 0, 0}
