package diagram

import "math"

// =============================================================================
// Point
// =============================================================================

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// ManhattanDistance returns |dx| + |dy| between p and q.
func (p Point) ManhattanDistance(q Point) float64 {
	return math.Abs(q.X-p.X) + math.Abs(q.Y-p.Y)
}

// Snap rounds both coordinates to the nearest multiple of grid.
// A non-positive grid returns p unchanged.
func (p Point) Snap(grid float64) Point {
	return Point{X: SnapValue(p.X, grid), Y: SnapValue(p.Y, grid)}
}

// SnapValue rounds v to the nearest multiple of grid.
func SnapValue(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// =============================================================================
// Size
// =============================================================================

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" yaml:"width" msgpack:"width"`
	Height float64 `json:"height" yaml:"height" msgpack:"height"`
}

// IsZero reports whether either dimension is unset.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// =============================================================================
// Rect
// =============================================================================

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x" yaml:"x" msgpack:"x"`
	Y      float64 `json:"y" yaml:"y" msgpack:"y"`
	Width  float64 `json:"width" yaml:"width" msgpack:"width"`
	Height float64 `json:"height" yaml:"height" msgpack:"height"`
}

// RectAround returns the rectangle of the given size centred on c.
func RectAround(c Point, s Size) Rect {
	return Rect{X: c.X - s.Width/2, Y: c.Y - s.Height/2, Width: s.Width, Height: s.Height}
}

// RectSpanning returns the smallest rectangle containing a and b.
func RectSpanning(a, b Point) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the centre point of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inflate grows r by d on every side. Negative d shrinks it.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Intersects reports whether r and o overlap. Rectangles that merely touch
// along an edge count as intersecting.
func (r Rect) Intersects(o Rect) bool {
	return !(r.X+r.Width < o.X || o.X+o.Width < r.X ||
		r.Y+r.Height < o.Y || o.Y+o.Height < r.Y)
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// =============================================================================
// Canvas
// =============================================================================

// Canvas describes the drawing area shared by all engines.
type Canvas struct {
	Width  float64 `json:"width" yaml:"width" toml:"width" msgpack:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height" msgpack:"height"`
	Margin float64 `json:"margin" yaml:"margin" toml:"margin" msgpack:"margin"`
}

// Bounds returns the full canvas rectangle.
func (c Canvas) Bounds() Rect {
	return Rect{Width: c.Width, Height: c.Height}
}

// Drawable returns the canvas rectangle inset by the margin.
func (c Canvas) Drawable() Rect {
	return Rect{X: c.Margin, Y: c.Margin, Width: c.Width - 2*c.Margin, Height: c.Height - 2*c.Margin}
}

// Center returns the centre of the canvas.
func (c Canvas) Center() Point {
	return Point{X: c.Width / 2, Y: c.Height / 2}
}

// Clamp moves p inside the canvas bounds.
func (c Canvas) Clamp(p Point) Point {
	return Point{
		X: math.Max(0, math.Min(c.Width, p.X)),
		Y: math.Max(0, math.Min(c.Height, p.Y)),
	}
}
