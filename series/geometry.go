package series

// Point2D is a single 2D coordinate shared by PointData, LineData, and
// MaskData elements.
type Point2D struct {
	X float32
	Y float32
}

// Polyline is an ordered sequence of 2D points.
type Polyline []Point2D

// ImageSize is the (width, height) a geometry-bearing container optionally
// carries for display-time coordinate scaling. In-core operations never
// consult it.
type ImageSize struct {
	Width  int
	Height int
}
