package diagram

import "math"

// Default node geometry and placement grid.
const (
	DefaultNodeWidth  = 160
	DefaultNodeHeight = 72

	// GridPitch is the snapping pitch for user-placed coordinates.
	GridPitch = 10

	gridColumns = 4
	gridOriginX = 120
	gridOriginY = 100
	gridColStep = 240
	gridRowStep = 140
)

// GridPosition returns the deterministic placement for the index-th created
// node: a 4-column wrap layout starting at (120, 100).
func GridPosition(index int) (x, y float64) {
	if index < 0 {
		index = 0
	}
	col := index % gridColumns
	row := index / gridColumns
	return float64(gridOriginX + col*gridColStep), float64(gridOriginY + row*gridRowStep)
}

// Snap rounds v to the nearest multiple of [GridPitch]. Halves round up
// (towards positive infinity) so that snapping is translation invariant.
func Snap(v float64) float64 {
	return math.Floor(v/GridPitch+0.5) * GridPitch
}

// NewNode returns a node with default geometry at the given position.
// An empty label defaults to the id.
func NewNode(id, label string, shape Shape, x, y float64) Node {
	if label == "" {
		label = id
	}
	if !shape.Valid() {
		shape = ShapeRect
	}
	return Node{
		ID:     id,
		Label:  label,
		Shape:  shape,
		X:      x,
		Y:      y,
		Width:  DefaultNodeWidth,
		Height: DefaultNodeHeight,
	}
}
