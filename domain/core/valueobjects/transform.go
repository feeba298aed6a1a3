package valueobjects

import (
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

// ViewTransform is a value object describing the pan/zoom state of a viewing
// surface. A graph point g projects to the screen as g*zoom + offset; the
// mapper below inverts that projection exactly.
type ViewTransform struct {
	offsetX float64
	offsetY float64
	zoom    float64
}

// NewViewTransform creates a transform with validation
func NewViewTransform(offsetX, offsetY, zoom float64) (ViewTransform, error) {
	if !isValidCoordinate(offsetX) || !isValidCoordinate(offsetY) || !isValidCoordinate(zoom) {
		return ViewTransform{}, pkgerrors.NewValidationError("invalid transform: components must be finite numbers")
	}
	if zoom <= 0 {
		return ViewTransform{}, pkgerrors.NewValidationError("invalid transform: zoom must be positive")
	}
	return ViewTransform{offsetX: offsetX, offsetY: offsetY, zoom: zoom}, nil
}

// IdentityTransform returns the transform of an unpanned, unzoomed surface
func IdentityTransform() ViewTransform {
	return ViewTransform{zoom: 1}
}

// OffsetX returns the horizontal pan offset
func (t ViewTransform) OffsetX() float64 {
	return t.offsetX
}

// OffsetY returns the vertical pan offset
func (t ViewTransform) OffsetY() float64 {
	return t.offsetY
}

// Zoom returns the zoom factor
func (t ViewTransform) Zoom() float64 {
	return t.zoom
}

// GraphToScreen projects a graph-space position onto the viewport
func (t ViewTransform) GraphToScreen(p Position) Position {
	// Constructed from a valid position and transform, so this cannot fail.
	screen, _ := NewPosition(p.x*t.zoom+t.offsetX, p.y*t.zoom+t.offsetY)
	return screen
}

// ScreenToGraph maps a viewport-relative point back into graph space. It is
// the exact inverse of GraphToScreen for the same transform.
func (t ViewTransform) ScreenToGraph(p Position) Position {
	graph, _ := NewPosition((p.x-t.offsetX)/t.zoom, (p.y-t.offsetY)/t.zoom)
	return graph
}
