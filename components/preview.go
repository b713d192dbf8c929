package components

import (
	"image/color"

	"github.com/yohamta/donburi"

	"github.com/diabro/enemy-editor/assets"
	"github.com/diabro/enemy-editor/assets/animations"
)

// PreviewData is one live sprite preview surface: a square canvas at a
// fixed position, its own animation clock, and the cache roles of the
// layers it composites.
type PreviewData struct {
	X, Y int
	Size int

	Clock *animations.Clock

	// Base layer.
	BaseRole assets.Role
	Scale    float64

	// Optional weapon overlay, offsets in 256-unit sprite space.
	WeaponRole       assets.Role
	OffsetX, OffsetY int

	// Drawn instead of the base layer while it is missing or failed.
	Fallback color.RGBA
	Label    string

	// Show the direction label under the canvas.
	ShowDirection bool
}

var Preview = donburi.NewComponentType[PreviewData]()
