package systems

import (
	"image"

	"github.com/diabro/enemy-editor/assets/animations"
	"github.com/diabro/enemy-editor/config"
)

// FrameSrcRect returns the source cell of a sprite sheet selected by the
// cursor: column = frame, row = direction, 256x256 cells.
func FrameSrcRect(c animations.Cursor) image.Rectangle {
	sx := c.Frame * config.CellSize
	sy := c.Direction * config.CellSize
	return image.Rect(sx, sy, sx+config.CellSize, sy+config.CellSize)
}

// BaseLayerPlacement returns the draw scale and the centering offset for
// the base sprite layer on a square surface of the given edge size. The
// scaled sprite is centered, so a scale below 1 shrinks it in place.
func BaseLayerPlacement(surfaceSize int, scale float64) (drawScale, offset float64) {
	drawScale = float64(surfaceSize) / config.CellSize * scale
	scaled := float64(surfaceSize) * scale
	offset = (float64(surfaceSize) - scaled) / 2
	return drawScale, offset
}

// WeaponLayerPlacement returns the draw scale and pixel offset for the
// weapon overlay. The stored offset is defined in 256-unit sprite space
// and scales linearly with the destination surface, so the same record
// value lands at the same relative spot on a 64px thumbnail and a 500px
// canvas.
func WeaponLayerPlacement(surfaceSize, offsetX, offsetY int) (drawScale, dx, dy float64) {
	drawScale = float64(surfaceSize) / config.CellSize
	dx = float64(offsetX) * float64(surfaceSize) / config.CellSize
	dy = float64(offsetY) * float64(surfaceSize) / config.CellSize
	return drawScale, dx, dy
}
