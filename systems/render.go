package systems

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/diabro/enemy-editor/components"
	"github.com/diabro/enemy-editor/config"
	"github.com/diabro/enemy-editor/fonts"
	"github.com/diabro/enemy-editor/shared/enemydef"
)

func tickDelta() time.Duration {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}

// NewUpdatePreviews advances every preview surface's animation clock by
// one update step. Clocks that were never started, or have been stopped
// by a teardown path, do not move.
func NewUpdatePreviews(session *EditorSession) func(e *ecs.ECS) {
	return func(e *ecs.ECS) {
		dt := tickDelta()
		components.Preview.Each(e.World, func(entry *donburi.Entry) {
			p := components.Preview.Get(entry)
			if p.Clock != nil {
				p.Clock.Update(dt)
			}
		})
		session.Toast.Update(float32(dt.Seconds()))
	}
}

// NewDrawPreviews renders every preview surface from scratch: clear,
// base sprite layer, then the weapon overlay. Nothing is cached between
// frames; a surface is never left showing a stale prior frame.
func NewDrawPreviews(session *EditorSession) func(e *ecs.ECS, screen *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		components.Preview.Each(e.World, func(entry *donburi.Entry) {
			p := components.Preview.Get(entry)
			drawPreview(session, screen, p)
		})
	}
}

func drawPreview(session *EditorSession, screen *ebiten.Image, p *components.PreviewData) {
	x, y := float32(p.X), float32(p.Y)
	size := float32(p.Size)

	// Always clear before redraw.
	vector.DrawFilledRect(screen, x, y, size, size, config.UI.Placeholder, false)
	vector.StrokeRect(screen, x, y, size, size, 1, config.UI.CanvasBorder, false)

	cursor := p.Clock.Cursor

	base := session.Cache.EbitenImage(p.BaseRole)
	if base == nil {
		drawPlaceholder(screen, p)
	} else {
		scale, offset := BaseLayerPlacement(p.Size, p.Scale)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(p.X)+offset, float64(p.Y)+offset)
		screen.DrawImage(base.SubImage(FrameSrcRect(cursor)).(*ebiten.Image), op)
	}

	// A missing or failed weapon layer is simply absent; the base sprite
	// still renders.
	if p.WeaponRole != "" {
		if weapon := session.Cache.EbitenImage(p.WeaponRole); weapon != nil {
			scale, dx, dy := WeaponLayerPlacement(p.Size, p.OffsetX, p.OffsetY)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(scale, scale)
			op.GeoM.Translate(float64(p.X)+dx, float64(p.Y)+dy)
			screen.DrawImage(weapon.SubImage(FrameSrcRect(cursor)).(*ebiten.Image), op)
		}
	}

	if p.ShowDirection {
		label := config.DirectionLabels[cursor.Direction]
		text.Draw(screen, label, fonts.Small.Get(), p.X+4, p.Y+p.Size+14, config.UI.MutedColor)
	}
}

// RecordFallback maps a record's color triple to the swatch drawn while
// its sprite sheet is missing or failed.
func RecordFallback(r *enemydef.Record) color.RGBA {
	return color.RGBA{uint8(r.Color[0]), uint8(r.Color[1]), uint8(r.Color[2]), 255}
}

// placeholderFill is the color drawn in place of an absent base layer:
// the surface's fallback swatch when set, a neutral tone otherwise.
func placeholderFill(p *components.PreviewData) color.RGBA {
	if p.Fallback == (color.RGBA{}) {
		return config.UI.Placeholder
	}
	return p.Fallback
}

// drawPlaceholder fills the surface with the record's fallback color, or
// a neutral swatch when none is set, plus the surface label on larger
// canvases.
func drawPlaceholder(screen *ebiten.Image, p *components.PreviewData) {
	fill := placeholderFill(p)
	inset := float32(2)
	vector.DrawFilledRect(screen,
		float32(p.X)+inset, float32(p.Y)+inset,
		float32(p.Size)-2*inset, float32(p.Size)-2*inset,
		fill, false)

	if p.Label != "" && p.Size >= config.C.PanelSize {
		text.Draw(screen, p.Label, fonts.Small.Get(), p.X+6, p.Y+p.Size/2, config.UI.TextColor)
	}
}
