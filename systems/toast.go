package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // matches the rest of the direct-canvas text drawing
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/diabro/enemy-editor/config"
	"github.com/diabro/enemy-editor/fonts"
)

// Toast is the transient status banner: fades in, holds, fades out.
// One per session; a new message restarts the sequence.
type Toast struct {
	text    string
	isError bool
	alpha   float32
	seq     *gween.Sequence
}

func NewToast() *Toast {
	return &Toast{}
}

func (t *Toast) Show(msg string) {
	t.show(msg, false)
}

func (t *Toast) ShowError(msg string) {
	t.show(msg, true)
}

func (t *Toast) show(msg string, isError bool) {
	t.text = msg
	t.isError = isError
	t.seq = gween.NewSequence(
		gween.New(0, 1, 0.15, ease.OutQuad),
		gween.New(1, 1, 2.5, ease.Linear),
		gween.New(1, 0, 0.4, ease.InQuad),
	)
}

func (t *Toast) Update(dt float32) {
	if t.seq == nil {
		return
	}
	v, _, done := t.seq.Update(dt)
	t.alpha = v
	if done {
		t.seq = nil
		t.alpha = 0
		t.text = ""
	}
}

func (t *Toast) Draw(screen *ebiten.Image) {
	if t.text == "" || t.alpha <= 0 {
		return
	}

	a := t.alpha
	bg := config.UI.PanelColor
	fg := config.UI.OkColor
	if t.isError {
		fg = config.UI.ErrorColor
	}

	w := float32(len(t.text)*8 + 24)
	h := float32(30)
	x := (float32(config.C.Width) - w) / 2
	y := float32(config.C.Height) - h - 16

	vector.DrawFilledRect(screen, x, y, w, h, scaleAlpha(bg, a), false)
	text.Draw(screen, t.text, fonts.Regular.Get(), int(x)+12, int(y)+20, scaleAlpha(fg, a))
}

func scaleAlpha(c color.RGBA, a float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * a),
		G: uint8(float32(c.G) * a),
		B: uint8(float32(c.B) * a),
		A: uint8(float32(c.A) * a),
	}
}
