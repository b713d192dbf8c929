package systems

import (
	"image/color"
	"testing"

	"github.com/diabro/enemy-editor/components"
	"github.com/diabro/enemy-editor/config"
	"github.com/diabro/enemy-editor/shared/enemydef"
)

// A record without a sprite sheet renders as a flat swatch of its color;
// the defaults make that rgb(200,50,50) for a fresh record.
func TestMissingSpriteFallsBackToRecordColor(t *testing.T) {
	r := enemydef.Record{}.WithDefaults("rat")
	if r.SpritePath != "" {
		t.Fatalf("defaulted record has sprite_path %q", r.SpritePath)
	}

	p := components.PreviewData{Fallback: RecordFallback(&r)}
	want := color.RGBA{200, 50, 50, 255}
	if got := placeholderFill(&p); got != want {
		t.Errorf("fill = %v, want %v", got, want)
	}
}

func TestRecordFallbackUsesStoredColor(t *testing.T) {
	r := enemydef.Record{Color: [3]int{10, 20, 30}}
	want := color.RGBA{10, 20, 30, 255}
	if got := RecordFallback(&r); got != want {
		t.Errorf("swatch = %v, want %v", got, want)
	}
}

// A surface with no fallback set at all gets the neutral tone, not black.
func TestPlaceholderFillWithoutFallback(t *testing.T) {
	p := components.PreviewData{}
	if got := placeholderFill(&p); got != config.UI.Placeholder {
		t.Errorf("fill = %v, want the neutral placeholder tone", got)
	}
}
