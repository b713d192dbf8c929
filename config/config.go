package config

import (
	"image/color"
	"time"
)

// Sprite sheet grid contract shared with the game: every sheet is a
// 4-column by 8-row grid of 256x256 cells. Columns are animation frames,
// rows are facing directions.
const (
	CellSize       = 256
	FrameCount     = 4
	DirectionCount = 8
)

// DirectionLabels maps a sheet row index to the compass label shown next
// to the preview. The row order is fixed by the game's sprite sheets.
var DirectionLabels = [DirectionCount]string{
	"Left",
	"Up-Left",
	"Up",
	"Up-Right",
	"Right",
	"Down-Right",
	"Down",
	"Down-Left",
}

// EditorConfig contains the editor window and preview layout values.
type EditorConfig struct {
	Width  int
	Height int

	// Preview surface edge sizes in pixels. The same stored weapon
	// offset is rendered on all of them, rescaled per surface.
	ThumbnailSize    int
	PanelSize        int
	EditorCanvasSize int

	// Animation periods per surface kind.
	PreviewPeriod   time.Duration // large editor canvas
	ThumbnailPeriod time.Duration // list thumbnails and side panels

	// Backend base URL used when no -backend flag is given and no saved
	// setting exists.
	DefaultBackendURL string

	// Screen placement of the canvas-drawn preview surfaces. The widget
	// columns keep to the left of CanvasX.
	CanvasX, CanvasY         int // large editor canvas
	EnemyPanelX, EnemyPanelY int // scale-comparison panel, enemy side
	PlayerPanelX             int // player side, same Y as the enemy panel
	ThumbGridX, ThumbGridY   int // top-left of the enemy list thumbnail grid
	ThumbGridCols            int
	ThumbGridRows            int
	ThumbSpacing             int
}

// UIConfig contains shared widget colors.
type UIConfig struct {
	Background   color.RGBA
	PanelColor   color.RGBA
	RowColor     color.RGBA
	RowSelected  color.RGBA
	TextColor    color.RGBA
	MutedColor   color.RGBA
	ErrorColor   color.RGBA
	OkColor      color.RGBA
	CanvasBorder color.RGBA
	Placeholder  color.RGBA
}

var C = EditorConfig{
	Width:  1280,
	Height: 800,

	ThumbnailSize:    64,
	PanelSize:        160,
	EditorCanvasSize: 500,

	PreviewPeriod:   150 * time.Millisecond,
	ThumbnailPeriod: 200 * time.Millisecond,

	DefaultBackendURL: "http://localhost:5000",

	CanvasX: 730, CanvasY: 70,
	EnemyPanelX: 730, EnemyPanelY: 610,
	PlayerPanelX: 920,
	ThumbGridX: 12, ThumbGridY: 540,
	ThumbGridCols: 4,
	ThumbGridRows: 3,
	ThumbSpacing:  68,
}

var UI = UIConfig{
	Background:   color.RGBA{20, 20, 30, 255},
	PanelColor:   color.RGBA{30, 30, 42, 255},
	RowColor:     color.RGBA{40, 40, 50, 255},
	RowSelected:  color.RGBA{60, 60, 90, 255},
	TextColor:    color.RGBA{230, 230, 230, 255},
	MutedColor:   color.RGBA{150, 150, 160, 255},
	ErrorColor:   color.RGBA{255, 100, 100, 255},
	OkColor:      color.RGBA{120, 220, 120, 255},
	CanvasBorder: color.RGBA{70, 70, 90, 255},
	Placeholder:  color.RGBA{55, 55, 65, 255},
}
