package ui

import (
	"bytes"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/diabro/enemy-editor/config"
)

// faces holds the text faces shared by every panel builder.
type faces struct {
	title  text.Face
	normal text.Face
	small  text.Face
}

func loadFaces() faces {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to load UI font: %v", err)
	}
	return faces{
		title:  &text.GoTextFace{Source: fontSource, Size: 20},
		normal: &text.GoTextFace{Source: fontSource, Size: 13},
		small:  &text.GoTextFace{Source: fontSource, Size: 11},
	}
}

func vbox(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(spacing),
		)),
	)
}

func hbox(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(spacing),
		)),
	)
}

func panel(spacing int) *widget.Container {
	padding := widget.Insets{Top: 8, Bottom: 8, Left: 8, Right: 8}
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(config.UI.PanelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&padding),
			widget.RowLayoutOpts.Spacing(spacing),
		)),
	)
}

func label(txt string, face *text.Face, clr color.RGBA) *widget.Label {
	return widget.NewLabel(
		widget.LabelOpts.Text(txt, face, &widget.LabelColor{Idle: clr}),
	)
}

func button(txt string, face *text.Face, w, h int, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(w, h)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(color.RGBA{60, 60, 80, 255}),
			Hover:    image.NewNineSliceColor(color.RGBA{80, 80, 100, 255}),
			Pressed:  image.NewNineSliceColor(color.RGBA{40, 40, 60, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{45, 45, 55, 255}),
		}),
		widget.ButtonOpts.Text(txt, face, &widget.ButtonTextColor{
			Idle:     config.UI.TextColor,
			Hover:    color.RGBA{255, 255, 255, 255},
			Pressed:  color.RGBA{180, 180, 200, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func accentButton(txt string, face *text.Face, w, h int, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(w, h)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(color.RGBA{40, 100, 40, 255}),
			Hover:    image.NewNineSliceColor(color.RGBA{60, 140, 60, 255}),
			Pressed:  image.NewNineSliceColor(color.RGBA{30, 80, 30, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 50, 40, 255}),
		}),
		widget.ButtonOpts.Text(txt, face, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{200, 255, 200, 255},
			Pressed:  color.RGBA{150, 200, 150, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func dangerButton(txt string, face *text.Face, w, h int, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(w, h)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:    image.NewNineSliceColor(color.RGBA{110, 45, 45, 255}),
			Hover:   image.NewNineSliceColor(color.RGBA{140, 60, 60, 255}),
			Pressed: image.NewNineSliceColor(color.RGBA{90, 35, 35, 255}),
		}),
		widget.ButtonOpts.Text(txt, face, &widget.ButtonTextColor{
			Idle:    color.RGBA{255, 220, 220, 255},
			Hover:   color.RGBA{255, 240, 240, 255},
			Pressed: color.RGBA{220, 180, 180, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func textInput(face *text.Face, w int, placeholder string) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(w, 24)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{50, 50, 70, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.TextInputOpts.Face(face),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.RGBA{255, 255, 255, 255},
			Disabled:      color.RGBA{128, 128, 128, 255},
			Caret:         color.RGBA{255, 255, 255, 255},
			DisabledCaret: color.RGBA{128, 128, 128, 255},
		}),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
	)
}

// changedInput is a textInput that reports every edit, for fields that
// retune the preview live.
func changedInput(face *text.Face, w int, placeholder string, onChanged func(text string)) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(w, 24)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{50, 50, 70, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.TextInputOpts.Face(face),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.RGBA{255, 255, 255, 255},
			Disabled:      color.RGBA{128, 128, 128, 255},
			Caret:         color.RGBA{255, 255, 255, 255},
			DisabledCaret: color.RGBA{128, 128, 128, 255},
		}),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			if onChanged != nil {
				onChanged(args.InputText)
			}
		}),
	)
}

// fieldRow pairs a fixed-width label with an input widget.
func fieldRow(name string, face *text.Face, input widget.PreferredSizeLocateableWidget) *widget.Container {
	row := hbox(6)
	row.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(name, face, &widget.LabelColor{Idle: config.UI.MutedColor}),
	))
	row.AddChild(input)
	return row
}
