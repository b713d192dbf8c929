package ui

import (
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"

	"github.com/diabro/enemy-editor/config"
)

// LibraryUI is the asset library screen: uploaded sprite sheets and
// tile textures, each with a delete button, plus a local-path input to
// upload new files.
type LibraryUI struct {
	UI *ebitenui.UI

	// Callbacks
	OnBack          func()
	OnRefresh       func()
	OnUploadSprite  func(localPath string)
	OnDeleteSprite  func(filename string)
	OnUploadTexture func(localPath string)
	OnDeleteTexture func(filename string)

	spriteList  *widget.Container
	textureList *widget.Container
	spriteInput *widget.TextInput
	texInput    *widget.TextInput
	statusLabel *widget.Label

	f faces
}

func NewLibraryUI() *LibraryUI {
	lui := &LibraryUI{f: loadFaces()}
	lui.buildUI()
	return lui
}

func (lui *LibraryUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(config.UI.Background)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(12)),
			widget.RowLayoutOpts.Spacing(8),
		)),
	)

	topRow := hbox(10)
	topRow.AddChild(button("< Back", &lui.f.normal, 80, 24, func() {
		if lui.OnBack != nil {
			lui.OnBack()
		}
	}))
	topRow.AddChild(label("ASSET LIBRARY", &lui.f.title, config.UI.TextColor))
	topRow.AddChild(button("Refresh", &lui.f.small, 60, 24, func() {
		if lui.OnRefresh != nil {
			lui.OnRefresh()
		}
	}))
	rootContainer.AddChild(topRow)

	lui.statusLabel = label("", &lui.f.small, config.UI.MutedColor)
	rootContainer.AddChild(lui.statusLabel)

	listsRow := hbox(24)

	spriteCol := panel(4)
	spriteCol.AddChild(label("Sprite sheets", &lui.f.normal, config.UI.TextColor))
	lui.spriteList = vbox(2)
	spriteCol.AddChild(lui.spriteList)
	lui.spriteInput = textInput(&lui.f.normal, 220, "path/to/sheet.png")
	uploadRow := hbox(4)
	uploadRow.AddChild(lui.spriteInput)
	uploadRow.AddChild(accentButton("Upload", &lui.f.small, 60, 24, func() {
		if lui.OnUploadSprite != nil {
			lui.OnUploadSprite(lui.spriteInput.GetText())
		}
	}))
	spriteCol.AddChild(uploadRow)
	listsRow.AddChild(spriteCol)

	texCol := panel(4)
	texCol.AddChild(label("Textures", &lui.f.normal, config.UI.TextColor))
	lui.textureList = vbox(2)
	texCol.AddChild(lui.textureList)
	lui.texInput = textInput(&lui.f.normal, 220, "path/to/texture.png")
	texUploadRow := hbox(4)
	texUploadRow.AddChild(lui.texInput)
	texUploadRow.AddChild(accentButton("Upload", &lui.f.small, 60, 24, func() {
		if lui.OnUploadTexture != nil {
			lui.OnUploadTexture(lui.texInput.GetText())
		}
	}))
	texCol.AddChild(texUploadRow)
	listsRow.AddChild(texCol)

	rootContainer.AddChild(listsRow)

	lui.UI = &ebitenui.UI{
		Container: rootContainer,
	}
}

// SetSprites replaces the sprite sheet rows after a refetch.
func (lui *LibraryUI) SetSprites(names []string) {
	rebuildFileList(lui.spriteList, names, &lui.f, func(name string) {
		if lui.OnDeleteSprite != nil {
			lui.OnDeleteSprite(name)
		}
	})
}

// SetTextures replaces the texture rows after a refetch.
func (lui *LibraryUI) SetTextures(names []string) {
	rebuildFileList(lui.textureList, names, &lui.f, func(name string) {
		if lui.OnDeleteTexture != nil {
			lui.OnDeleteTexture(name)
		}
	})
}

func (lui *LibraryUI) SetStatus(msg string) {
	if lui.statusLabel != nil {
		lui.statusLabel.Label = msg
	}
}

func (lui *LibraryUI) Update() {
	lui.UI.Update()
}

func rebuildFileList(list *widget.Container, names []string, f *faces, onDelete func(name string)) {
	list.RemoveChildren()
	for _, name := range names {
		rowName := name
		row := hbox(6)
		row.AddChild(label(rowName, &f.small, config.UI.TextColor))
		row.AddChild(dangerButton("x", &f.small, 20, 18, func() {
			onDelete(rowName)
		}))
		list.AddChild(row)
	}
}
