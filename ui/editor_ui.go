package ui

import (
	"strconv"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"

	"github.com/diabro/enemy-editor/config"
	"github.com/diabro/enemy-editor/shared/enemydef"
	"github.com/diabro/enemy-editor/systems"
)

const noneChoice = "(none)"

// EditorUI holds the ebitenui widget tree for the main editor screen:
// the enemy list on the left and the stat/asset form in the middle. The
// preview surfaces to the right are drawn by the render system, not by
// widgets.
type EditorUI struct {
	UI *ebitenui.UI

	// Callbacks
	OnSelect         func(id string)
	OnNew            func()
	OnSave           func()
	OnDelete         func()
	OnRefresh        func()
	OnExport         func()
	OnOpenLibrary    func()
	OnAttackType     func(kind enemydef.AttackType)
	OnSpritePath     func(path string)
	OnWeaponPath     func(path string)
	OnProjectilePath func(path string)
	OnScale          func(scale float64)
	OnOffset         func(x, y int)
	OnPrevDir        func()
	OnNextDir        func()

	// Widget references for updates
	listContainer *widget.Container
	titleLabel    *widget.Label
	statusLabel   *widget.Label

	idInput       *widget.TextInput
	nameInput     *widget.TextInput
	healthInput   *widget.TextInput
	damageInput   *widget.TextInput
	speedInput    *widget.TextInput
	aggroInput    *widget.TextInput
	rangeInput    *widget.TextInput
	cooldownInput *widget.TextInput
	scaleInput    *widget.TextInput
	offsetXInput  *widget.TextInput
	offsetYInput  *widget.TextInput

	meleeBtn      *widget.Button
	rangedBtn     *widget.Button
	spriteBtn     *widget.Button
	weaponBtn     *widget.Button
	projectileBtn *widget.Button
	saveBtn       *widget.Button
	deleteBtn     *widget.Button

	f faces

	// Form state that lives outside text widgets: the attack kind
	// toggle, the asset choices the cycle buttons walk through, and the
	// thumbnail fallback color carried through saves untouched.
	attackKind     enemydef.AttackType
	sprites        []string
	weapons        []string
	spritePath     string
	weaponPath     string
	projectilePath string
	formColor      [3]int

	selectedID string
	isNew      bool
	enemyIDs   []string
}

// NewEditorUI builds the widget tree. Callbacks are assigned by the
// scene after construction.
func NewEditorUI() *EditorUI {
	eui := &EditorUI{
		f:          loadFaces(),
		attackKind: enemydef.AttackMelee,
		formColor:  enemydef.DefaultColor,
	}
	eui.buildUI()
	return eui
}

func (eui *EditorUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(config.UI.Background)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(12)),
			widget.RowLayoutOpts.Spacing(16),
		)),
	)

	rootContainer.AddChild(eui.buildListColumn())
	rootContainer.AddChild(eui.buildFormColumn())

	eui.UI = &ebitenui.UI{
		Container: rootContainer,
	}
}

func (eui *EditorUI) buildListColumn() *widget.Container {
	column := vbox(6)

	column.AddChild(label("ENEMY TYPES", &eui.f.title, config.UI.TextColor))

	toolbar := hbox(4)
	toolbar.AddChild(accentButton("New", &eui.f.small, 60, 22, func() {
		if eui.OnNew != nil {
			eui.OnNew()
		}
	}))
	toolbar.AddChild(button("Refresh", &eui.f.small, 60, 22, func() {
		if eui.OnRefresh != nil {
			eui.OnRefresh()
		}
	}))
	toolbar.AddChild(button("Export", &eui.f.small, 60, 22, func() {
		if eui.OnExport != nil {
			eui.OnExport()
		}
	}))
	toolbar.AddChild(button("Library", &eui.f.small, 60, 22, func() {
		if eui.OnOpenLibrary != nil {
			eui.OnOpenLibrary()
		}
	}))
	column.AddChild(toolbar)

	eui.listContainer = vbox(2)
	column.AddChild(eui.listContainer)

	eui.statusLabel = label("", &eui.f.small, config.UI.MutedColor)
	column.AddChild(eui.statusLabel)

	return column
}

func (eui *EditorUI) buildFormColumn() *widget.Container {
	column := panel(5)

	eui.titleLabel = label("NEW ENEMY", &eui.f.title, config.UI.TextColor)
	column.AddChild(eui.titleLabel)

	eui.idInput = textInput(&eui.f.normal, 180, "enemy id")
	column.AddChild(fieldRow("ID", &eui.f.small, eui.idInput))

	eui.nameInput = textInput(&eui.f.normal, 180, "display name")
	column.AddChild(fieldRow("Name", &eui.f.small, eui.nameInput))

	eui.healthInput = textInput(&eui.f.normal, 70, "30")
	eui.damageInput = textInput(&eui.f.normal, 70, "5")
	statRow := hbox(6)
	statRow.AddChild(fieldRow("Health", &eui.f.small, eui.healthInput))
	statRow.AddChild(fieldRow("Damage", &eui.f.small, eui.damageInput))
	column.AddChild(statRow)

	eui.speedInput = textInput(&eui.f.normal, 70, "6.0")
	eui.cooldownInput = textInput(&eui.f.normal, 70, "1.5")
	moveRow := hbox(6)
	moveRow.AddChild(fieldRow("Speed", &eui.f.small, eui.speedInput))
	moveRow.AddChild(fieldRow("Cooldown", &eui.f.small, eui.cooldownInput))
	column.AddChild(moveRow)

	eui.aggroInput = textInput(&eui.f.normal, 70, "150")
	eui.rangeInput = textInput(&eui.f.normal, 70, "1.2")
	rangeRow := hbox(6)
	rangeRow.AddChild(fieldRow("Aggro", &eui.f.small, eui.aggroInput))
	rangeRow.AddChild(fieldRow("Atk range", &eui.f.small, eui.rangeInput))
	column.AddChild(rangeRow)

	column.AddChild(eui.buildAttackRow())
	column.AddChild(eui.buildAssetRows())
	column.AddChild(eui.buildTuningRows())
	column.AddChild(eui.buildDirectionRow())
	column.AddChild(eui.buildActionRow())

	return column
}

func (eui *EditorUI) buildAttackRow() *widget.Container {
	row := hbox(6)
	row.AddChild(label("Attack", &eui.f.small, config.UI.MutedColor))

	eui.meleeBtn = button("Melee", &eui.f.small, 70, 22, func() {
		eui.setAttackKind(enemydef.AttackMelee)
		if eui.OnAttackType != nil {
			eui.OnAttackType(enemydef.AttackMelee)
		}
	})
	row.AddChild(eui.meleeBtn)

	eui.rangedBtn = button("Ranged", &eui.f.small, 70, 22, func() {
		eui.setAttackKind(enemydef.AttackRanged)
		if eui.OnAttackType != nil {
			eui.OnAttackType(enemydef.AttackRanged)
		}
	})
	row.AddChild(eui.rangedBtn)

	return row
}

// buildAssetRows wires the three asset cycle buttons. Clicking walks the
// available file list; weapon and projectile include a "(none)" stop to
// clear the slot.
func (eui *EditorUI) buildAssetRows() *widget.Container {
	rows := vbox(4)

	eui.spriteBtn = button(noneChoice, &eui.f.small, 190, 22, func() {
		eui.spritePath = cycleChoice(eui.spritePath, eui.sprites, false)
		eui.spriteBtn.Text().Label = choiceLabel(eui.spritePath)
		if eui.OnSpritePath != nil {
			eui.OnSpritePath(eui.spritePath)
		}
	})
	rows.AddChild(fieldRow("Sprite", &eui.f.small, eui.spriteBtn))

	eui.weaponBtn = button(noneChoice, &eui.f.small, 190, 22, func() {
		eui.weaponPath = cycleChoice(eui.weaponPath, eui.weapons, true)
		eui.weaponBtn.Text().Label = choiceLabel(eui.weaponPath)
		if eui.OnWeaponPath != nil {
			eui.OnWeaponPath(eui.weaponPath)
		}
	})
	rows.AddChild(fieldRow("Weapon", &eui.f.small, eui.weaponBtn))

	eui.projectileBtn = button(noneChoice, &eui.f.small, 190, 22, func() {
		eui.projectilePath = cycleChoice(eui.projectilePath, eui.sprites, true)
		eui.projectileBtn.Text().Label = choiceLabel(eui.projectilePath)
		if eui.OnProjectilePath != nil {
			eui.OnProjectilePath(eui.projectilePath)
		}
	})
	rows.AddChild(fieldRow("Projectile", &eui.f.small, eui.projectileBtn))

	return rows
}

// buildTuningRows holds the fields that retune the live preview as they
// are typed: sprite scale and the weapon overlay offset.
func (eui *EditorUI) buildTuningRows() *widget.Container {
	rows := vbox(4)

	eui.scaleInput = changedInput(&eui.f.normal, 70, "1.0", func(txt string) {
		if v, err := strconv.ParseFloat(txt, 64); err == nil && v > 0 && eui.OnScale != nil {
			eui.OnScale(v)
		}
	})
	rows.AddChild(fieldRow("Scale", &eui.f.small, eui.scaleInput))

	onOffsetChanged := func(string) {
		x, errX := strconv.Atoi(eui.offsetXInput.GetText())
		y, errY := strconv.Atoi(eui.offsetYInput.GetText())
		if errX == nil && errY == nil && eui.OnOffset != nil {
			eui.OnOffset(x, y)
		}
	}
	eui.offsetXInput = changedInput(&eui.f.normal, 55, "0", onOffsetChanged)
	eui.offsetYInput = changedInput(&eui.f.normal, 55, "0", onOffsetChanged)
	offsetRow := hbox(6)
	offsetRow.AddChild(fieldRow("Offset X", &eui.f.small, eui.offsetXInput))
	offsetRow.AddChild(fieldRow("Y", &eui.f.small, eui.offsetYInput))
	rows.AddChild(offsetRow)

	return rows
}

func (eui *EditorUI) buildDirectionRow() *widget.Container {
	row := hbox(6)
	row.AddChild(label("Facing", &eui.f.small, config.UI.MutedColor))
	row.AddChild(button("<", &eui.f.normal, 28, 22, func() {
		if eui.OnPrevDir != nil {
			eui.OnPrevDir()
		}
	}))
	row.AddChild(button(">", &eui.f.normal, 28, 22, func() {
		if eui.OnNextDir != nil {
			eui.OnNextDir()
		}
	}))
	return row
}

func (eui *EditorUI) buildActionRow() *widget.Container {
	row := hbox(8)

	eui.saveBtn = accentButton("Save", &eui.f.normal, 100, 26, func() {
		if eui.OnSave != nil {
			eui.OnSave()
		}
	})
	row.AddChild(eui.saveBtn)

	eui.deleteBtn = dangerButton("Delete", &eui.f.normal, 100, 26, func() {
		if eui.OnDelete != nil {
			eui.OnDelete()
		}
	})
	row.AddChild(eui.deleteBtn)

	return row
}

// Snapshot reads the form widgets into the raw strings the save path
// parses. The non-widget state (attack kind, asset choices, color) rides
// along.
func (eui *EditorUI) Snapshot() systems.FormSnapshot {
	return systems.FormSnapshot{
		IsNew:          eui.isNew,
		ID:             eui.idInput.GetText(),
		Name:           eui.nameInput.GetText(),
		SpritePath:     eui.spritePath,
		WeaponPath:     eui.weaponPath,
		WeaponOffsetX:  eui.offsetXInput.GetText(),
		WeaponOffsetY:  eui.offsetYInput.GetText(),
		ProjectilePath: eui.projectilePath,
		SpriteScale:    eui.scaleInput.GetText(),
		MaxHealth:      eui.healthInput.GetText(),
		Damage:         eui.damageInput.GetText(),
		Speed:          eui.speedInput.GetText(),
		AttackType:     string(eui.attackKind),
		AggroRange:     eui.aggroInput.GetText(),
		AttackRange:    eui.rangeInput.GetText(),
		AttackCooldown: eui.cooldownInput.GetText(),
		Color:          eui.formColor,
	}
}

// SetForm pushes a record into the widgets. Called whenever the session
// form revision changes, so typing is never clobbered mid-edit.
func (eui *EditorUI) SetForm(r enemydef.Record, isNew bool) {
	eui.isNew = isNew
	if isNew {
		eui.selectedID = ""
		eui.titleLabel.Label = "NEW ENEMY"
	} else {
		eui.selectedID = r.ID
		eui.titleLabel.Label = "EDIT: " + r.ID
	}

	eui.idInput.SetText(r.ID)
	eui.idInput.GetWidget().Disabled = !isNew
	eui.nameInput.SetText(r.Name)
	eui.healthInput.SetText(strconv.Itoa(r.MaxHealth))
	eui.damageInput.SetText(strconv.Itoa(r.Damage))
	eui.speedInput.SetText(formatFloat(r.Speed))
	eui.scaleInput.SetText(formatFloat(r.SpriteScale))
	eui.aggroInput.SetText(formatFloat(r.AggroRange))
	eui.rangeInput.SetText(formatFloat(r.AttackRange))
	eui.cooldownInput.SetText(formatFloat(r.AttackCooldown))
	eui.offsetXInput.SetText(strconv.Itoa(r.WeaponOffset[0]))
	eui.offsetYInput.SetText(strconv.Itoa(r.WeaponOffset[1]))

	eui.spritePath = r.SpritePath
	eui.weaponPath = r.WeaponPath
	eui.projectilePath = r.ProjectilePath
	eui.spriteBtn.Text().Label = choiceLabel(r.SpritePath)
	eui.weaponBtn.Text().Label = choiceLabel(r.WeaponPath)
	eui.projectileBtn.Text().Label = choiceLabel(r.ProjectilePath)

	eui.formColor = r.Color
	eui.setAttackKind(r.AttackType)
	eui.deleteBtn.GetWidget().Disabled = isNew

	eui.rebuildList()
}

// SetLists replaces the enemy roster and the asset choices after a
// refetch.
func (eui *EditorUI) SetLists(ids, sprites, weapons []string) {
	eui.enemyIDs = ids
	eui.sprites = sprites
	eui.weapons = weapons
	eui.rebuildList()
}

func (eui *EditorUI) SetStatus(msg string) {
	if eui.statusLabel != nil {
		eui.statusLabel.Label = msg
	}
}

// SetBusy disables the mutating buttons while a backend round-trip is in
// flight.
func (eui *EditorUI) SetBusy(busy bool) {
	eui.saveBtn.GetWidget().Disabled = busy
	eui.deleteBtn.GetWidget().Disabled = busy || eui.isNew
}

func (eui *EditorUI) Update() {
	eui.UI.Update()
}

func (eui *EditorUI) rebuildList() {
	eui.listContainer.RemoveChildren()
	for _, id := range eui.enemyIDs {
		rowID := id
		btn := button(rowID, &eui.f.small, 230, 20, func() {
			if eui.OnSelect != nil {
				eui.OnSelect(rowID)
			}
		})
		if rowID == eui.selectedID {
			btn.Text().Label = "> " + rowID
		}
		eui.listContainer.AddChild(btn)
	}
}

func (eui *EditorUI) setAttackKind(kind enemydef.AttackType) {
	eui.attackKind = kind
	if kind == enemydef.AttackRanged {
		eui.meleeBtn.Text().Label = "Melee"
		eui.rangedBtn.Text().Label = "[Ranged]"
	} else {
		eui.meleeBtn.Text().Label = "[Melee]"
		eui.rangedBtn.Text().Label = "Ranged"
	}
}

// cycleChoice advances through choices from current; allowNone inserts
// an empty stop before wrapping back to the first entry.
func cycleChoice(current string, choices []string, allowNone bool) string {
	if len(choices) == 0 {
		return ""
	}
	idx := -1
	for i, c := range choices {
		if c == current {
			idx = i
			break
		}
	}
	next := idx + 1
	if next >= len(choices) {
		if allowNone && current != "" {
			return ""
		}
		next = 0
	}
	return choices[next]
}

func choiceLabel(path string) string {
	if path == "" {
		return noneChoice
	}
	return path
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
