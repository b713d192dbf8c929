package scenes

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/diabro/enemy-editor/assets"
	"github.com/diabro/enemy-editor/assets/animations"
	"github.com/diabro/enemy-editor/components"
	cfg "github.com/diabro/enemy-editor/config"
	"github.com/diabro/enemy-editor/shared/enemydef"
	"github.com/diabro/enemy-editor/systems"
	"github.com/diabro/enemy-editor/ui"
)

// SceneChanger allows scenes to trigger transitions
type SceneChanger interface {
	ChangeScene(scene interface{})
}

const exportFilename = "enemy_types_export.go"

// EditorScene is the main editor screen: the form and enemy list as
// widgets, the animated preview surfaces as ECS entities drawn next to
// them.
type EditorScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	session      *systems.EditorSession
	editorUI     *ui.EditorUI
	once         sync.Once

	canvasEntry *donburi.Entry
	enemyEntry  *donburi.Entry
	playerEntry *donburi.Entry

	// Thumbnail grid state, rebuilt whenever the store revision moves.
	thumbEntities []donburi.Entity
	thumbClocks   []*animations.Clock
	thumbIDs      []string
	listRev       int

	formRevSeen int
	inflight    atomic.Int32

	initialSelect string
	selectPending bool
	openLibrary   bool
}

func NewEditorScene(sc SceneChanger, session *systems.EditorSession) *EditorScene {
	return &EditorScene{
		sceneChanger: sc,
		session:      session,
		formRevSeen:  -1,
		listRev:      -1,
	}
}

// WithInitialSelection asks the scene to select an enemy once the first
// record fetch lands. Used to restore the last session's selection.
func (s *EditorScene) WithInitialSelection(id string) *EditorScene {
	s.initialSelect = id
	s.selectPending = id != ""
	return s
}

func (s *EditorScene) Update() {
	s.once.Do(s.configure)

	s.session.Drain()
	s.ecsWorld.Update()
	s.editorUI.Update()

	if rev := s.session.FormRev; rev != s.formRevSeen {
		s.formRevSeen = rev
		s.editorUI.SetForm(s.session.Form, s.session.IsNew)
	}

	if rev := s.session.Store.Rev(); rev != s.listRev {
		s.listRev = rev
		s.editorUI.SetLists(s.session.Store.IDs(), s.session.Store.Sprites(), s.session.Store.Weapons())
		s.rebuildThumbnails()

		if s.selectPending {
			s.selectPending = false
			if _, ok := s.session.Store.Get(s.initialSelect); ok {
				s.session.Post(systems.SelectEnemy{ID: s.initialSelect})
			}
		}
	}

	s.syncPreviewEntities()
	s.handleThumbnailClicks()
	s.editorUI.SetBusy(s.inflight.Load() > 0)

	if s.openLibrary {
		s.openLibrary = false
		s.teardown()
		s.sceneChanger.ChangeScene(NewLibraryScene(s.sceneChanger, s.session))
		return
	}
}

func (s *EditorScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.UI.Background)

	if s.ecsWorld == nil {
		return
	}

	s.editorUI.UI.Draw(screen)
	s.ecsWorld.Draw(screen)
	s.session.Toast.Draw(screen)
}

func (s *EditorScene) configure() {
	s.ecsWorld = ecs.NewECS(donburi.NewWorld())
	s.ecsWorld.AddSystem(systems.NewUpdatePreviews(s.session))
	s.ecsWorld.AddRenderer(ecs.LayerDefault, systems.NewDrawPreviews(s.session))

	s.canvasEntry = s.newPreview(components.PreviewData{
		X:             cfg.C.CanvasX,
		Y:             cfg.C.CanvasY,
		Size:          cfg.C.EditorCanvasSize,
		Clock:         s.session.EditorClock,
		BaseRole:      assets.RoleEnemy,
		WeaponRole:    assets.RoleWeapon,
		Scale:         1.0,
		ShowDirection: true,
	})

	// Scale comparison pair: the enemy at its configured scale next to
	// the player sprite at 1.0.
	s.enemyEntry = s.newPreview(components.PreviewData{
		X:        cfg.C.EnemyPanelX,
		Y:        cfg.C.EnemyPanelY,
		Size:     cfg.C.PanelSize,
		Clock:    s.session.PanelClock,
		BaseRole: assets.RoleEnemy,
		Scale:    1.0,
	})
	s.playerEntry = s.newPreview(components.PreviewData{
		X:        cfg.C.PlayerPanelX,
		Y:        cfg.C.EnemyPanelY,
		Size:     cfg.C.PanelSize,
		Clock:    s.session.PlayerClock,
		BaseRole: assets.RolePlayer,
		Scale:    1.0,
		Label:    "player",
	})
	s.session.Cache.Load(assets.RolePlayer, s.session.Client.PlayerSpriteURL())

	s.editorUI = ui.NewEditorUI()
	s.wireCallbacks()

	s.session.StartPreviews()

	go s.session.Refresh()
}

func (s *EditorScene) newPreview(data components.PreviewData) *donburi.Entry {
	entity := s.ecsWorld.World.Create(components.Preview)
	entry := s.ecsWorld.World.Entry(entity)
	components.Preview.SetValue(entry, data)
	return entry
}

func (s *EditorScene) wireCallbacks() {
	eui := s.editorUI

	eui.OnSelect = func(id string) {
		s.session.Post(systems.SelectEnemy{ID: id})
	}
	eui.OnNew = func() {
		s.session.Post(systems.NewEnemy{})
	}
	eui.OnRefresh = func() {
		go s.session.Refresh()
	}
	eui.OnSave = func() {
		snap := eui.Snapshot()
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Add(-1)
			s.session.Save(snap)
		}()
	}
	eui.OnDelete = func() {
		id := s.session.SelectedID
		if id == "" {
			return
		}
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Add(-1)
			s.session.Delete(id)
		}()
	}
	eui.OnExport = func() {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Add(-1)
			s.exportCode()
		}()
	}
	eui.OnOpenLibrary = func() {
		s.openLibrary = true
	}
	eui.OnAttackType = func(kind enemydef.AttackType) {
		s.session.Post(systems.SetAttackType{Kind: kind})
	}
	eui.OnSpritePath = func(path string) {
		s.session.Post(systems.SetSpritePath{Path: path})
	}
	eui.OnWeaponPath = func(path string) {
		s.session.Post(systems.SetWeaponPath{Path: path})
	}
	eui.OnProjectilePath = func(path string) {
		s.session.Post(systems.SetProjectilePath{Path: path})
	}
	eui.OnScale = func(scale float64) {
		s.session.Post(systems.SetSpriteScale{Scale: scale})
	}
	eui.OnOffset = func(x, y int) {
		s.session.Post(systems.SetWeaponOffset{X: x, Y: y})
	}
	eui.OnPrevDir = func() {
		s.session.Post(systems.StepDirection{Delta: -1})
	}
	eui.OnNextDir = func() {
		s.session.Post(systems.StepDirection{Delta: 1})
	}
}

// exportCode fetches the generated source from the backend and writes
// it next to the editor binary.
func (s *EditorScene) exportCode() {
	code, err := s.session.Client.ExportCode()
	if err == nil {
		err = os.WriteFile(exportFilename, []byte(code), 0o644)
	}
	s.session.Post(systems.MutationDone{Op: "export", ID: exportFilename, Err: err})
}

// syncPreviewEntities pushes the live form values into the preview
// components every frame, so scale and offset edits show immediately.
func (s *EditorScene) syncPreviewEntities() {
	form := &s.session.Form

	canvas := components.Preview.Get(s.canvasEntry)
	canvas.Scale = form.SpriteScale
	canvas.OffsetX = form.WeaponOffset[0]
	canvas.OffsetY = form.WeaponOffset[1]
	canvas.Fallback = systems.RecordFallback(form)
	canvas.Label = form.ID

	enemy := components.Preview.Get(s.enemyEntry)
	enemy.Scale = form.SpriteScale
	enemy.Fallback = systems.RecordFallback(form)
	enemy.Label = form.ID
}

// rebuildThumbnails tears down the old grid and builds one entity per
// record, row-major, capped at the grid capacity. Every thumbnail gets
// its own clock so removing one cannot leave another frozen.
func (s *EditorScene) rebuildThumbnails() {
	for _, c := range s.thumbClocks {
		c.Stop()
	}
	for _, e := range s.thumbEntities {
		s.ecsWorld.World.Remove(e)
	}
	s.thumbEntities = s.thumbEntities[:0]
	s.thumbClocks = s.thumbClocks[:0]
	s.thumbIDs = s.thumbIDs[:0]

	ids := s.session.Store.IDs()
	capacity := cfg.C.ThumbGridCols * cfg.C.ThumbGridRows
	if len(ids) > capacity {
		ids = ids[:capacity]
	}

	for i, id := range ids {
		r, ok := s.session.Store.Get(id)
		if !ok {
			continue
		}
		col := i % cfg.C.ThumbGridCols
		row := i / cfg.C.ThumbGridCols

		clock := animations.NewClock(cfg.C.ThumbnailPeriod)
		clock.Start()

		role := assets.ThumbnailRole(id)
		if r.SpritePath == "" {
			s.session.Cache.Clear(role)
		} else {
			s.session.Cache.Load(role, s.session.Client.SpriteURL(r.SpritePath))
		}

		entity := s.ecsWorld.World.Create(components.Preview)
		entry := s.ecsWorld.World.Entry(entity)
		components.Preview.SetValue(entry, components.PreviewData{
			X:        cfg.C.ThumbGridX + col*cfg.C.ThumbSpacing,
			Y:        cfg.C.ThumbGridY + row*cfg.C.ThumbSpacing,
			Size:     cfg.C.ThumbnailSize,
			Clock:    clock,
			BaseRole: role,
			Scale:    1.0,
			Fallback: systems.RecordFallback(&r),
		})

		s.thumbEntities = append(s.thumbEntities, entity)
		s.thumbClocks = append(s.thumbClocks, clock)
		s.thumbIDs = append(s.thumbIDs, id)
	}
}

// handleThumbnailClicks hit-tests mouse presses against the grid and
// selects the record under the cursor.
func (s *EditorScene) handleThumbnailClicks() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	for i, id := range s.thumbIDs {
		col := i % cfg.C.ThumbGridCols
		row := i / cfg.C.ThumbGridCols
		x := cfg.C.ThumbGridX + col*cfg.C.ThumbSpacing
		y := cfg.C.ThumbGridY + row*cfg.C.ThumbSpacing
		if mx >= x && mx < x+cfg.C.ThumbnailSize && my >= y && my < y+cfg.C.ThumbnailSize {
			s.session.Post(systems.SelectEnemy{ID: id})
			return
		}
	}
}

func (s *EditorScene) teardown() {
	s.session.Teardown()
	for _, c := range s.thumbClocks {
		c.Stop()
	}
}
