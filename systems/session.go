package systems

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/diabro/enemy-editor/assets"
	"github.com/diabro/enemy-editor/assets/animations"
	"github.com/diabro/enemy-editor/config"
	"github.com/diabro/enemy-editor/network"
	"github.com/diabro/enemy-editor/shared/enemydef"
)

// EditorSession is the single owner of editor state: the record cache,
// the working form copy, the preview clocks and the image cache. One
// session exists per editor window; everything that used to be ambient
// module state hangs off it.
type EditorSession struct {
	Store  *RecordStore
	Cache  *assets.Cache
	Client *network.Client

	// Form is the working copy shown in the form widgets. It is never
	// written back to the store directly; saving round-trips through the
	// backend and a full refetch.
	Form       enemydef.Record
	SelectedID string
	IsNew      bool

	// Editor preview clocks, owned by the session so teardown can stop
	// them all in one place. Thumbnail clocks belong to the list scene.
	EditorClock *animations.Clock
	PanelClock  *animations.Clock
	PlayerClock *animations.Clock

	// Incremented after a form change so the UI layer knows to re-read
	// Form into its widgets.
	FormRev int

	Toast *Toast

	commands chan Command
}

func NewEditorSession(client *network.Client) *EditorSession {
	return &EditorSession{
		Store:       NewRecordStore(),
		Cache:       assets.NewCache(),
		Client:      client,
		Form:        enemydef.NewRecord(""),
		IsNew:       true,
		EditorClock: animations.NewClock(config.C.PreviewPeriod),
		PanelClock:  animations.NewClock(config.C.ThumbnailPeriod),
		PlayerClock: animations.NewClock(config.C.ThumbnailPeriod),
		Toast:       NewToast(),
		commands:    make(chan Command, 64),
	}
}

// Post queues a command for the next Drain. Safe from any goroutine.
func (s *EditorSession) Post(cmd Command) {
	select {
	case s.commands <- cmd:
	default:
		log.Printf("[editor] command queue full, dropping %T", cmd)
	}
}

// Drain applies every queued command. Called once per frame from the
// scene update, so all state transitions happen on the update thread.
func (s *EditorSession) Drain() {
	for {
		select {
		case cmd := <-s.commands:
			s.Apply(cmd)
		default:
			return
		}
	}
}

// Apply executes one state transition.
func (s *EditorSession) Apply(cmd Command) {
	switch c := cmd.(type) {
	case RecordsLoaded:
		s.Store.Replace(c.Records, c.Sprites, c.Weapons)
		// The selection may have been deleted out from under us.
		if s.SelectedID != "" {
			if _, ok := s.Store.Get(s.SelectedID); !ok {
				s.Apply(NewEnemy{})
			}
		}

	case LoadFailed:
		log.Printf("[editor] record load failed: %v", c.Err)
		s.Toast.ShowError("Could not load enemy types: " + c.Err.Error())

	case SelectEnemy:
		r, ok := s.Store.Get(c.ID)
		if !ok {
			log.Printf("[editor] select of unknown enemy %q ignored", c.ID)
			return
		}
		s.SelectedID = c.ID
		s.IsNew = false
		s.Form = r
		s.FormRev++
		s.reloadPreviewLayers()

	case NewEnemy:
		s.SelectedID = ""
		s.IsNew = true
		s.Form = enemydef.NewRecord("")
		s.FormRev++
		s.reloadPreviewLayers()

	case SetAttackType:
		s.Form.AttackType = c.Kind
		s.Form.AttackRange = enemydef.CoerceAttackRange(c.Kind, s.Form.AttackRange)
		s.FormRev++

	case SetSpriteScale:
		if c.Scale > 0 {
			s.Form.SpriteScale = c.Scale
		}

	case SetWeaponOffset:
		s.Form.WeaponOffset = [2]int{c.X, c.Y}

	case SetSpritePath:
		s.Form.SpritePath = c.Path
		s.reloadPreviewLayers()

	case SetWeaponPath:
		s.Form.WeaponPath = c.Path
		s.reloadPreviewLayers()

	case SetProjectilePath:
		s.Form.ProjectilePath = c.Path

	case StepDirection:
		if c.Delta >= 0 {
			for i := 0; i < c.Delta; i++ {
				s.EditorClock.NextDirection()
			}
		} else {
			for i := 0; i > c.Delta; i-- {
				s.EditorClock.PrevDirection()
			}
		}
		s.PanelClock.SetDirection(s.EditorClock.Cursor.Direction)
		s.PlayerClock.SetDirection(s.EditorClock.Cursor.Direction)

	case MutationDone:
		if c.Err != nil {
			log.Printf("[editor] %s %q failed: %v", c.Op, c.ID, c.Err)
			s.Toast.ShowError(c.Op + " failed: " + c.Err.Error())
			return
		}
		switch c.Op {
		case "delete":
			s.Toast.Show("Deleted " + c.ID)
			if c.ID == s.SelectedID {
				s.Apply(NewEnemy{})
			}
		case "create":
			s.Toast.Show("Created " + c.ID)
		case "update":
			s.Toast.Show("Saved " + c.ID)
		case "export":
			// ID carries the output filename for exports.
			s.Toast.Show("Exported " + c.ID)
		}
	}
}

// reloadPreviewLayers points the cache at the sheets the form currently
// names. Empty paths clear their slot.
func (s *EditorSession) reloadPreviewLayers() {
	if s.Form.SpritePath == "" {
		s.Cache.Clear(assets.RoleEnemy)
	} else {
		s.Cache.Load(assets.RoleEnemy, s.Client.SpriteURL(s.Form.SpritePath))
	}
	if s.Form.WeaponPath == "" {
		s.Cache.Clear(assets.RoleWeapon)
	} else {
		s.Cache.Load(assets.RoleWeapon, s.Client.WeaponURL(s.Form.WeaponPath))
	}
}

// StartPreviews arms the session-owned clocks.
func (s *EditorSession) StartPreviews() {
	s.EditorClock.Start()
	s.PanelClock.Start()
	s.PlayerClock.Start()
}

// Teardown stops every session-owned clock. Must run on every path that
// hides or destroys the editor view.
func (s *EditorSession) Teardown() {
	s.EditorClock.Stop()
	s.PanelClock.Stop()
	s.PlayerClock.Stop()
}

// FormSnapshot is the raw text read back from the form widgets at save
// time. The form, not the in-memory record, is authoritative when
// saving.
type FormSnapshot struct {
	// IsNew is captured on the update thread when the snapshot is
	// taken. Save runs on a background goroutine, so it must not read
	// session state to decide create-vs-update.
	IsNew bool

	ID             string
	Name           string
	SpritePath     string
	WeaponPath     string
	WeaponOffsetX  string
	WeaponOffsetY  string
	ProjectilePath string
	SpriteScale    string
	MaxHealth      string
	Damage         string
	Speed          string
	AttackType     string
	AggroRange     string
	AttackRange    string
	AttackCooldown string
	Color          [3]int
}

// BuildSaveRecord turns a form snapshot into the record to send. A
// missing id blocks the save locally; new ids are normalized to storage
// form. Unparseable numeric fields fall back to the field default.
func (s *EditorSession) BuildSaveRecord(snap FormSnapshot) (enemydef.Record, bool, error) {
	id := strings.TrimSpace(snap.ID)
	if id == "" {
		return enemydef.Record{}, false, &enemydef.ValidationError{Field: "id", Reason: "required"}
	}
	isNew := snap.IsNew
	if isNew {
		id = enemydef.NormalizeID(id)
	}

	kind := enemydef.AttackType(snap.AttackType)
	if kind != enemydef.AttackRanged {
		kind = enemydef.AttackMelee
	}

	r := enemydef.Record{
		ID:             id,
		Name:           defaultString(snap.Name, id),
		SpritePath:     strings.TrimSpace(snap.SpritePath),
		WeaponPath:     strings.TrimSpace(snap.WeaponPath),
		ProjectilePath: strings.TrimSpace(snap.ProjectilePath),
		WeaponOffset: [2]int{
			parseInt(snap.WeaponOffsetX, 0),
			parseInt(snap.WeaponOffsetY, 0),
		},
		SpriteScale:    parseFloat(snap.SpriteScale, enemydef.DefaultSpriteScale),
		MaxHealth:      parseInt(snap.MaxHealth, enemydef.DefaultMaxHealth),
		Damage:         parseInt(snap.Damage, enemydef.DefaultDamage),
		Speed:          parseFloat(snap.Speed, enemydef.DefaultSpeed),
		AttackType:     kind,
		AggroRange:     parseFloat(snap.AggroRange, enemydef.DefaultAggroRange),
		AttackCooldown: parseFloat(snap.AttackCooldown, enemydef.DefaultAttackCooldown),
		Color:          snap.Color,
	}
	if kind == enemydef.AttackRanged {
		r.AttackRange = parseFloat(snap.AttackRange, enemydef.RangedAttackRange)
	} else {
		r.AttackRange = parseFloat(snap.AttackRange, enemydef.MeleeAttackRange)
	}
	if r.Color == [3]int{} {
		r.Color = enemydef.DefaultColor
	}
	return r, isNew, nil
}

// Save runs the create-or-update round trip followed by the mandatory
// full refetch. Blocking; callers run it off the update thread and the
// results come back as commands.
func (s *EditorSession) Save(snap FormSnapshot) {
	r, isNew, err := s.BuildSaveRecord(snap)
	if err != nil {
		s.Post(MutationDone{Op: "save", Err: err})
		return
	}

	op := "update"
	selectID := r.ID
	if isNew {
		op = "create"
		err = s.Client.CreateEnemyType(r)
		// The server stores a create under the fully normalized id,
		// which differs from the submitted one when it still holds a
		// space. Re-select what the server actually wrote.
		selectID = enemydef.StorageID(r.ID)
	} else {
		err = s.Client.UpdateEnemyType(r.ID, r)
	}
	s.Post(MutationDone{Op: op, ID: selectID, Err: err})
	s.Refresh()
	if err == nil {
		// Ordered behind the RecordsLoaded the refetch just posted, so
		// the freshly written record is selectable.
		s.Post(SelectAfterRefresh(selectID))
	}
}

// Delete removes a record and refetches.
func (s *EditorSession) Delete(id string) {
	err := s.Client.DeleteEnemyType(id)
	s.Post(MutationDone{Op: "delete", ID: id, Err: err})
	s.Refresh()
}

// Refresh refetches the whole record set. Blocking.
func (s *EditorSession) Refresh() {
	resp, err := s.Client.FetchEnemyTypes()
	if err != nil {
		s.Post(LoadFailed{Err: fmt.Errorf("fetch enemy types: %w", err)})
		return
	}
	s.Post(RecordsLoaded{
		Records: resp.EnemyTypes,
		Sprites: resp.AvailableSprites,
		Weapons: resp.AvailableWeapons,
	})
}

// SelectAfterRefresh re-selects an id once the post-mutation refetch has
// landed. Implemented as a command so it is ordered behind the
// RecordsLoaded that the refetch posts.
func SelectAfterRefresh(id string) Command {
	return SelectEnemy{ID: id}
}

func defaultString(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}
