package systems

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/diabro/enemy-editor/assets"
	"github.com/diabro/enemy-editor/network"
	"github.com/diabro/enemy-editor/shared/enemydef"
)

func newTestSession(t *testing.T, backend http.Handler) *EditorSession {
	t.Helper()
	base := "http://127.0.0.1:0"
	if backend != nil {
		srv := httptest.NewServer(backend)
		t.Cleanup(srv.Close)
		base = srv.URL
	}
	s := NewEditorSession(network.NewClient(base))
	s.Cache = assets.NewCacheWithFetcher(func(url string) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 1024, 2048)), nil
	})
	return s
}

func loadRecords(s *EditorSession, records map[string]enemydef.Record) {
	s.Apply(RecordsLoaded{
		Records: records,
		Sprites: []string{"rat.png", "skeleton.png"},
		Weapons: []string{"axe.png"},
	})
}

func TestSelectEnemyPopulatesForm(t *testing.T) {
	s := newTestSession(t, nil)
	loadRecords(s, map[string]enemydef.Record{
		"rat": {SpritePath: "rat.png", MaxHealth: 12},
	})

	rev := s.FormRev
	s.Apply(SelectEnemy{ID: "rat"})

	if s.SelectedID != "rat" || s.IsNew {
		t.Errorf("selection = %q/new=%v, want rat/false", s.SelectedID, s.IsNew)
	}
	if s.Form.MaxHealth != 12 {
		t.Errorf("form max_health = %d, want 12", s.Form.MaxHealth)
	}
	// Absent fields arrive defaulted, not zero.
	if s.Form.Speed != enemydef.DefaultSpeed {
		t.Errorf("form speed = %v, want default %v", s.Form.Speed, enemydef.DefaultSpeed)
	}
	if s.FormRev == rev {
		t.Error("FormRev did not advance on select")
	}
}

func TestSelectUnknownEnemyIgnored(t *testing.T) {
	s := newTestSession(t, nil)
	s.Apply(SelectEnemy{ID: "nope"})
	if s.SelectedID != "" || !s.IsNew {
		t.Errorf("selection changed to %q", s.SelectedID)
	}
}

func TestNewEnemyResetsToTemplate(t *testing.T) {
	s := newTestSession(t, nil)
	loadRecords(s, map[string]enemydef.Record{"rat": {}})
	s.Apply(SelectEnemy{ID: "rat"})
	s.Apply(NewEnemy{})

	if s.SelectedID != "" || !s.IsNew {
		t.Errorf("selection = %q/new=%v, want \"\"/true", s.SelectedID, s.IsNew)
	}
	if s.Form.MaxHealth != enemydef.DefaultMaxHealth || s.Form.Color != enemydef.DefaultColor {
		t.Errorf("form not reset: %+v", s.Form)
	}
}

func TestAttackTypeCouplingThroughReducer(t *testing.T) {
	s := newTestSession(t, nil)

	// melee default 1.2 -> ranged lifts to 8.0
	s.Apply(SetAttackType{Kind: enemydef.AttackRanged})
	if s.Form.AttackRange != 8.0 {
		t.Fatalf("attack_range after ranged = %v, want 8.0", s.Form.AttackRange)
	}
	// -> melee drops back to exactly 1.2
	s.Apply(SetAttackType{Kind: enemydef.AttackMelee})
	if s.Form.AttackRange != 1.2 {
		t.Fatalf("attack_range after melee = %v, want 1.2", s.Form.AttackRange)
	}
	// in-between values survive both transitions
	s.Form.AttackRange = 4.0
	s.Apply(SetAttackType{Kind: enemydef.AttackRanged})
	if s.Form.AttackRange != 8.0 {
		t.Errorf("4.0 -> ranged = %v, want 8.0 (below threshold 5)", s.Form.AttackRange)
	}
	s.Form.AttackRange = 2.8
	s.Apply(SetAttackType{Kind: enemydef.AttackMelee})
	if s.Form.AttackRange != 2.8 {
		t.Errorf("2.8 -> melee = %v, want 2.8 untouched", s.Form.AttackRange)
	}
}

func TestStepDirectionDrivesBothEditorClocks(t *testing.T) {
	s := newTestSession(t, nil)
	s.Apply(StepDirection{Delta: 1})
	s.Apply(StepDirection{Delta: 1})
	if d := s.EditorClock.Cursor.Direction; d != 2 {
		t.Errorf("editor direction = %d, want 2", d)
	}
	if d := s.PanelClock.Cursor.Direction; d != 2 {
		t.Errorf("panel direction = %d, want 2", d)
	}
	s.Apply(StepDirection{Delta: -3})
	if d := s.EditorClock.Cursor.Direction; d != 7 {
		t.Errorf("editor direction after back-step = %d, want 7", d)
	}
}

func TestRecordsLoadedDropsDeletedSelection(t *testing.T) {
	s := newTestSession(t, nil)
	loadRecords(s, map[string]enemydef.Record{"rat": {}})
	s.Apply(SelectEnemy{ID: "rat"})

	loadRecords(s, map[string]enemydef.Record{"bat": {}})

	if s.SelectedID != "" || !s.IsNew {
		t.Errorf("stale selection survived: %q", s.SelectedID)
	}
}

func TestBuildSaveRecordRequiresID(t *testing.T) {
	s := newTestSession(t, nil)
	_, _, err := s.BuildSaveRecord(FormSnapshot{ID: "   "})
	var ve *enemydef.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Field != "id" {
		t.Errorf("field = %q, want id", ve.Field)
	}
}

func TestBuildSaveRecordNormalizesNewIDs(t *testing.T) {
	s := newTestSession(t, nil)
	r, isNew, err := s.BuildSaveRecord(FormSnapshot{IsNew: true, ID: "Giant Rat"})
	if err != nil {
		t.Fatal(err)
	}
	if !isNew {
		t.Error("isNew = false, want true")
	}
	if r.ID != "giant_rat" {
		t.Errorf("id = %q, want giant_rat", r.ID)
	}
	if r.Name != "giant_rat" {
		t.Errorf("name = %q, want id fallback", r.Name)
	}
}

func TestBuildSaveRecordKeepsExistingID(t *testing.T) {
	s := newTestSession(t, nil)
	loadRecords(s, map[string]enemydef.Record{"Giant Rat": {}})
	s.Apply(SelectEnemy{ID: "Giant Rat"})

	r, isNew, err := s.BuildSaveRecord(FormSnapshot{ID: "Giant Rat"})
	if err != nil {
		t.Fatal(err)
	}
	if isNew {
		t.Error("isNew = true for existing record")
	}
	if r.ID != "Giant Rat" {
		t.Errorf("existing id was rewritten to %q", r.ID)
	}
}

// The snapshot fixes create-vs-update at the moment the user clicked
// Save. Session state may move on (Save runs off the update thread, and
// a list click can land in between); the decision must not follow it.
func TestBuildSaveRecordDecidesFromSnapshotNotSession(t *testing.T) {
	s := newTestSession(t, nil)
	snap := FormSnapshot{IsNew: true, ID: "Giant Rat"}

	loadRecords(s, map[string]enemydef.Record{"skeleton": {}})
	s.Apply(SelectEnemy{ID: "skeleton"})
	if s.IsNew {
		t.Fatal("session still reports a new record after select")
	}

	r, isNew, err := s.BuildSaveRecord(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !isNew {
		t.Error("isNew = false, want the snapshot's value")
	}
	if r.ID != "giant_rat" {
		t.Errorf("id = %q, want the create-path normalization", r.ID)
	}
}

func TestBuildSaveRecordParsesAndDefaults(t *testing.T) {
	s := newTestSession(t, nil)
	r, _, err := s.BuildSaveRecord(FormSnapshot{
		ID:            "rat",
		SpriteScale:   "0.75",
		MaxHealth:     "44",
		Speed:         "not a number",
		AttackType:    "ranged",
		AttackRange:   "",
		WeaponOffsetX: "32",
		WeaponOffsetY: "-16",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.SpriteScale != 0.75 || r.MaxHealth != 44 {
		t.Errorf("parsed fields wrong: scale=%v hp=%d", r.SpriteScale, r.MaxHealth)
	}
	if r.Speed != enemydef.DefaultSpeed {
		t.Errorf("unparseable speed = %v, want default", r.Speed)
	}
	if r.AttackType != enemydef.AttackRanged || r.AttackRange != enemydef.RangedAttackRange {
		t.Errorf("attack = %v/%v, want ranged/%v", r.AttackType, r.AttackRange, enemydef.RangedAttackRange)
	}
	if r.WeaponOffset != [2]int{32, -16} {
		t.Errorf("weapon_offset = %v, want [32 -16]", r.WeaponOffset)
	}
	if r.Color != enemydef.DefaultColor {
		t.Errorf("color = %v, want default", r.Color)
	}
}

// Every mutation is followed by a wholesale refetch, and a successful
// save re-selects the written record once the fresh data has landed.
func TestSaveRoundTripRefetchesAndReselects(t *testing.T) {
	var mu sync.Mutex
	var created enemydef.Record
	fetches := 0

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/enemy-types", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if err := json.NewDecoder(r.Body).Decode(&created); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("GET /api/enemy-types", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		fetches++
		resp := network.EnemyTypesResponse{
			EnemyTypes: map[string]enemydef.Record{},
		}
		if created.ID != "" {
			resp.EnemyTypes["giant_rat"] = created
		}
		json.NewEncoder(w).Encode(resp)
	})

	s := newTestSession(t, mux)
	done := make(chan struct{})
	go func() {
		s.Save(FormSnapshot{IsNew: true, ID: "Giant Rat", MaxHealth: "25"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("save did not finish")
	}
	s.Drain()

	mu.Lock()
	gotFetches := fetches
	mu.Unlock()
	if gotFetches != 1 {
		t.Errorf("refetches after save = %d, want 1", gotFetches)
	}
	if s.SelectedID != "giant_rat" {
		t.Errorf("selection after save = %q, want giant_rat", s.SelectedID)
	}
	if s.Form.MaxHealth != 25 {
		t.Errorf("form max_health = %d, want 25", s.Form.MaxHealth)
	}
}

// The client create path replaces only the first space, the server
// replaces them all. A multi-space id therefore comes back from the
// refetch under a different key than was submitted; the re-selection
// must land on the stored form.
func TestSaveCreateWithMultipleSpacesReselectsStoredID(t *testing.T) {
	var mu sync.Mutex
	stored := map[string]enemydef.Record{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/enemy-types", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		var rec enemydef.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		stored[enemydef.StorageID(rec.ID)] = rec
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("GET /api/enemy-types", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		json.NewEncoder(w).Encode(network.EnemyTypesResponse{EnemyTypes: stored})
	})

	s := newTestSession(t, mux)
	done := make(chan struct{})
	go func() {
		s.Save(FormSnapshot{IsNew: true, ID: "Giant Angry Rat"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("save did not finish")
	}
	s.Drain()

	// The wire record carries the first-space-only form.
	mu.Lock()
	rec, ok := stored["giant_angry_rat"]
	mu.Unlock()
	if !ok {
		t.Fatal("record not stored under the fully normalized id")
	}
	if rec.ID != "giant_angry rat" {
		t.Errorf("submitted id = %q, want the single-replace form", rec.ID)
	}

	if s.SelectedID != "giant_angry_rat" {
		t.Errorf("selection after create = %q, want giant_angry_rat", s.SelectedID)
	}
	if s.IsNew {
		t.Error("session still reports a new record after re-selection")
	}
}

func TestSaveBackendErrorSurfacesNotRetried(t *testing.T) {
	var mu sync.Mutex
	posts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/enemy-types", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		posts++
		mu.Unlock()
		http.Error(w, `{"error":"disk full"}`, http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /api/enemy-types", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(network.EnemyTypesResponse{EnemyTypes: map[string]enemydef.Record{}})
	})

	s := newTestSession(t, mux)
	s.Save(FormSnapshot{IsNew: true, ID: "rat"})
	s.Drain()

	mu.Lock()
	defer mu.Unlock()
	if posts != 1 {
		t.Errorf("posts = %d, want exactly 1 (no retry)", posts)
	}
	if s.SelectedID != "" {
		t.Errorf("failed save selected %q", s.SelectedID)
	}
}
