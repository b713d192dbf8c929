package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/diabro/enemy-editor/shared/enemydef"
)

const maxRequestBody = 16 << 20 // 16 MB, large enough for any sprite sheet

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// GetEnemyTypes returns the full record set plus the asset listings the
// editor's pickers are populated from.
func GetEnemyTypes(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.Load()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"enemy_types":       records,
			"available_sprites": store.ListSprites(),
			"available_weapons": store.ListWeapons(),
		})
	}
}

// GetEnemyType returns a single record by id.
func GetEnemyType(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.Load()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rec, ok := records[r.PathValue("id")]
		if !ok {
			writeError(w, http.StatusNotFound, "enemy type not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// CreateEnemyType stores a new record. The id is normalized to storage
// form (lower case, every space to underscore) and absent fields receive
// their documented defaults.
func CreateEnemyType(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var rec enemydef.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(rec.ID) == "" {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}

		id := enemydef.StorageID(rec.ID)
		err := store.Mutate(func(records map[string]enemydef.Record) error {
			stored := rec.WithDefaults(id)
			stored.ID = "" // the map key carries the id on disk
			records[id] = stored
			return nil
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		log.Printf("[server] created enemy type %q", id)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
	}
}

// UpdateEnemyType overwrites an existing record. Stat fields absent from
// the request keep their stored value; asset path fields are taken as
// sent so the editor can clear them.
func UpdateEnemyType(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var rec enemydef.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		err := store.Mutate(func(records map[string]enemydef.Record) error {
			existing, ok := records[id]
			if !ok {
				return errNotFound
			}
			merged := mergeRecord(existing, rec).WithDefaults(id)
			merged.ID = ""
			records[id] = merged
			return nil
		})
		if err == errNotFound {
			writeError(w, http.StatusNotFound, "enemy type not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// DeleteEnemyType removes a record by id.
func DeleteEnemyType(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		err := store.Mutate(func(records map[string]enemydef.Record) error {
			if _, ok := records[id]; !ok {
				return errNotFound
			}
			delete(records, id)
			return nil
		})
		if err == errNotFound {
			writeError(w, http.StatusNotFound, "enemy type not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Printf("[server] deleted enemy type %q", id)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

var errNotFound = fmt.Errorf("not found")

// mergeRecord overlays the non-zero stat fields of in onto base. Asset
// paths and the weapon offset come straight from in: an empty path is a
// deliberate clear, not an absent field.
func mergeRecord(base, in enemydef.Record) enemydef.Record {
	out := base
	if in.Name != "" {
		out.Name = in.Name
	}
	out.SpritePath = in.SpritePath
	out.WeaponPath = in.WeaponPath
	out.ProjectilePath = in.ProjectilePath
	out.WeaponOffset = in.WeaponOffset
	if in.SpriteScale != 0 {
		out.SpriteScale = in.SpriteScale
	}
	if in.MaxHealth != 0 {
		out.MaxHealth = in.MaxHealth
	}
	if in.Damage != 0 {
		out.Damage = in.Damage
	}
	if in.Speed != 0 {
		out.Speed = in.Speed
	}
	if in.AttackType != "" {
		out.AttackType = in.AttackType
	}
	if in.AggroRange != 0 {
		out.AggroRange = in.AggroRange
	}
	if in.AttackRange != 0 {
		out.AttackRange = in.AttackRange
	}
	if in.AttackCooldown != 0 {
		out.AttackCooldown = in.AttackCooldown
	}
	if in.Color != [3]int{} {
		out.Color = in.Color
	}
	return out
}

type pathFunc func(name string) (string, error)

// ServeImage serves a raw image file from one of the asset directories.
func ServeImage(path pathFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := path(r.PathValue("filename"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := os.Stat(p); err != nil {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		http.ServeFile(w, r, p)
	}
}

// ServePlayerSprite serves the reference player sheet used by the
// side-by-side scale preview.
func ServePlayerSprite(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := store.PlayerSpritePath()
		if _, err := os.Stat(p); err != nil {
			writeError(w, http.StatusNotFound, "player sprite not found")
			return
		}
		http.ServeFile(w, r, p)
	}
}

// UploadImage accepts a multipart PNG upload under the given field name
// and stores it in the directory behind path.
func UploadImage(field string, path pathFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		f, hdr, err := r.FormFile(field)
		if err != nil {
			writeError(w, http.StatusBadRequest, "no file selected")
			return
		}
		defer f.Close()

		if hdr.Filename == "" {
			writeError(w, http.StatusBadRequest, "no file selected")
			return
		}
		if !strings.EqualFold(filepath.Ext(hdr.Filename), ".png") {
			writeError(w, http.StatusBadRequest, "only PNG files are allowed")
			return
		}

		dst, err := path(hdr.Filename)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		out, err := os.Create(dst)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer out.Close()
		if _, err := io.Copy(out, f); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		name := filepath.Base(dst)
		log.Printf("[server] stored %s %q", field, name)
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"filename": name,
		})
	}
}

// DeleteImage removes an asset file.
func DeleteImage(path pathFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := path(r.PathValue("filename"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := os.Stat(p); err != nil {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		if err := os.Remove(p); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// ListTextures returns the texture filenames.
func ListTextures(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"textures": store.ListTextures()})
	}
}

// ExportCode returns the generated source snippet for the current record
// set.
func ExportCode(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.Load()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"code": GenerateCode(records)})
	}
}
