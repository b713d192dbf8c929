package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/diabro/enemy-editor/shared/enemydef"
)

// Store is the file-backed state of the backend: one JSON config file of
// enemy type records plus the sprite, weapon and texture directories.
// All mutations rewrite the whole config file; last write wins.
type Store struct {
	mu sync.Mutex

	configPath   string
	spritesDir   string
	weaponsDir   string
	texturesDir  string
	playerSprite string
}

func NewStore(dataDir string) (*Store, error) {
	s := &Store{
		configPath:   filepath.Join(dataDir, "enemy_types.json"),
		spritesDir:   filepath.Join(dataDir, "sprites"),
		weaponsDir:   filepath.Join(dataDir, "weapons"),
		texturesDir:  filepath.Join(dataDir, "textures"),
		playerSprite: filepath.Join(dataDir, "player_sprite.png"),
	}
	for _, dir := range []string{s.spritesDir, s.weaponsDir, s.texturesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

// Load reads the full record set. A missing config file is an empty set,
// not an error.
func (s *Store) Load() (map[string]enemydef.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (map[string]enemydef.Record, error) {
	b, err := os.ReadFile(s.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]enemydef.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	var records map[string]enemydef.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.configPath, err)
	}
	return records, nil
}

// Mutate applies fn to the record set under the store lock and persists
// the result.
func (s *Store) Mutate(fn func(map[string]enemydef.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(records); err != nil {
		return err
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.configPath, b, 0o644)
}

// SpritePath returns the on-disk path of a sprite filename, or an error
// for names that would escape the sprites directory.
func (s *Store) SpritePath(name string) (string, error) {
	return safeJoin(s.spritesDir, name)
}

func (s *Store) WeaponPath(name string) (string, error) {
	return safeJoin(s.weaponsDir, name)
}

func (s *Store) TexturePath(name string) (string, error) {
	return safeJoin(s.texturesDir, name)
}

func (s *Store) PlayerSpritePath() string { return s.playerSprite }

// ListSprites returns the PNG filenames in the sprites directory, sorted.
func (s *Store) ListSprites() []string { return listPNGs(s.spritesDir) }

func (s *Store) ListWeapons() []string { return listPNGs(s.weaponsDir) }

func (s *Store) ListTextures() []string { return listPNGs(s.texturesDir) }

func listPNGs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func safeJoin(dir, name string) (string, error) {
	base := filepath.Base(name)
	if base != name || base == "." || base == ".." || strings.HasPrefix(base, ".") {
		return "", fmt.Errorf("invalid filename %q", name)
	}
	return filepath.Join(dir, base), nil
}
