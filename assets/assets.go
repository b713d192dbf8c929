// Package assets caches remote sprite-sheet images by the role they play
// in the editor (enemy sprite, weapon overlay, player reference, list
// thumbnails).
package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Role identifies one cache slot. Each role holds at most one image and
// is replaced wholesale when its URL changes.
type Role string

const (
	RoleEnemy  Role = "enemy"
	RoleWeapon Role = "weapon"
	RolePlayer Role = "player"
)

// ThumbnailRole returns the cache role for one enemy list thumbnail.
func ThumbnailRole(enemyID string) Role {
	return Role("thumb:" + enemyID)
}

// LoadError is an image fetch or decode failure. It is never fatal:
// consumers fall back to placeholder rendering.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type slot struct {
	url     string
	gen     uint64
	loading bool
	img     image.Image
	gpu     *ebiten.Image
	err     error
}

// Cache holds one image slot per role. Loads are asynchronous; a load
// completion is applied only if its slot still wants the same URL and
// generation, so a stale fetch for a reassigned role can never clobber
// the newer image.
type Cache struct {
	mu    sync.Mutex
	fetch func(url string) (image.Image, error)
	slots map[Role]*slot
}

func NewCache() *Cache {
	return &Cache{
		fetch: fetchImage,
		slots: make(map[Role]*slot),
	}
}

// NewCacheWithFetcher substitutes the HTTP fetch, for tests.
func NewCacheWithFetcher(fetch func(url string) (image.Image, error)) *Cache {
	return &Cache{
		fetch: fetch,
		slots: make(map[Role]*slot),
	}
}

// Load asks the cache to make url resident for role. Loading the URL the
// slot already holds is a no-op while it is resident or in flight, so
// callers may re-issue Load every time a form value changes. A failed
// slot is not resident: re-issuing the same URL after a failure retries
// the fetch.
func (c *Cache) Load(role Role, url string) {
	if url == "" {
		c.Clear(role)
		return
	}

	c.mu.Lock()
	s, ok := c.slots[role]
	if !ok {
		s = &slot{}
		c.slots[role] = s
	}
	if s.url == url && (s.loading || s.img != nil) {
		c.mu.Unlock()
		return
	}
	s.url = url
	s.gen++
	s.loading = true
	s.img = nil
	s.gpu = nil
	s.err = nil
	gen := s.gen
	c.mu.Unlock()

	go func() {
		img, err := c.fetch(url)
		c.mu.Lock()
		defer c.mu.Unlock()
		// The role may have been reassigned or cleared while the fetch
		// was in flight; only the matching generation may land.
		if s.gen != gen || s.url != url {
			return
		}
		s.loading = false
		if err != nil {
			s.err = &LoadError{URL: url, Err: err}
			log.Printf("[assets] %v", s.err)
			return
		}
		s.img = img
	}()
}

// Clear drops the slot for role. Any in-flight load for it is discarded
// on arrival.
func (c *Cache) Clear(role Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[role]; ok {
		s.gen++
		*s = slot{gen: s.gen}
	}
}

// Image returns the decoded raster for role, or false while the slot is
// empty, loading, or failed.
func (c *Cache) Image(role Role) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[role]
	if !ok || s.img == nil {
		return nil, false
	}
	return s.img, true
}

// Err returns the load failure for role, if its last load failed.
func (c *Cache) Err(role Role) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[role]
	if !ok || s.err == nil {
		return nil
	}
	return s.err
}

// EbitenImage returns the GPU-resident image for role, uploading it on
// first use. Returns nil while the image is not loaded.
func (c *Cache) EbitenImage(role Role) *ebiten.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[role]
	if !ok || s.img == nil {
		return nil
	}
	if s.gpu == nil {
		s.gpu = ebiten.NewImageFromImage(s.img)
	}
	return s.gpu
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func fetchImage(url string) (image.Image, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}
