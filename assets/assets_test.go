package assets

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func solidImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestLoadResolvesImage(t *testing.T) {
	c := NewCacheWithFetcher(func(url string) (image.Image, error) {
		return solidImage(1024, 2048), nil
	})

	c.Load(RoleEnemy, "http://backend/api/sprites/rat.png")
	waitFor(t, "image", func() bool {
		_, ok := c.Image(RoleEnemy)
		return ok
	})

	img, _ := c.Image(RoleEnemy)
	if img.Bounds().Dx() != 1024 {
		t.Errorf("width = %d, want 1024", img.Bounds().Dx())
	}
	if err := c.Err(RoleEnemy); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadSameURLIsIdempotent(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	c := NewCacheWithFetcher(func(url string) (image.Image, error) {
		mu.Lock()
		fetches++
		mu.Unlock()
		return solidImage(4, 4), nil
	})

	const url = "http://backend/api/sprites/rat.png"
	c.Load(RoleEnemy, url)
	waitFor(t, "first load", func() bool {
		_, ok := c.Image(RoleEnemy)
		return ok
	})
	first, _ := c.Image(RoleEnemy)

	c.Load(RoleEnemy, url)
	c.Load(RoleEnemy, url)
	second, _ := c.Image(RoleEnemy)

	if first != second {
		t.Error("reload of resident URL replaced the image")
	}
	mu.Lock()
	defer mu.Unlock()
	if fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetches)
	}
}

func TestLoadFailureIsRecordedNotFatal(t *testing.T) {
	sentinel := errors.New("connection refused")
	c := NewCacheWithFetcher(func(url string) (image.Image, error) {
		return nil, sentinel
	})

	c.Load(RoleWeapon, "http://backend/api/weapons/axe.png")
	waitFor(t, "error", func() bool { return c.Err(RoleWeapon) != nil })

	var le *LoadError
	if err := c.Err(RoleWeapon); !errors.As(err, &le) {
		t.Fatalf("error = %v, want *LoadError", err)
	} else if !errors.Is(err, sentinel) {
		t.Errorf("error does not wrap cause: %v", err)
	}
	if _, ok := c.Image(RoleWeapon); ok {
		t.Error("failed slot still reports an image")
	}
}

// A failed slot is not resident: re-issuing the same URL, as a
// re-select or list refresh does, retries the fetch instead of keeping
// the slot failed forever.
func TestLoadRetriesSameURLAfterFailure(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	c := NewCacheWithFetcher(func(url string) (image.Image, error) {
		mu.Lock()
		defer mu.Unlock()
		fetches++
		if fetches == 1 {
			return nil, errors.New("connection refused")
		}
		return solidImage(7, 7), nil
	})

	const url = "http://backend/api/sprites/rat.png"
	c.Load(RoleEnemy, url)
	waitFor(t, "first failure", func() bool { return c.Err(RoleEnemy) != nil })

	c.Load(RoleEnemy, url)
	waitFor(t, "retried image", func() bool {
		_, ok := c.Image(RoleEnemy)
		return ok
	})

	if err := c.Err(RoleEnemy); err != nil {
		t.Errorf("error survived a successful retry: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
}

// A slow fetch for a role that has since been reassigned must not land.
func TestStaleLoadDoesNotClobberReassignedRole(t *testing.T) {
	release := make(chan struct{})
	c := NewCacheWithFetcher(func(url string) (image.Image, error) {
		if url == "http://backend/api/sprites/slow.png" {
			<-release
			return solidImage(1, 1), nil
		}
		return solidImage(9, 9), nil
	})

	c.Load(RoleEnemy, "http://backend/api/sprites/slow.png")
	c.Load(RoleEnemy, "http://backend/api/sprites/fast.png")
	waitFor(t, "fast image", func() bool {
		img, ok := c.Image(RoleEnemy)
		return ok && img.Bounds().Dx() == 9
	})

	close(release)
	// Give the stale completion a chance to (incorrectly) apply.
	time.Sleep(20 * time.Millisecond)

	img, ok := c.Image(RoleEnemy)
	if !ok || img.Bounds().Dx() != 9 {
		t.Errorf("slot holds %v, want the 9x9 replacement image", img)
	}
}

func TestClearDiscardsInFlightLoad(t *testing.T) {
	release := make(chan struct{})
	c := NewCacheWithFetcher(func(url string) (image.Image, error) {
		<-release
		return solidImage(1, 1), nil
	})

	role := ThumbnailRole("rat")
	c.Load(role, "http://backend/api/sprites/rat.png")
	c.Clear(role)
	close(release)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Image(role); ok {
		t.Error("cleared slot was repopulated by a discarded load")
	}
	if err := c.Err(role); err != nil {
		t.Errorf("cleared slot reports error: %v", err)
	}
}

func TestLoadEmptyURLClears(t *testing.T) {
	c := NewCacheWithFetcher(func(url string) (image.Image, error) {
		return solidImage(2, 2), nil
	})
	c.Load(RoleWeapon, "http://backend/api/weapons/axe.png")
	waitFor(t, "image", func() bool {
		_, ok := c.Image(RoleWeapon)
		return ok
	})

	c.Load(RoleWeapon, "")
	if _, ok := c.Image(RoleWeapon); ok {
		t.Error("empty URL did not clear the slot")
	}
}
