package scenes

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	cfg "github.com/diabro/enemy-editor/config"
	"github.com/diabro/enemy-editor/systems"
	"github.com/diabro/enemy-editor/ui"
)

// LibraryScene is the asset library screen: the uploaded sprite sheets
// and tile textures, with upload and delete. All backend calls run off
// the update goroutine; results are applied under a mutex the next
// frame.
type LibraryScene struct {
	sceneChanger SceneChanger
	session      *systems.EditorSession
	libraryUI    *ui.LibraryUI
	once         sync.Once
	shouldGoBack bool

	mu              sync.Mutex
	fetchedSprites  []string
	fetchedTextures []string
	fetchErr        error
	fetchDone       bool
	opMsg           string
	opDone          bool
}

func NewLibraryScene(sc SceneChanger, session *systems.EditorSession) *LibraryScene {
	return &LibraryScene{
		sceneChanger: sc,
		session:      session,
	}
}

func (s *LibraryScene) Update() {
	s.once.Do(s.configure)

	s.libraryUI.Update()

	// Apply fetch results on the main goroutine
	s.mu.Lock()
	if s.fetchDone {
		sprites := s.fetchedSprites
		textures := s.fetchedTextures
		err := s.fetchErr
		s.fetchDone = false
		s.fetchedSprites = nil
		s.fetchedTextures = nil
		s.fetchErr = nil
		s.mu.Unlock()

		if err != nil {
			s.libraryUI.SetStatus(err.Error())
		} else {
			s.libraryUI.SetSprites(sprites)
			s.libraryUI.SetTextures(textures)
			s.libraryUI.SetStatus("")
		}
	} else {
		s.mu.Unlock()
	}

	s.mu.Lock()
	if s.opDone {
		msg := s.opMsg
		s.opDone = false
		s.opMsg = ""
		s.mu.Unlock()

		s.libraryUI.SetStatus(msg)
		s.fetchLists()
	} else {
		s.mu.Unlock()
	}

	if s.shouldGoBack {
		s.sceneChanger.ChangeScene(NewEditorScene(s.sceneChanger, s.session))
		return
	}
}

func (s *LibraryScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.UI.Background)

	if s.libraryUI == nil {
		return
	}

	s.libraryUI.UI.Draw(screen)
}

func (s *LibraryScene) configure() {
	s.libraryUI = ui.NewLibraryUI()

	s.libraryUI.OnBack = func() { s.shouldGoBack = true }
	s.libraryUI.OnRefresh = func() { s.fetchLists() }
	s.libraryUI.OnUploadSprite = func(localPath string) {
		s.runOp("upload "+filepath.Base(localPath), func() error {
			return s.uploadFile(localPath, s.session.Client.UploadSprite)
		})
	}
	s.libraryUI.OnDeleteSprite = func(name string) {
		s.runOp("delete "+name, func() error {
			return s.session.Client.DeleteSprite(name)
		})
	}
	s.libraryUI.OnUploadTexture = func(localPath string) {
		s.runOp("upload "+filepath.Base(localPath), func() error {
			return s.uploadFile(localPath, s.session.Client.UploadTexture)
		})
	}
	s.libraryUI.OnDeleteTexture = func(name string) {
		s.runOp("delete "+name, func() error {
			return s.session.Client.DeleteTexture(name)
		})
	}

	s.fetchLists()
}

func (s *LibraryScene) fetchLists() {
	s.libraryUI.SetStatus("Loading...")

	go func() {
		resp, err := s.session.Client.FetchEnemyTypes()
		var sprites []string
		if err == nil {
			sprites = resp.AvailableSprites
		}
		var textures []string
		if err == nil {
			textures, err = s.session.Client.FetchTextures()
		}

		s.mu.Lock()
		s.fetchedSprites = sprites
		s.fetchedTextures = textures
		s.fetchErr = err
		s.fetchDone = true
		s.mu.Unlock()
	}()
}

// runOp runs one upload or delete in the background and reports the
// outcome; the list refetch happens when the result is applied.
func (s *LibraryScene) runOp(what string, op func() error) {
	s.libraryUI.SetStatus(what + "...")

	go func() {
		err := op()
		msg := what + " done"
		if err != nil {
			log.Printf("[library] %s failed: %v", what, err)
			msg = what + " failed: " + err.Error()
		}

		s.mu.Lock()
		s.opMsg = msg
		s.opDone = true
		s.mu.Unlock()
	}()
}

func (s *LibraryScene) uploadFile(localPath string, send func(filename string, data io.Reader) error) error {
	if localPath == "" {
		return fmt.Errorf("no file path given")
	}
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return send(filepath.Base(localPath), f)
}
