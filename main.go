package main

import (
	"flag"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/diabro/enemy-editor/config"
	"github.com/diabro/enemy-editor/fonts"
	"github.com/diabro/enemy-editor/network"
	"github.com/diabro/enemy-editor/scenes"
	"github.com/diabro/enemy-editor/systems"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	backendFlag := flag.String("backend", "", "backend base URL (overrides the saved setting)")
	flag.Parse()

	fonts.LoadAll()

	if err := systems.InitPersistence(); err != nil {
		log.Printf("[editor] settings persistence unavailable: %v", err)
	}
	settings, _ := systems.LoadSettings()

	backendURL := config.C.DefaultBackendURL
	if settings != nil && settings.BackendURL != "" {
		backendURL = settings.BackendURL
	}
	if *backendFlag != "" {
		backendURL = *backendFlag
	}

	client := network.NewClient(backendURL)
	session := systems.NewEditorSession(client)

	g := &Game{}
	editor := scenes.NewEditorScene(g, session)
	if settings != nil {
		editor.WithInitialSelection(settings.LastEnemyID)
	}
	g.scene = editor

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle("Enemy Type Editor")
	log.Printf("[editor] using backend %s", client.BaseURL())

	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("editor exited: %v", err)
	}

	if err := systems.SaveSettings(&systems.SavedSettings{
		BackendURL:   backendURL,
		LastEnemyID:  session.SelectedID,
		WindowWidth:  config.C.Width,
		WindowHeight: config.C.Height,
	}); err != nil {
		log.Printf("[editor] could not save settings: %v", err)
	}
}
