package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
)

func main() {
	port := flag.Int("port", 5000, "HTTP listen port")
	dataDir := flag.String("data", "editor-data", "Data directory (config file and asset folders)")
	flag.Parse()

	store, err := NewStore(*dataDir)
	if err != nil {
		log.Fatalf("[server] fatal: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/enemy-types", GetEnemyTypes(store))
	mux.HandleFunc("GET /api/enemy-types/{id}", GetEnemyType(store))
	mux.HandleFunc("POST /api/enemy-types", CreateEnemyType(store))
	mux.HandleFunc("PUT /api/enemy-types/{id}", UpdateEnemyType(store))
	mux.HandleFunc("DELETE /api/enemy-types/{id}", DeleteEnemyType(store))

	mux.HandleFunc("GET /api/sprites/{filename}", ServeImage(store.SpritePath))
	mux.HandleFunc("GET /api/weapons/{filename}", ServeImage(store.WeaponPath))
	mux.HandleFunc("GET /api/player-sprite", ServePlayerSprite(store))
	mux.HandleFunc("POST /api/upload-sprite", UploadImage("sprite", store.SpritePath))
	mux.HandleFunc("DELETE /api/delete-sprite/{filename}", DeleteImage(store.SpritePath))

	mux.HandleFunc("GET /api/textures", ListTextures(store))
	mux.HandleFunc("GET /api/textures/{filename}", ServeImage(store.TexturePath))
	mux.HandleFunc("POST /api/textures", UploadImage("texture", store.TexturePath))
	mux.HandleFunc("DELETE /api/textures/{filename}", DeleteImage(store.TexturePath))

	mux.HandleFunc("GET /api/export-code", ExportCode(store))

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("[server] enemy editor backend on %s (data=%s)", addr, *dataDir)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[server] fatal: %v", err)
	}
}
