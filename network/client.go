// Package network is the REST client for the enemy editor backend.
package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/diabro/enemy-editor/shared/enemydef"
)

// BackendError is a non-2xx response to a backend call. Mutations are
// never retried automatically; the operator re-issues the action.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// EnemyTypesResponse is the payload of GET /api/enemy-types.
type EnemyTypesResponse struct {
	EnemyTypes       map[string]enemydef.Record `json:"enemy_types"`
	AvailableSprites []string                   `json:"available_sprites"`
	AvailableWeapons []string                   `json:"available_weapons"`
}

// Client talks to one backend instance.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) BaseURL() string { return c.base }

// SpriteURL returns the image URL for an enemy sprite sheet filename.
func (c *Client) SpriteURL(name string) string {
	return c.base + "/api/sprites/" + url.PathEscape(name)
}

// WeaponURL returns the image URL for a weapon sheet filename.
func (c *Client) WeaponURL(name string) string {
	return c.base + "/api/weapons/" + url.PathEscape(name)
}

// TextureURL returns the image URL for a texture filename.
func (c *Client) TextureURL(name string) string {
	return c.base + "/api/textures/" + url.PathEscape(name)
}

// PlayerSpriteURL returns the reference player sheet URL.
func (c *Client) PlayerSpriteURL() string {
	return c.base + "/api/player-sprite"
}

// FetchEnemyTypes loads the full record set plus the available asset
// listings.
func (c *Client) FetchEnemyTypes() (*EnemyTypesResponse, error) {
	var out EnemyTypesResponse
	if err := c.getJSON("/api/enemy-types", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchTextures lists the texture filenames on the backend.
func (c *Client) FetchTextures() ([]string, error) {
	var out struct {
		Textures []string `json:"textures"`
	}
	if err := c.getJSON("/api/textures", &out); err != nil {
		return nil, err
	}
	return out.Textures, nil
}

// CreateEnemyType creates a record. The backend assigns the final id.
func (c *Client) CreateEnemyType(r enemydef.Record) error {
	return c.sendJSON(http.MethodPost, "/api/enemy-types", r)
}

// UpdateEnemyType overwrites the record with the given id.
func (c *Client) UpdateEnemyType(id string, r enemydef.Record) error {
	return c.sendJSON(http.MethodPut, "/api/enemy-types/"+url.PathEscape(id), r)
}

// DeleteEnemyType removes the record with the given id.
func (c *Client) DeleteEnemyType(id string) error {
	return c.send(http.MethodDelete, "/api/enemy-types/"+url.PathEscape(id), "", nil)
}

// UploadSprite uploads a sprite sheet PNG under multipart field "sprite".
func (c *Client) UploadSprite(filename string, data io.Reader) error {
	return c.upload("/api/upload-sprite", "sprite", filename, data)
}

// DeleteSprite removes a sprite file from the backend.
func (c *Client) DeleteSprite(filename string) error {
	return c.send(http.MethodDelete, "/api/delete-sprite/"+url.PathEscape(filename), "", nil)
}

// UploadTexture uploads a texture under multipart field "texture". Only
// PNG files are accepted; anything else is rejected before any network
// traffic.
func (c *Client) UploadTexture(filename string, data io.Reader) error {
	if !strings.EqualFold(path.Ext(filename), ".png") {
		return &enemydef.ValidationError{Field: "texture", Reason: "only .png files are allowed"}
	}
	return c.upload("/api/textures", "texture", filename, data)
}

// DeleteTexture removes a texture file from the backend.
func (c *Client) DeleteTexture(filename string) error {
	return c.send(http.MethodDelete, "/api/textures/"+url.PathEscape(filename), "", nil)
}

// ExportCode asks the backend for the generated source snippet.
func (c *Client) ExportCode() (string, error) {
	var out struct {
		Code string `json:"code"`
	}
	if err := c.getJSON("/api/export-code", &out); err != nil {
		return "", err
	}
	return out.Code, nil
}

func (c *Client) getJSON(route string, out any) error {
	resp, err := c.http.Get(c.base + route)
	if err != nil {
		return fmt.Errorf("GET %s: %w", route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return backendError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", route, err)
	}
	return nil
}

func (c *Client) sendJSON(method, route string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s %s: encode: %w", method, route, err)
	}
	return c.send(method, route, "application/json", bytes.NewReader(b))
}

func (c *Client) send(method, route, contentType string, body io.Reader) error {
	req, err := http.NewRequest(method, c.base+route, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) upload(route, field, filename string, data io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, data); err != nil {
		return fmt.Errorf("upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return err
	}
	return c.send(http.MethodPost, route, mw.FormDataContentType(), &buf)
}

func backendError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(body))
	}
	return &BackendError{Status: resp.StatusCode, Message: payload.Error}
}
