// HTTP implementation of [Catalog] and [Authenticator] for the catalog backend.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
	"golang.org/x/time/rate"
)

// TokenSource supplies the current bearer credential, or "" when logged out.
type TokenSource func() string

// APIClient talks to the catalog backend. It attaches the bearer credential
// to every request and treats a response body carrying an `err` field as a
// failure regardless of transport status.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	token      TokenSource
}

// NewAPIClient creates a catalog client. A nil token source means anonymous
// requests; rps <= 0 disables the request throttle.
func NewAPIClient(baseURL string, client *http.Client, token TokenSource, rps float64) *APIClient {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	return &APIClient{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
		token:      token,
	}
}

// backendError mirrors the backend's error envelope.
type backendError struct {
	Err string `json:"err"`
}

// do performs a request and returns the raw response body after failure
// detection. body may be nil; contentType is ignored when body is nil.
func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The backend reports failures through an `err` body field, sometimes with
	// a 200 status. Probe object bodies for it before trusting the payload.
	if msg := reportedError(raw); msg != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrBackendReported, msg)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return raw, nil
}

// reportedError extracts the backend's err field from an object body.
func reportedError(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var envelope backendError
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return ""
	}
	return envelope.Err
}

// doJSON marshals payload (when non-nil), performs the request, and decodes
// the response into result (when non-nil).
func (c *APIClient) doJSON(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	raw, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// doMultipart builds a multipart form from fields and files and performs the
// request. The Content-Type carries the generated boundary.
func (c *APIClient) doMultipart(ctx context.Context, method, path string, fields map[string]string, files []FileUpload, result any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	for _, upload := range files {
		f, err := os.Open(upload.Path)
		if err != nil {
			return fmt.Errorf("failed to open upload %s: %w", upload.Path, err)
		}
		part, err := writer.CreateFormFile(upload.Field, filepath.Base(upload.Path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to attach upload %s: %w", upload.Path, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	raw, err := c.do(ctx, method, path, &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// ListAlbums retrieves every album.
func (c *APIClient) ListAlbums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	if err := c.doJSON(ctx, http.MethodGet, "/albums/", nil, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// GetAlbum retrieves a single album by ID.
func (c *APIClient) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	var album models.Album
	if err := c.doJSON(ctx, http.MethodGet, "/albums/"+albumID, nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// CreateAlbum creates an album from JSON data.
func (c *APIClient) CreateAlbum(ctx context.Context, album models.Album) (*models.Album, error) {
	var created models.Album
	if err := c.doJSON(ctx, http.MethodPost, "/albums/", album, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateAlbumUpload creates an album from multipart form data with file attachments.
func (c *APIClient) CreateAlbumUpload(ctx context.Context, fields map[string]string, files []FileUpload) (*models.Album, error) {
	var created models.Album
	if err := c.doMultipart(ctx, http.MethodPost, "/albums/", fields, files, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAlbum applies a partial update and returns the canonical server object.
func (c *APIClient) UpdateAlbum(ctx context.Context, albumID string, update AlbumUpdate) (*models.Album, error) {
	var updated models.Album
	if err := c.doJSON(ctx, http.MethodPut, "/albums/"+albumID, update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAlbum removes an album.
func (c *APIClient) DeleteAlbum(ctx context.Context, albumID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/albums/"+albumID, nil, nil)
}

// ListPlaylists retrieves every playlist.
func (c *APIClient) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := c.doJSON(ctx, http.MethodGet, "/playlists/", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// CreatePlaylist creates a playlist from JSON data.
func (c *APIClient) CreatePlaylist(ctx context.Context, playlist models.Playlist) (*models.Playlist, error) {
	var created models.Playlist
	if err := c.doJSON(ctx, http.MethodPost, "/playlists/", playlist, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreatePlaylistUpload creates a playlist from multipart form data with an
// optional cover image attachment.
func (c *APIClient) CreatePlaylistUpload(ctx context.Context, fields map[string]string, files []FileUpload) (*models.Playlist, error) {
	var created models.Playlist
	if err := c.doMultipart(ctx, http.MethodPost, "/playlists/", fields, files, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePlaylist applies a partial update. See [Catalog.UpdatePlaylist] for
// the replace-all songs semantics.
func (c *APIClient) UpdatePlaylist(ctx context.Context, playlistID string, update PlaylistUpdate) (*models.Playlist, error) {
	var updated models.Playlist
	if err := c.doJSON(ctx, http.MethodPut, "/playlists/"+playlistID, update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePlaylist removes a playlist.
func (c *APIClient) DeletePlaylist(ctx context.Context, playlistID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/playlists/"+playlistID, nil, nil)
}

// authResponse mirrors the auth endpoints' success envelope.
type authResponse struct {
	Token string `json:"token"`
}

// SignUp registers an account and returns the issued bearer credential.
func (c *APIClient) SignUp(ctx context.Context, username, password, role string) (string, error) {
	payload := map[string]string{"username": username, "password": password, "role": role}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/sign-up", payload, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: no token in response", shared.ErrBackendReported)
	}
	return resp.Token, nil
}

// SignIn exchanges credentials for a bearer credential.
func (c *APIClient) SignIn(ctx context.Context, username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/sign-in", payload, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: no token in response", shared.ErrBackendReported)
	}
	return resp.Token, nil
}
