// package services defines interface Catalog for interacting with the music
// catalog backend over HTTP.
package services

import (
	"context"

	"github.com/tunedeck/tunedeck/internal/models"
)

// Catalog defines the catalog backend operations the client consumes.
//
// Every method that talks to the network may fail; failures are returned,
// never panicked, and the response-body `err` field counts as a failure
// regardless of transport status.
type Catalog interface {
	// ListAlbums retrieves every album visible to the authenticated user.
	ListAlbums(ctx context.Context) ([]models.Album, error)

	// GetAlbum retrieves a single album by ID.
	GetAlbum(ctx context.Context, albumID string) (*models.Album, error)

	// CreateAlbum creates an album from JSON data (no file upload).
	CreateAlbum(ctx context.Context, album models.Album) (*models.Album, error)

	// CreateAlbumUpload creates an album from multipart form data, attaching
	// cover image and audio files.
	CreateAlbumUpload(ctx context.Context, fields map[string]string, files []FileUpload) (*models.Album, error)

	// UpdateAlbum applies a partial update and returns the canonical server object.
	UpdateAlbum(ctx context.Context, albumID string, update AlbumUpdate) (*models.Album, error)

	// DeleteAlbum removes an album.
	DeleteAlbum(ctx context.Context, albumID string) error

	// ListPlaylists retrieves every playlist visible to the authenticated user.
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)

	// CreatePlaylist creates a playlist from JSON data.
	CreatePlaylist(ctx context.Context, playlist models.Playlist) (*models.Playlist, error)

	// CreatePlaylistUpload creates a playlist from multipart form data,
	// attaching an optional cover image.
	CreatePlaylistUpload(ctx context.Context, fields map[string]string, files []FileUpload) (*models.Playlist, error)

	// UpdatePlaylist applies a partial update and returns the canonical server
	// object. The songs field carries replace-all semantics: the backend has no
	// incremental add endpoint, so callers send the complete identifier list.
	UpdatePlaylist(ctx context.Context, playlistID string, update PlaylistUpdate) (*models.Playlist, error)

	// DeletePlaylist removes a playlist.
	DeletePlaylist(ctx context.Context, playlistID string) error
}

// Authenticator defines the credential-issuing endpoints.
type Authenticator interface {
	// SignUp registers an account and returns the issued bearer credential.
	SignUp(ctx context.Context, username, password string, role string) (string, error)

	// SignIn exchanges credentials for a bearer credential.
	SignIn(ctx context.Context, username, password string) (string, error)
}

// AlbumUpdate is a partial album update. Nil fields are left untouched.
// A non-nil Songs slice replaces the album's entire song identifier list:
// the pointer keeps a rename from clobbering the songs, while an empty list
// still goes on the wire when the last song is removed.
type AlbumUpdate struct {
	Name  *string   `json:"name,omitempty"`
	Songs *[]string `json:"songs,omitempty"`
}

// PlaylistUpdate is a partial playlist update. A non-nil Songs slice replaces
// the playlist's entire song identifier list.
type PlaylistUpdate struct {
	Name  *string  `json:"name,omitempty"`
	Songs []string `json:"songs"`
}

// FileUpload names a local file to attach to a multipart request.
type FileUpload struct {
	Field string // form field name, e.g. "coverImg" or "songs"
	Path  string // local filesystem path
}
