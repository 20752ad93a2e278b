// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tunedeck/tunedeck/internal/identity"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// MockCatalog is a configurable test double for [services.Catalog]. Unset
// function fields return empty values.
type MockCatalog struct {
	ListAlbumsFunc           func(ctx context.Context) ([]models.Album, error)
	GetAlbumFunc             func(ctx context.Context, albumID string) (*models.Album, error)
	CreateAlbumFunc          func(ctx context.Context, album models.Album) (*models.Album, error)
	CreateAlbumUploadFunc    func(ctx context.Context, fields map[string]string, files []services.FileUpload) (*models.Album, error)
	UpdateAlbumFunc          func(ctx context.Context, albumID string, update services.AlbumUpdate) (*models.Album, error)
	DeleteAlbumFunc          func(ctx context.Context, albumID string) error
	ListPlaylistsFunc        func(ctx context.Context) ([]models.Playlist, error)
	CreatePlaylistFunc       func(ctx context.Context, playlist models.Playlist) (*models.Playlist, error)
	CreatePlaylistUploadFunc func(ctx context.Context, fields map[string]string, files []services.FileUpload) (*models.Playlist, error)
	UpdatePlaylistFunc       func(ctx context.Context, playlistID string, update services.PlaylistUpdate) (*models.Playlist, error)
	DeletePlaylistFunc       func(ctx context.Context, playlistID string) error
}

func (m *MockCatalog) ListAlbums(ctx context.Context) ([]models.Album, error) {
	if m.ListAlbumsFunc != nil {
		return m.ListAlbumsFunc(ctx)
	}
	return []models.Album{}, nil
}

func (m *MockCatalog) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	if m.GetAlbumFunc != nil {
		return m.GetAlbumFunc(ctx, albumID)
	}
	return nil, shared.ErrAlbumNotFound
}

func (m *MockCatalog) CreateAlbum(ctx context.Context, album models.Album) (*models.Album, error) {
	if m.CreateAlbumFunc != nil {
		return m.CreateAlbumFunc(ctx, album)
	}
	return &album, nil
}

func (m *MockCatalog) CreateAlbumUpload(ctx context.Context, fields map[string]string, files []services.FileUpload) (*models.Album, error) {
	if m.CreateAlbumUploadFunc != nil {
		return m.CreateAlbumUploadFunc(ctx, fields, files)
	}
	return &models.Album{}, nil
}

func (m *MockCatalog) UpdateAlbum(ctx context.Context, albumID string, update services.AlbumUpdate) (*models.Album, error) {
	if m.UpdateAlbumFunc != nil {
		return m.UpdateAlbumFunc(ctx, albumID, update)
	}
	return &models.Album{ID: albumID}, nil
}

func (m *MockCatalog) DeleteAlbum(ctx context.Context, albumID string) error {
	if m.DeleteAlbumFunc != nil {
		return m.DeleteAlbumFunc(ctx, albumID)
	}
	return nil
}

func (m *MockCatalog) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.ListPlaylistsFunc != nil {
		return m.ListPlaylistsFunc(ctx)
	}
	return []models.Playlist{}, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, playlist models.Playlist) (*models.Playlist, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, playlist)
	}
	return &playlist, nil
}

func (m *MockCatalog) CreatePlaylistUpload(ctx context.Context, fields map[string]string, files []services.FileUpload) (*models.Playlist, error) {
	if m.CreatePlaylistUploadFunc != nil {
		return m.CreatePlaylistUploadFunc(ctx, fields, files)
	}
	return &models.Playlist{}, nil
}

func (m *MockCatalog) UpdatePlaylist(ctx context.Context, playlistID string, update services.PlaylistUpdate) (*models.Playlist, error) {
	if m.UpdatePlaylistFunc != nil {
		return m.UpdatePlaylistFunc(ctx, playlistID, update)
	}
	return &models.Playlist{ID: playlistID}, nil
}

func (m *MockCatalog) DeletePlaylist(ctx context.Context, playlistID string) error {
	if m.DeletePlaylistFunc != nil {
		return m.DeletePlaylistFunc(ctx, playlistID)
	}
	return nil
}

// MockBackend is a recording audio backend double. Calls holds the method
// names in invocation order; error fields force failures.
type MockBackend struct {
	Calls     []string
	Loaded    string
	SeekedTo  float64
	DurationV float64
	PositionV float64
	LoadErr   error
	StartErr  error
	PauseErr  error
	ResumeErr error
	SeekErr   error
}

func (m *MockBackend) Load(source string) error {
	m.Calls = append(m.Calls, "load")
	m.Loaded = source
	return m.LoadErr
}

func (m *MockBackend) Start() error {
	m.Calls = append(m.Calls, "start")
	return m.StartErr
}

func (m *MockBackend) Pause() error {
	m.Calls = append(m.Calls, "pause")
	return m.PauseErr
}

func (m *MockBackend) Resume() error {
	m.Calls = append(m.Calls, "resume")
	return m.ResumeErr
}

func (m *MockBackend) SeekTo(seconds float64) error {
	m.Calls = append(m.Calls, "seek")
	m.SeekedTo = seconds
	return m.SeekErr
}

func (m *MockBackend) Duration() float64 { return m.DurationV }
func (m *MockBackend) Position() float64 { return m.PositionV }

func (m *MockBackend) Close() error {
	m.Calls = append(m.Calls, "close")
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MustManager returns an identity manager signed in as the given account,
// backed by a throwaway credential file.
func MustManager(t *testing.T, id, username string, role identity.Role) *identity.Manager {
	t.Helper()
	store := identity.NewCredentialStore(filepath.Join(t.TempDir(), "credential.json"))
	m := identity.NewManager(store, shared.NewLogger(io.Discard))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": id, "username": username, "role": string(role),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	if _, err := m.SignIn(token); err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	return m
}

// LoggedOutManager returns an identity manager with no stored credential.
func LoggedOutManager(t *testing.T) *identity.Manager {
	t.Helper()
	store := identity.NewCredentialStore(filepath.Join(t.TempDir(), "credential.json"))
	return identity.NewManager(store, shared.NewLogger(io.Discard))
}

// MustOpenDB opens a migrated throwaway sqlite database under t.TempDir.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tunedeck_test.db")
	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}
