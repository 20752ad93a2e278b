// package store holds the per-session in-memory album and playlist caches.
//
// The store exclusively owns the backing slices. Consumers get copies and
// request replacements; nothing outside this package mutates the cache.
// Overlapping writes from concurrent operations are resolved as "last full
// refresh wins": there is no optimistic concurrency control, by contract
// with the replace-only backend.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/identity"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Store caches the session's albums and playlists.
type Store struct {
	mu        sync.RWMutex
	albums    []models.Album
	playlists []models.Playlist
	loaded    bool

	catalog services.Catalog
	ids     *identity.Manager
	logger  *log.Logger
}

// New creates an empty Store reading through the given catalog.
func New(catalog services.Catalog, ids *identity.Manager, logger *log.Logger) *Store {
	return &Store{catalog: catalog, ids: ids, logger: logger}
}

// LoadAll refreshes both collections from the backend.
//
// When no identity is active both caches are cleared and ErrNotAuthenticated
// wrapped. The two fetches run in parallel and commit together: if either
// fails, neither replaces the previous cache and the single error is
// returned for the caller to surface.
func (s *Store) LoadAll(ctx context.Context) error {
	if s.ids.Current() == nil {
		s.Clear()
		return fmt.Errorf("cannot load catalog: %w", shared.ErrNotAuthenticated)
	}

	var (
		albums    []models.Album
		playlists []models.Playlist
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if albums, err = s.catalog.ListAlbums(gctx); err != nil {
			return fmt.Errorf("album fetch: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if playlists, err = s.catalog.ListPlaylists(gctx); err != nil {
			return fmt.Errorf("playlist fetch: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("catalog refresh failed, keeping previous cache", "err", err)
		return err
	}

	s.mu.Lock()
	s.albums = albums
	s.playlists = playlists
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("catalog refreshed", "albums", len(albums), "playlists", len(playlists))
	return nil
}

// Clear empties both collections (sign-out path).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.albums = nil
	s.playlists = nil
	s.loaded = false
}

// Loaded reports whether a full refresh has committed this session.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Albums returns a copy of the cached album collection, in load order.
func (s *Store) Albums() []models.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Album, len(s.albums))
	copy(out, s.albums)
	return out
}

// Playlists returns a copy of the cached playlist collection, in load order.
func (s *Store) Playlists() []models.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out
}

// AlbumByID returns the cached album with the given id.
func (s *Store) AlbumByID(id string) (models.Album, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.albums {
		if a.ID == id {
			return a, true
		}
	}
	return models.Album{}, false
}

// PlaylistByID returns the cached playlist with the given id.
func (s *Store) PlaylistByID(id string) (models.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.playlists {
		if p.ID == id {
			return p, true
		}
	}
	return models.Playlist{}, false
}

// ReplaceAlbum swaps in the canonical server object after a create or update,
// preserving the album's position when it already exists and appending
// otherwise.
func (s *Store) ReplaceAlbum(album models.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.albums {
		if a.ID == album.ID {
			s.albums[i] = album
			return
		}
	}
	s.albums = append(s.albums, album)
}

// ReplacePlaylist swaps in the canonical server object, position-preserving.
func (s *Store) ReplacePlaylist(playlist models.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.playlists {
		if p.ID == playlist.ID {
			s.playlists[i] = playlist
			return
		}
	}
	s.playlists = append(s.playlists, playlist)
}

// ReplacePlaylists replaces the whole playlist collection (post-mutation
// refetch path).
func (s *Store) ReplacePlaylists(playlists []models.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = playlists
}

// RemoveAlbum drops an album from the cache after a confirmed deletion.
func (s *Store) RemoveAlbum(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.albums {
		if a.ID == id {
			s.albums = append(s.albums[:i], s.albums[i+1:]...)
			return
		}
	}
}

// RemovePlaylist drops a playlist from the cache after a confirmed deletion.
func (s *Store) RemovePlaylist(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.playlists {
		if p.ID == id {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
			return
		}
	}
}

// SongLookup builds a lookup table of every resolved song in the album cache.
func (s *Store) SongLookup() map[string]models.Song {
	return models.SongLookup(s.Albums())
}

// FilterOwnedPlaylists returns only the playlists owned by the given
// identity, comparing owner references in either shape. Nil identities and
// absent owners match nothing and never panic.
func FilterOwnedPlaylists(playlists []models.Playlist, id *identity.Identity) []models.Playlist {
	if id == nil {
		return nil
	}
	owned := make([]models.Playlist, 0, len(playlists))
	for _, p := range playlists {
		if p.Owner.Is(id.ID) {
			owned = append(owned, p)
		}
	}
	return owned
}

// FilterOwnedAlbums returns only the albums created by the given identity.
func FilterOwnedAlbums(albums []models.Album, id *identity.Identity) []models.Album {
	if id == nil {
		return nil
	}
	owned := make([]models.Album, 0, len(albums))
	for _, a := range albums {
		if a.Creator.Is(id.ID) {
			owned = append(owned, a)
		}
	}
	return owned
}

// OwnedPlaylists filters the cached playlists by the active identity.
func (s *Store) OwnedPlaylists() []models.Playlist {
	return FilterOwnedPlaylists(s.Playlists(), s.ids.Current())
}

// OwnedAlbums filters the cached albums by the active identity.
func (s *Store) OwnedAlbums() []models.Album {
	return FilterOwnedAlbums(s.Albums(), s.ids.Current())
}
