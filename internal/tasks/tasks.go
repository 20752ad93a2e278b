// package tasks orchestrates the multi-step catalog mutations that must keep
// the local collections consistent with the backend.
//
// The backend only supports whole-document replacement, so every song-list
// mutation is a read-modify-write: resolve the current identifier list from
// the cache, compute the new list, PUT it back, then re-fetch. Failures never
// touch the cache; the last known-good state stays visible. Operations return
// a [Result] instead of raising past the package boundary, and callers render
// the message.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/identity"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/store"
)

// Result is the structured outcome of a synchronizer operation.
type Result struct {
	OK      bool
	Message string
}

func success(format string, args ...any) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

// PendingAction is a destructive operation awaiting explicit confirmation.
// The two-step protocol (request, then confirm or cancel by token) replaces a
// blocking prompt so the flow is testable without a UI.
type PendingAction struct {
	Token       string
	Description string
}

// Engine implements the relationship synchronizer over the catalog client
// and the collection store.
type Engine struct {
	catalog services.Catalog
	store   *store.Store
	ids     *identity.Manager
	logger  *log.Logger

	mu      sync.Mutex
	pending map[string]pendingOp
}

type pendingOp struct {
	description string
	execute     func(ctx context.Context) Result
}

// NewEngine creates an Engine with the provided dependencies.
func NewEngine(catalog services.Catalog, st *store.Store, ids *identity.Manager, logger *log.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		store:   st,
		ids:     ids,
		logger:  logger,
		pending: make(map[string]pendingOp),
	}
}

// AddSongsToPlaylist unions the requested song identifiers into the target
// playlist. Adding an already-present song is a no-op, not an error. On
// success the full playlist collection is re-fetched rather than trusting the
// single updated object, because derived fields on other playlists may depend
// on global state.
func (e *Engine) AddSongsToPlaylist(ctx context.Context, playlistID string, songIDs []string) Result {
	if len(songIDs) == 0 {
		return failure("No songs selected.")
	}

	playlist, ok := e.store.PlaylistByID(playlistID)
	if !ok {
		// Stale cache: the playlist vanished between render and action.
		return failure("Playlist not found. Refresh and try again.")
	}

	existing := playlist.SongIDs()
	present := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		present[id] = struct{}{}
	}

	merged := existing
	added := 0
	for _, id := range songIDs {
		if id == "" {
			continue
		}
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		merged = append(merged, id)
		added++
	}

	if _, err := e.catalog.UpdatePlaylist(ctx, playlistID, services.PlaylistUpdate{Songs: merged}); err != nil {
		e.logger.Warn("playlist update failed", "playlist", playlistID, "err", err)
		return failure("Could not update playlist: %v", err)
	}

	e.refreshPlaylists(ctx)

	if added == 0 {
		return success("Playlist %q already contains those songs.", playlist.Name)
	}
	return success("Added %d song(s) to %q.", added, playlist.Name)
}

// RequestRemoveSongFromPlaylist stages a song removal for confirmation.
func (e *Engine) RequestRemoveSongFromPlaylist(playlistID, songID string) (*PendingAction, Result) {
	playlist, ok := e.store.PlaylistByID(playlistID)
	if !ok {
		return nil, failure("Playlist not found. Refresh and try again.")
	}
	if !playlist.ContainsSong(songID) {
		return nil, failure("That song is not in %q.", playlist.Name)
	}

	return e.stage(fmt.Sprintf("Remove song from playlist %q", playlist.Name), func(ctx context.Context) Result {
		remaining := excludeID(playlist.SongIDs(), songID)
		if _, err := e.catalog.UpdatePlaylist(ctx, playlistID, services.PlaylistUpdate{Songs: remaining}); err != nil {
			return failure("Could not update playlist: %v", err)
		}
		e.refreshPlaylists(ctx)
		return success("Removed song from %q.", playlist.Name)
	}), Result{OK: true}
}

// RequestRemoveSongFromAlbum stages a song removal from one of the artist's
// own albums for confirmation.
func (e *Engine) RequestRemoveSongFromAlbum(albumID, songID string) (*PendingAction, Result) {
	album, res := e.ownedAlbum(albumID)
	if !res.OK {
		return nil, res
	}
	if !album.ContainsSong(songID) {
		return nil, failure("That song is not on %q.", album.Name)
	}

	return e.stage(fmt.Sprintf("Remove song from album %q", album.Name), func(ctx context.Context) Result {
		remaining := excludeID(models.SongIDSet(album.Songs), songID)
		updated, err := e.catalog.UpdateAlbum(ctx, albumID, services.AlbumUpdate{Songs: &remaining})
		if err != nil {
			return failure("Could not update album: %v", err)
		}
		e.store.ReplaceAlbum(*updated)
		return success("Removed song from %q.", album.Name)
	}), Result{OK: true}
}

// RequestDeleteAlbum stages the deletion of one of the artist's own albums.
func (e *Engine) RequestDeleteAlbum(albumID string) (*PendingAction, Result) {
	album, res := e.ownedAlbum(albumID)
	if !res.OK {
		return nil, res
	}

	return e.stage(fmt.Sprintf("Delete album %q", album.Name), func(ctx context.Context) Result {
		if err := e.catalog.DeleteAlbum(ctx, albumID); err != nil {
			return failure("Could not delete album: %v", err)
		}
		e.store.RemoveAlbum(albumID)
		return success("Deleted %q.", album.Name)
	}), Result{OK: true}
}

// RequestDeletePlaylist stages the deletion of one of the listener's playlists.
func (e *Engine) RequestDeletePlaylist(playlistID string) (*PendingAction, Result) {
	playlist, ok := e.store.PlaylistByID(playlistID)
	if !ok {
		return nil, failure("Playlist not found. Refresh and try again.")
	}
	if !playlist.Owner.Is(currentID(e.ids.Current())) {
		return nil, failure("You can only delete your own playlists.")
	}

	return e.stage(fmt.Sprintf("Delete playlist %q", playlist.Name), func(ctx context.Context) Result {
		if err := e.catalog.DeletePlaylist(ctx, playlistID); err != nil {
			return failure("Could not delete playlist: %v", err)
		}
		e.store.RemovePlaylist(playlistID)
		return success("Deleted %q.", playlist.Name)
	}), Result{OK: true}
}

// Confirm executes a staged destructive action by token.
func (e *Engine) Confirm(ctx context.Context, token string) Result {
	e.mu.Lock()
	op, ok := e.pending[token]
	delete(e.pending, token)
	e.mu.Unlock()

	if !ok {
		return failure("%v", shared.ErrUnknownAction)
	}
	return op.execute(ctx)
}

// Cancel discards a staged action. Declining is a no-op, not an error.
func (e *Engine) Cancel(token string) Result {
	e.mu.Lock()
	_, ok := e.pending[token]
	delete(e.pending, token)
	e.mu.Unlock()

	if !ok {
		return failure("%v", shared.ErrUnknownAction)
	}
	return success("Cancelled.")
}

// CreatePlaylist creates an empty playlist owned by the active identity,
// optionally uploading a cover image.
func (e *Engine) CreatePlaylist(ctx context.Context, name, coverPath string) Result {
	id := e.ids.Current()
	if id == nil {
		return failure("Sign in to create playlists.")
	}
	if name == "" {
		return failure("Playlist name is required.")
	}

	var (
		created *models.Playlist
		err     error
	)
	if coverPath != "" {
		fields := map[string]string{
			"listener":      id.ID,
			"name":          name,
			"totalDuration": "0",
			"songs":         "[]",
		}
		created, err = e.catalog.CreatePlaylistUpload(ctx, fields, []services.FileUpload{{Field: "coverImg", Path: coverPath}})
	} else {
		created, err = e.catalog.CreatePlaylist(ctx, models.Playlist{
			Name:  name,
			Owner: models.UnresolvedUser(id.ID),
			Songs: []models.SongRef{},
		})
	}
	if err != nil {
		return failure("Could not create playlist: %v", err)
	}

	e.store.ReplacePlaylist(*created)
	return success("Created playlist %q.", created.Name)
}

// CreateAlbum creates an album for the active artist. When a cover image or
// song files are given the request goes up as multipart form data.
func (e *Engine) CreateAlbum(ctx context.Context, name, coverPath string, songPaths []string) Result {
	id := e.ids.Current()
	if !id.IsArtist() {
		return failure("Only artists can create albums.")
	}
	if name == "" {
		return failure("Album name is required.")
	}

	var (
		created *models.Album
		err     error
	)
	if coverPath != "" || len(songPaths) > 0 {
		fields := map[string]string{"name": name, "userId": id.ID}
		var files []services.FileUpload
		if coverPath != "" {
			files = append(files, services.FileUpload{Field: "coverImg", Path: coverPath})
		}
		for _, p := range songPaths {
			files = append(files, services.FileUpload{Field: "songs", Path: p})
		}
		created, err = e.catalog.CreateAlbumUpload(ctx, fields, files)
	} else {
		created, err = e.catalog.CreateAlbum(ctx, models.Album{
			Name:    name,
			Creator: models.UnresolvedUser(id.ID),
			Songs:   []models.SongRef{},
		})
	}
	if err != nil {
		return failure("Could not create album: %v", err)
	}

	e.store.ReplaceAlbum(*created)
	return success("Created album %q.", created.Name)
}

// RenameAlbum updates the album name on one of the artist's own albums.
func (e *Engine) RenameAlbum(ctx context.Context, albumID, name string) Result {
	if name == "" {
		return failure("Album name is required.")
	}
	album, res := e.ownedAlbum(albumID)
	if !res.OK {
		return res
	}

	updated, err := e.catalog.UpdateAlbum(ctx, albumID, services.AlbumUpdate{Name: &name})
	if err != nil {
		return failure("Could not update album: %v", err)
	}
	e.store.ReplaceAlbum(*updated)
	return success("Renamed %q to %q.", album.Name, updated.Name)
}

// MyAlbums is the artist-only ownership-gated album view. The role check
// runs on every call, not cached, because the identity can change
// mid-session (sign-out, credential file overwritten by another process).
func (e *Engine) MyAlbums() ([]models.Album, Result) {
	id := e.ids.Current()
	if !id.IsArtist() {
		return nil, failure("Only artists have albums.")
	}
	return store.FilterOwnedAlbums(e.store.Albums(), id), Result{OK: true}
}

// MyPlaylists is the ownership-filtered playlist view.
func (e *Engine) MyPlaylists() []models.Playlist {
	return e.store.OwnedPlaylists()
}

// stage registers a pending destructive action under a fresh token.
func (e *Engine) stage(description string, execute func(ctx context.Context) Result) *PendingAction {
	token := shared.GenerateID()
	e.mu.Lock()
	e.pending[token] = pendingOp{description: description, execute: execute}
	e.mu.Unlock()
	return &PendingAction{Token: token, Description: description}
}

// refreshPlaylists re-fetches the full playlist collection after a confirmed
// mutation. A failed refresh keeps the stale cache; the mutation already
// succeeded so the operation still reports success.
func (e *Engine) refreshPlaylists(ctx context.Context) {
	playlists, err := e.catalog.ListPlaylists(ctx)
	if err != nil {
		e.logger.Warn("playlist refetch failed, cache may be stale", "err", err)
		return
	}
	e.store.ReplacePlaylists(playlists)
}

// ownedAlbum fetches an album from the cache and checks it belongs to the
// active artist.
func (e *Engine) ownedAlbum(albumID string) (models.Album, Result) {
	id := e.ids.Current()
	if !id.IsArtist() {
		return models.Album{}, failure("Only artists can modify albums.")
	}
	album, ok := e.store.AlbumByID(albumID)
	if !ok {
		return models.Album{}, failure("Album not found. Refresh and try again.")
	}
	if !album.Creator.Is(id.ID) {
		return models.Album{}, failure("You can only modify your own albums.")
	}
	return album, Result{OK: true}
}

func excludeID(ids []string, drop string) []string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			kept = append(kept, id)
		}
	}
	return kept
}

func currentID(id *identity.Identity) string {
	if id == nil {
		return ""
	}
	return id.ID
}
