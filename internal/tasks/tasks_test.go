package tasks

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tunedeck/tunedeck/internal/identity"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/store"
	tunedecktest "github.com/tunedeck/tunedeck/internal/testing"
)

func testEngine(t *testing.T, catalog *tunedecktest.MockCatalog, role identity.Role) (*Engine, *store.Store) {
	t.Helper()
	ids := tunedecktest.MustManager(t, "u1", "ana", role)
	logger := shared.NewLogger(io.Discard)
	st := store.New(catalog, ids, logger)
	return NewEngine(catalog, st, ids, logger), st
}

func TestAddSongsToPlaylist(t *testing.T) {
	t.Run("empty selection", func(t *testing.T) {
		engine, _ := testEngine(t, &tunedecktest.MockCatalog{}, identity.RoleListener)
		res := engine.AddSongsToPlaylist(context.Background(), "p1", nil)
		if res.OK {
			t.Error("expected failure for empty selection")
		}
	})

	t.Run("unknown playlist", func(t *testing.T) {
		engine, _ := testEngine(t, &tunedecktest.MockCatalog{}, identity.RoleListener)
		res := engine.AddSongsToPlaylist(context.Background(), "ghost", []string{"s1"})
		if res.OK || !strings.Contains(res.Message, "not found") {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("unions in order and refetches", func(t *testing.T) {
		var sentSongs []string
		refetched := false
		catalog := &tunedecktest.MockCatalog{
			UpdatePlaylistFunc: func(ctx context.Context, playlistID string, update services.PlaylistUpdate) (*models.Playlist, error) {
				sentSongs = update.Songs
				return &models.Playlist{ID: playlistID}, nil
			},
			ListPlaylistsFunc: func(ctx context.Context) ([]models.Playlist, error) {
				refetched = true
				return []models.Playlist{{ID: "p1", Name: "Mix", Songs: []models.SongRef{
					models.ResolvedSong(models.Song{ID: "s1", Duration: 100}),
					models.ResolvedSong(models.Song{ID: "s2", Duration: 120}),
				}}}, nil
			},
		}
		engine, st := testEngine(t, catalog, identity.RoleListener)
		st.ReplacePlaylist(models.Playlist{ID: "p1", Name: "Mix", Songs: []models.SongRef{
			models.UnresolvedSong("s1"),
		}})

		res := engine.AddSongsToPlaylist(context.Background(), "p1", []string{"s2", "s1"})
		if !res.OK {
			t.Fatalf("result = %+v", res)
		}
		if len(sentSongs) != 2 || sentSongs[0] != "s1" || sentSongs[1] != "s2" {
			t.Errorf("update payload = %v, want existing order then new", sentSongs)
		}
		if !refetched {
			t.Error("playlist collection not refetched after update")
		}

		// The refetched playlist drives the recomputed duration.
		playlist, ok := st.PlaylistByID("p1")
		if !ok {
			t.Fatal("playlist missing after refetch")
		}
		if got := playlist.TotalDuration(); got != 220 {
			t.Errorf("TotalDuration() = %d, want 220", got)
		}
	})

	t.Run("all already present is a quiet success", func(t *testing.T) {
		catalog := &tunedecktest.MockCatalog{
			ListPlaylistsFunc: func(ctx context.Context) ([]models.Playlist, error) {
				return nil, errors.New("refetch skipped in this test")
			},
		}
		engine, st := testEngine(t, catalog, identity.RoleListener)
		st.ReplacePlaylist(models.Playlist{ID: "p1", Name: "Mix", Songs: []models.SongRef{
			models.UnresolvedSong("s1"),
		}})

		res := engine.AddSongsToPlaylist(context.Background(), "p1", []string{"s1"})
		if !res.OK || !strings.Contains(res.Message, "already contains") {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("backend failure leaves cache alone", func(t *testing.T) {
		catalog := &tunedecktest.MockCatalog{
			UpdatePlaylistFunc: func(ctx context.Context, playlistID string, update services.PlaylistUpdate) (*models.Playlist, error) {
				return nil, errors.New("backend down")
			},
		}
		engine, st := testEngine(t, catalog, identity.RoleListener)
		st.ReplacePlaylist(models.Playlist{ID: "p1", Name: "Mix", Songs: []models.SongRef{
			models.UnresolvedSong("s1"),
		}})

		res := engine.AddSongsToPlaylist(context.Background(), "p1", []string{"s2"})
		if res.OK {
			t.Fatal("expected failure")
		}
		playlist, _ := st.PlaylistByID("p1")
		if len(playlist.Songs) != 1 {
			t.Errorf("cache mutated on failure: %v", playlist.SongIDs())
		}
	})
}

func TestConfirmationProtocol(t *testing.T) {
	newEngineWithPlaylist := func(t *testing.T, deleted *bool) (*Engine, *store.Store) {
		catalog := &tunedecktest.MockCatalog{
			DeletePlaylistFunc: func(ctx context.Context, playlistID string) error {
				*deleted = true
				return nil
			},
		}
		engine, st := testEngine(t, catalog, identity.RoleListener)
		st.ReplacePlaylist(models.Playlist{ID: "p1", Name: "Mix", Owner: models.UnresolvedUser("u1")})
		return engine, st
	}

	t.Run("confirm executes", func(t *testing.T) {
		deleted := false
		engine, st := newEngineWithPlaylist(t, &deleted)

		pending, res := engine.RequestDeletePlaylist("p1")
		if pending == nil {
			t.Fatalf("stage failed: %+v", res)
		}
		if deleted {
			t.Fatal("staged action executed before confirmation")
		}

		res = engine.Confirm(context.Background(), pending.Token)
		if !res.OK || !deleted {
			t.Errorf("confirm result = %+v, deleted = %v", res, deleted)
		}
		if _, ok := st.PlaylistByID("p1"); ok {
			t.Error("playlist still cached after confirmed delete")
		}
	})

	t.Run("cancel discards", func(t *testing.T) {
		deleted := false
		engine, st := newEngineWithPlaylist(t, &deleted)

		pending, _ := engine.RequestDeletePlaylist("p1")
		res := engine.Cancel(pending.Token)
		if !res.OK || deleted {
			t.Errorf("cancel result = %+v, deleted = %v", res, deleted)
		}
		if _, ok := st.PlaylistByID("p1"); !ok {
			t.Error("playlist removed despite cancel")
		}

		// The token is single-use.
		if res := engine.Confirm(context.Background(), pending.Token); res.OK {
			t.Error("confirm succeeded after cancel")
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		engine, _ := testEngine(t, &tunedecktest.MockCatalog{}, identity.RoleListener)
		if res := engine.Confirm(context.Background(), "nope"); res.OK {
			t.Error("confirm succeeded for unknown token")
		}
		if res := engine.Cancel("nope"); res.OK {
			t.Error("cancel succeeded for unknown token")
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		deleted := false
		engine, st := newEngineWithPlaylist(t, &deleted)
		st.ReplacePlaylist(models.Playlist{ID: "p2", Name: "Other", Owner: models.UnresolvedUser("u9")})

		pending, res := engine.RequestDeletePlaylist("p2")
		if pending != nil || res.OK {
			t.Errorf("staging allowed for foreign playlist: %+v", res)
		}
	})
}

func TestRemoveSongFromAlbum(t *testing.T) {
	t.Run("listener blocked", func(t *testing.T) {
		engine, st := testEngine(t, &tunedecktest.MockCatalog{}, identity.RoleListener)
		st.ReplaceAlbum(models.Album{ID: "a1", Creator: models.UnresolvedUser("u1"), Songs: []models.SongRef{models.UnresolvedSong("s1")}})

		pending, res := engine.RequestRemoveSongFromAlbum("a1", "s1")
		if pending != nil || res.OK {
			t.Errorf("listener staged an album mutation: %+v", res)
		}
	})

	t.Run("artist removes own song", func(t *testing.T) {
		var sentSongs []string
		catalog := &tunedecktest.MockCatalog{
			UpdateAlbumFunc: func(ctx context.Context, albumID string, update services.AlbumUpdate) (*models.Album, error) {
				if update.Songs != nil {
					sentSongs = *update.Songs
				}
				return &models.Album{ID: albumID, Name: "Mine", Creator: models.UnresolvedUser("u1"), Songs: []models.SongRef{
					models.UnresolvedSong("s2"),
				}}, nil
			},
		}
		engine, st := testEngine(t, catalog, identity.RoleArtist)
		st.ReplaceAlbum(models.Album{ID: "a1", Name: "Mine", Creator: models.UnresolvedUser("u1"), Songs: []models.SongRef{
			models.UnresolvedSong("s1"),
			models.UnresolvedSong("s2"),
		}})

		pending, res := engine.RequestRemoveSongFromAlbum("a1", "s1")
		if pending == nil {
			t.Fatalf("stage failed: %+v", res)
		}
		res = engine.Confirm(context.Background(), pending.Token)
		if !res.OK {
			t.Fatalf("confirm result = %+v", res)
		}
		if len(sentSongs) != 1 || sentSongs[0] != "s2" {
			t.Errorf("update payload = %v, want [s2]", sentSongs)
		}

		album, _ := st.AlbumByID("a1")
		if album.ContainsSong("s1") {
			t.Error("removed song still cached")
		}
	})

	t.Run("removing the only song sends an explicit empty list", func(t *testing.T) {
		var sentSongs *[]string
		catalog := &tunedecktest.MockCatalog{
			UpdateAlbumFunc: func(ctx context.Context, albumID string, update services.AlbumUpdate) (*models.Album, error) {
				sentSongs = update.Songs
				return &models.Album{ID: albumID, Name: "Mine", Creator: models.UnresolvedUser("u1"), Songs: []models.SongRef{}}, nil
			},
		}
		engine, st := testEngine(t, catalog, identity.RoleArtist)
		st.ReplaceAlbum(models.Album{ID: "a1", Name: "Mine", Creator: models.UnresolvedUser("u1"), Songs: []models.SongRef{
			models.UnresolvedSong("s1"),
		}})

		pending, res := engine.RequestRemoveSongFromAlbum("a1", "s1")
		if pending == nil {
			t.Fatalf("stage failed: %+v", res)
		}
		if res := engine.Confirm(context.Background(), pending.Token); !res.OK {
			t.Fatalf("confirm result = %+v", res)
		}
		// The replacement list must be present even when empty, or the
		// backend keeps the old songs.
		if sentSongs == nil {
			t.Fatal("update did not carry a songs list")
		}
		if len(*sentSongs) != 0 {
			t.Errorf("update payload = %v, want empty list", *sentSongs)
		}

		album, _ := st.AlbumByID("a1")
		if album.ContainsSong("s1") {
			t.Error("removed song still cached")
		}
	})

	t.Run("foreign album blocked", func(t *testing.T) {
		engine, st := testEngine(t, &tunedecktest.MockCatalog{}, identity.RoleArtist)
		st.ReplaceAlbum(models.Album{ID: "a1", Creator: models.UnresolvedUser("u9"), Songs: []models.SongRef{models.UnresolvedSong("s1")}})

		pending, res := engine.RequestRemoveSongFromAlbum("a1", "s1")
		if pending != nil || res.OK {
			t.Errorf("foreign album staged: %+v", res)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	t.Run("owner stamped from identity", func(t *testing.T) {
		var created models.Playlist
		catalog := &tunedecktest.MockCatalog{
			CreatePlaylistFunc: func(ctx context.Context, playlist models.Playlist) (*models.Playlist, error) {
				created = playlist
				playlist.ID = "p-new"
				return &playlist, nil
			},
		}
		engine, st := testEngine(t, catalog, identity.RoleListener)

		res := engine.CreatePlaylist(context.Background(), "Road Trip", "")
		if !res.OK {
			t.Fatalf("result = %+v", res)
		}
		if !created.Owner.Is("u1") {
			t.Error("owner not stamped from identity")
		}
		if len(created.Songs) != 0 {
			t.Errorf("new playlist songs = %v, want empty", created.Songs)
		}
		if _, ok := st.PlaylistByID("p-new"); !ok {
			t.Error("created playlist not cached")
		}
	})

	t.Run("name required", func(t *testing.T) {
		engine, _ := testEngine(t, &tunedecktest.MockCatalog{}, identity.RoleListener)
		if res := engine.CreatePlaylist(context.Background(), "", ""); res.OK {
			t.Error("empty name accepted")
		}
	})
}

func TestMyAlbums(t *testing.T) {
	t.Run("listener blocked", func(t *testing.T) {
		engine, _ := testEngine(t, &tunedecktest.MockCatalog{}, identity.RoleListener)
		if _, res := engine.MyAlbums(); res.OK {
			t.Error("listener allowed into artist view")
		}
	})

	t.Run("artist sees only own", func(t *testing.T) {
		engine, st := testEngine(t, &tunedecktest.MockCatalog{}, identity.RoleArtist)
		st.ReplaceAlbum(models.Album{ID: "a1", Creator: models.UnresolvedUser("u1")})
		st.ReplaceAlbum(models.Album{ID: "a2", Creator: models.UnresolvedUser("u9")})

		albums, res := engine.MyAlbums()
		if !res.OK || len(albums) != 1 || albums[0].ID != "a1" {
			t.Errorf("albums = %v, res = %+v", albums, res)
		}
	})
}

func TestRenameAlbum(t *testing.T) {
	catalog := &tunedecktest.MockCatalog{
		UpdateAlbumFunc: func(ctx context.Context, albumID string, update services.AlbumUpdate) (*models.Album, error) {
			if update.Name == nil {
				t.Error("name not sent")
			}
			return &models.Album{ID: albumID, Name: *update.Name, Creator: models.UnresolvedUser("u1")}, nil
		},
	}
	engine, st := testEngine(t, catalog, identity.RoleArtist)
	st.ReplaceAlbum(models.Album{ID: "a1", Name: "Old", Creator: models.UnresolvedUser("u1")})

	res := engine.RenameAlbum(context.Background(), "a1", "New")
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}
	album, _ := st.AlbumByID("a1")
	if album.Name != "New" {
		t.Errorf("cached name = %v", album.Name)
	}
}
