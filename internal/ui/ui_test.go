package ui

import (
	"context"
	"io"
	"testing"

	"github.com/tunedeck/tunedeck/internal/identity"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/store"
	"github.com/tunedeck/tunedeck/internal/tasks"
	tunedecktest "github.com/tunedeck/tunedeck/internal/testing"
)

func testModel(t *testing.T) (*Model, *store.Store) {
	t.Helper()
	catalog := &tunedecktest.MockCatalog{}
	ids := tunedecktest.MustManager(t, "u1", "ana", identity.RoleListener)
	logger := shared.NewLogger(io.Discard)
	st := store.New(catalog, ids, logger)
	engine := tasks.NewEngine(catalog, st, ids, logger)
	return NewModel(context.Background(), st, engine, nil), st
}

func TestOpenPlaylist(t *testing.T) {
	t.Run("resolves bare song ids against the album cache", func(t *testing.T) {
		m, st := testModel(t)
		st.ReplaceAlbum(models.Album{ID: "a1", Songs: []models.SongRef{
			models.ResolvedSong(models.Song{ID: "s1", Name: "One", Duration: 100}),
		}})

		m.openPlaylist(models.Playlist{ID: "p1", Name: "Mix", Songs: []models.SongRef{
			models.UnresolvedSong("s1"),
			models.UnresolvedSong("ghost"),
		}})

		if m.view != PlaylistDetailView {
			t.Errorf("view = %v, want PlaylistDetailView", m.view)
		}
		items := m.songList.Items()
		if len(items) != 1 {
			t.Fatalf("song list = %d items, want 1", len(items))
		}
		song, ok := items[0].(songItem)
		if !ok || song.song.ID != "s1" {
			t.Errorf("items[0] = %+v, want song s1", items[0])
		}
	})

	t.Run("unresolvable ids stay excluded", func(t *testing.T) {
		m, _ := testModel(t)

		m.openPlaylist(models.Playlist{ID: "p1", Name: "Mix", Songs: []models.SongRef{
			models.UnresolvedSong("ghost"),
		}})

		if items := m.songList.Items(); len(items) != 0 {
			t.Errorf("song list = %d items, want none for unresolvable refs", len(items))
		}
	})
}
