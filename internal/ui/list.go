package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

var (
	_ list.Item = albumItem{}
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album models.Album
}

func (i albumItem) FilterValue() string { return i.album.Name }
func (i albumItem) Title() string       { return i.album.Name }
func (i albumItem) Description() string {
	desc := fmt.Sprintf("%d songs • %s", len(i.album.Songs), shared.FormatDuration(i.album.TotalDuration()))
	if creator, ok := i.album.Creator.User(); ok && creator.Username != "" {
		desc = fmt.Sprintf("%s • %s", creator.Username, desc)
	}
	return desc
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	// Duration is always recomputed from the songs; the stored field drifts.
	return fmt.Sprintf("%d songs • %s", len(i.playlist.Songs), shared.FormatDuration(i.playlist.TotalDuration()))
}

// songItem wraps [models.Song] to implement [list.Item]. Only resolved songs
// become items; unresolved references have nothing to display.
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Name }
func (i songItem) Title() string       { return i.song.Name }
func (i songItem) Description() string {
	desc := shared.FormatDuration(i.song.Seconds())
	if name, ok := i.song.ArtistName(); ok {
		desc = fmt.Sprintf("%s • %s", name, desc)
	}
	return desc
}
