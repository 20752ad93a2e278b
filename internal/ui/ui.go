package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/player"
	"github.com/tunedeck/tunedeck/internal/store"
	"github.com/tunedeck/tunedeck/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AlbumListView ViewState = iota
	AlbumDetailView
	PlaylistListView
	PlaylistDetailView
	ConfirmView
)

// statusTTL is how long the transient status banner stays up.
const statusTTL = 4 * time.Second

type libraryLoadedMsg struct {
	err error
}

type actionDoneMsg struct {
	result tasks.Result
}

type clearStatusMsg struct{}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	prev    ViewState
	store   *store.Store
	engine  *tasks.Engine
	session *player.Session

	width  int
	height int

	albumList    list.Model
	playlistList list.Model
	songList     list.Model

	currentAlbum    models.Album
	currentPlaylist models.Playlist

	pending *tasks.PendingAction

	status  string
	errText string

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, st *store.Store, engine *tasks.Engine, session *player.Session) *Model {
	m := &Model{
		ctx:     ctx,
		view:    AlbumListView,
		store:   st,
		engine:  engine,
		session: session,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.albumList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.albumList.Title = "Albums"
	m.playlistList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.playlistList.Title = "My Playlists"
	m.songList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	return m
}

// Init loads the catalog into the collection store.
func (m *Model) Init() tea.Cmd {
	return m.loadLibrary()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.albumList.SetSize(msg.Width-4, msg.Height-8)
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AlbumListView:
			return m.handleAlbumListKeys(msg)
		case AlbumDetailView:
			return m.handleAlbumDetailKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case PlaylistDetailView:
			return m.handlePlaylistDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case libraryLoadedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.rebuildLists()
		m.refreshDetail()
		return m, m.flashStatus("Library refreshed.")

	case actionDoneMsg:
		if !msg.result.OK {
			m.errText = msg.result.Message
			return m, nil
		}
		m.errText = ""
		m.rebuildLists()
		m.refreshDetail()
		return m, m.flashStatus(msg.result.Message)

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case AlbumListView:
		body = m.renderList(&m.albumList, []key.Binding{m.keys.enter, m.keys.tab, m.keys.delete, m.keys.refresh, m.keys.quit})
	case AlbumDetailView:
		body = m.renderList(&m.songList, []key.Binding{m.keys.play, m.keys.remove, m.keys.back, m.keys.quit})
	case PlaylistListView:
		body = m.renderList(&m.playlistList, []key.Binding{m.keys.enter, m.keys.tab, m.keys.delete, m.keys.refresh, m.keys.quit})
	case PlaylistDetailView:
		body = m.renderList(&m.songList, []key.Binding{m.keys.play, m.keys.remove, m.keys.back, m.keys.quit})
	case ConfirmView:
		body = m.renderConfirm()
	}

	return fmt.Sprintf("%s%s", body, m.renderBanners())
}

func (m *Model) handleAlbumListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.view = PlaylistListView
		return m, nil
	case "r":
		return m, m.loadLibrary()
	case "enter":
		if item, ok := m.albumList.SelectedItem().(albumItem); ok {
			m.openAlbum(item.album)
		}
		return m, nil
	case "d":
		if item, ok := m.albumList.SelectedItem().(albumItem); ok {
			return m, m.requestConfirm(m.engine.RequestDeleteAlbum(item.album.ID))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.albumList, cmd = m.albumList.Update(msg)
	return m, cmd
}

func (m *Model) handleAlbumDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = AlbumListView
		return m, nil
	case " ", "enter":
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			return m, m.playSong(item.song)
		}
		return m, nil
	case "x":
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			return m, m.requestConfirm(m.engine.RequestRemoveSongFromAlbum(m.currentAlbum.ID, item.song.ID))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.view = AlbumListView
		return m, nil
	case "r":
		return m, m.loadLibrary()
	case "enter":
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.openPlaylist(item.playlist)
		}
		return m, nil
	case "d":
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.requestConfirm(m.engine.RequestDeletePlaylist(item.playlist.ID))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case " ", "enter":
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			return m, m.playSong(item.song)
		}
		return m, nil
	case "x":
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			return m, m.requestConfirm(m.engine.RequestRemoveSongFromPlaylist(m.currentPlaylist.ID, item.song.ID))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "y":
		pending := m.pending
		m.pending = nil
		m.view = m.prev
		return m, func() tea.Msg {
			return actionDoneMsg{result: m.engine.Confirm(m.ctx, pending.Token)}
		}
	case "n", "esc":
		result := m.engine.Cancel(m.pending.Token)
		m.pending = nil
		m.view = m.prev
		m.errText = ""
		return m, m.flashStatus(result.Message)
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case AlbumListView:
		m.albumList, cmd = m.albumList.Update(msg)
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case AlbumDetailView, PlaylistDetailView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		return libraryLoadedMsg{err: m.store.LoadAll(m.ctx)}
	}
}

// playSong drives the playback toggle and reports the transition.
func (m *Model) playSong(song models.Song) tea.Cmd {
	if err := m.session.Play(song); err != nil {
		m.errText = err.Error()
		return nil
	}
	m.errText = ""
	if now, ok := m.session.Current(); ok {
		return m.flashStatus(fmt.Sprintf("Playing %s — %s", now.Song.Name, now.Artist))
	}
	return m.flashStatus("Stopped.")
}

// requestConfirm routes a staged destructive action into the confirm view, or
// surfaces the staging failure.
func (m *Model) requestConfirm(pending *tasks.PendingAction, res tasks.Result) tea.Cmd {
	if pending == nil {
		m.errText = res.Message
		return nil
	}
	m.pending = pending
	m.prev = m.view
	m.view = ConfirmView
	return nil
}

func (m *Model) openAlbum(album models.Album) {
	m.currentAlbum = album
	m.session.ViewAlbum(album.ID)
	m.songList.Title = album.Name
	m.setSongs(album.ResolvedSongs())
	m.view = AlbumDetailView
}

func (m *Model) openPlaylist(playlist models.Playlist) {
	m.currentPlaylist = playlist
	m.songList.Title = playlist.Name
	// Playlists often carry bare song ids; resolve them against the album cache.
	m.setSongs(models.ResolveAll(playlist.Songs, m.store.SongLookup()))
	m.view = PlaylistDetailView
}

func (m *Model) setSongs(songs []models.Song) {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	m.songList.SetItems(items)
	m.songList.SetSize(m.width-4, m.height-8)
}

// rebuildLists refreshes both top-level lists from the collection store.
func (m *Model) rebuildLists() {
	albums := m.store.Albums()
	albumItems := make([]list.Item, len(albums))
	for i, a := range albums {
		albumItems[i] = albumItem{album: a}
	}
	m.albumList.SetItems(albumItems)

	playlists := m.engine.MyPlaylists()
	playlistItems := make([]list.Item, len(playlists))
	for i, p := range playlists {
		playlistItems[i] = playlistItem{playlist: p}
	}
	m.playlistList.SetItems(playlistItems)
}

// refreshDetail re-resolves the open detail view against the store. A deleted
// entity pops back to its list view.
func (m *Model) refreshDetail() {
	switch m.view {
	case AlbumDetailView:
		album, ok := m.store.AlbumByID(m.currentAlbum.ID)
		if !ok {
			m.view = AlbumListView
			return
		}
		m.currentAlbum = album
		m.setSongs(album.ResolvedSongs())
	case PlaylistDetailView:
		playlist, ok := m.store.PlaylistByID(m.currentPlaylist.ID)
		if !ok {
			m.view = PlaylistListView
			return
		}
		m.currentPlaylist = playlist
		m.setSongs(models.ResolveAll(playlist.Songs, m.store.SongLookup()))
	}
}

func (m *Model) flashStatus(text string) tea.Cmd {
	m.status = text
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) renderList(l *list.Model, helpKeys []key.Binding) string {
	return fmt.Sprintf("%s\n\n%s", l.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(m.pending.Description)
	warn := styles.warn.Render("This cannot be undone.")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, warn, helpView)
}

// renderBanners appends the now-playing line, transient status, and the
// persistent error, whichever are active.
func (m *Model) renderBanners() string {
	var out string
	if now, ok := m.session.Current(); ok {
		out += "\n" + styles.ok.Render(fmt.Sprintf("▶ %s — %s", now.Song.Name, now.Artist))
	}
	if m.status != "" {
		out += "\n" + styles.ok.Render(m.status)
	}
	if m.errText != "" {
		out += "\n" + styles.err.Render("Error: "+m.errText)
	}
	return out
}
