package models

// User represents a catalog account (listener or artist).
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Song represents a single track. The audio location historically moved
// between three field names; [Song.Source] resolves them in order.
type Song struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Duration int      `json:"duration,omitempty"`
	CoverImg string   `json:"coverImg,omitempty"`
	Artist   UserRef  `json:"artist,omitzero"`
	Album    AlbumRef `json:"album,omitzero"`
	AudioURL string   `json:"audioUrl,omitempty"`
	File     string   `json:"file,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// Source returns the playable audio location, or "" when the song has none.
func (s Song) Source() string {
	switch {
	case s.AudioURL != "":
		return s.AudioURL
	case s.File != "":
		return s.File
	default:
		return s.URL
	}
}

// Seconds returns the song duration clamped to a non-negative number.
// Absent or negative durations count as zero.
func (s Song) Seconds() int {
	if s.Duration < 0 {
		return 0
	}
	return s.Duration
}

// ArtistName returns the artist's username when the artist reference is a
// populated object. A bare identifier is never surfaced as a display name.
func (s Song) ArtistName() (string, bool) {
	if u, ok := s.Artist.User(); ok && u.Username != "" {
		return u.Username, true
	}
	return "", false
}

// Album represents an artist's album. Song order reflects upload order and is
// preserved by every store operation. The creator is immutable after creation.
type Album struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	CoverImg string    `json:"coverImg,omitempty"`
	Creator  UserRef   `json:"userId,omitzero"`
	Songs    []SongRef `json:"songs"`
}

// ContainsSong reports whether the album references the given song id in
// either shape.
func (a Album) ContainsSong(songID string) bool {
	for _, ref := range a.Songs {
		if ref.ID() == songID {
			return true
		}
	}
	return false
}

// SongByID returns the populated song with the given id, if present and resolved.
func (a Album) SongByID(songID string) (Song, bool) {
	for _, ref := range a.Songs {
		if ref.ID() == songID {
			return ref.Song()
		}
	}
	return Song{}, false
}

// ResolvedSongs returns the album's populated songs in order, excluding
// unresolved references.
func (a Album) ResolvedSongs() []Song {
	return ResolveAll(a.Songs, nil)
}

// TotalDuration sums the durations of the album's resolved songs.
func (a Album) TotalDuration() int {
	total := 0
	for _, s := range a.ResolvedSongs() {
		total += s.Seconds()
	}
	return total
}

// Playlist represents a listener's playlist.
//
// StoredDuration is the backend's persisted totalDuration field. It can
// legitimately diverge from the constituent songs after an unsynchronized
// edit, so readers always recompute via [Playlist.TotalDuration] instead.
type Playlist struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	CoverImg       string    `json:"coverImg,omitempty"`
	Owner          UserRef   `json:"listener,omitzero"`
	Songs          []SongRef `json:"songs"`
	StoredDuration int       `json:"totalDuration,omitempty"`
}

// SongIDs returns the playlist's song identifiers in order, de-duplicated.
func (p Playlist) SongIDs() []string {
	return SongIDSet(p.Songs)
}

// ContainsSong reports whether the playlist references the given song id.
func (p Playlist) ContainsSong(songID string) bool {
	for _, ref := range p.Songs {
		if ref.ID() == songID {
			return true
		}
	}
	return false
}

// ResolvedSongs returns the playlist's populated songs in order, excluding
// unresolved references.
func (p Playlist) ResolvedSongs() []Song {
	return ResolveAll(p.Songs, nil)
}

// TotalDuration recomputes the playlist duration from its resolved songs.
func (p Playlist) TotalDuration() int {
	total := 0
	for _, s := range p.ResolvedSongs() {
		total += s.Seconds()
	}
	return total
}

// SongLookup builds a song lookup table from every resolved song across the
// given albums, for resolving bare references elsewhere.
func SongLookup(albums []Album) map[string]Song {
	lookup := make(map[string]Song)
	for _, album := range albums {
		for _, ref := range album.Songs {
			if s, ok := ref.Song(); ok {
				lookup[s.ID] = s
			}
		}
	}
	return lookup
}
