package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SongRef is a reference to a song that is either unresolved (bare identifier)
// or resolved (populated [Song]). The zero value is an empty unresolved ref.
type SongRef struct {
	id   string
	song *Song
}

// UnresolvedSong creates a SongRef carrying only an identifier.
func UnresolvedSong(id string) SongRef {
	return SongRef{id: id}
}

// ResolvedSong creates a SongRef carrying a populated song.
func ResolvedSong(s Song) SongRef {
	return SongRef{id: s.ID, song: &s}
}

// ID returns the referenced song identifier regardless of shape.
func (r SongRef) ID() string {
	if r.song != nil {
		return r.song.ID
	}
	return r.id
}

// Resolved reports whether the reference carries a populated song.
func (r SongRef) Resolved() bool { return r.song != nil }

// Song returns the populated song and true, or the zero Song and false for an
// unresolved reference. It never fabricates data from a bare identifier.
func (r SongRef) Song() (Song, bool) {
	if r.song == nil {
		return Song{}, false
	}
	return *r.song, true
}

// Resolve upgrades an unresolved reference using the lookup table. Returns
// true if the reference is resolved afterwards.
func (r *SongRef) Resolve(lookup map[string]Song) bool {
	if r.song != nil {
		return true
	}
	if s, ok := lookup[r.id]; ok {
		r.song = &s
		return true
	}
	return false
}

// UnmarshalJSON accepts either a bare identifier string or a song object.
func (r *SongRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = SongRef{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("failed to decode song reference: %w", err)
		}
		*r = SongRef{id: id}
		return nil
	}

	var s Song
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode song reference: %w", err)
	}
	*r = SongRef{id: s.ID, song: &s}
	return nil
}

// MarshalJSON emits the identifier for unresolved references and the full
// object for resolved ones, mirroring the backend's own mixed shapes.
func (r SongRef) MarshalJSON() ([]byte, error) {
	if r.song != nil {
		return json.Marshal(*r.song)
	}
	return json.Marshal(r.id)
}

// UserRef is a reference to a user (album creator or playlist owner) that is
// either a bare identifier or a populated [User].
type UserRef struct {
	id   string
	user *User
}

// UnresolvedUser creates a UserRef carrying only an identifier.
func UnresolvedUser(id string) UserRef {
	return UserRef{id: id}
}

// ResolvedUser creates a UserRef carrying a populated user.
func ResolvedUser(u User) UserRef {
	return UserRef{id: u.ID, user: &u}
}

// ID returns the referenced user identifier regardless of shape. A zero ref
// returns "" and therefore never matches a real identity.
func (r UserRef) ID() string {
	if r.user != nil {
		return r.user.ID
	}
	return r.id
}

// User returns the populated user and true, or the zero User and false.
func (r UserRef) User() (User, bool) {
	if r.user == nil {
		return User{}, false
	}
	return *r.user, true
}

// Resolved reports whether the reference carries a populated user.
func (r UserRef) Resolved() bool { return r.user != nil }

// IsZero reports whether the reference is absent entirely.
func (r UserRef) IsZero() bool { return r.id == "" && r.user == nil }

// Is reports whether the reference points at the given user identifier,
// tolerating both shapes and absent refs without panicking.
func (r UserRef) Is(userID string) bool {
	return userID != "" && r.ID() == userID
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = UserRef{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("failed to decode user reference: %w", err)
		}
		*r = UserRef{id: id}
		return nil
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return fmt.Errorf("failed to decode user reference: %w", err)
	}
	*r = UserRef{id: u.ID, user: &u}
	return nil
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.user != nil {
		return json.Marshal(*r.user)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

// AlbumRef is a reference to an album, used for the optional album field
// embedded on a song.
type AlbumRef struct {
	id    string
	album *Album
}

// UnresolvedAlbum creates a bare identifier reference.
func UnresolvedAlbum(id string) AlbumRef {
	return AlbumRef{id: id}
}

// ResolvedAlbum creates a populated reference.
func ResolvedAlbum(a Album) AlbumRef {
	return AlbumRef{id: a.ID, album: &a}
}

// ID returns the referenced album identifier regardless of shape.
func (r AlbumRef) ID() string {
	if r.album != nil {
		return r.album.ID
	}
	return r.id
}

// Album returns the populated album and true, or the zero Album and false.
func (r AlbumRef) Album() (Album, bool) {
	if r.album == nil {
		return Album{}, false
	}
	return *r.album, true
}

// Resolved reports whether the reference carries a populated album.
func (r AlbumRef) Resolved() bool { return r.album != nil }

// IsZero reports whether the reference is absent entirely.
func (r AlbumRef) IsZero() bool { return r.id == "" && r.album == nil }

func (r *AlbumRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = AlbumRef{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("failed to decode album reference: %w", err)
		}
		*r = AlbumRef{id: id}
		return nil
	}

	var a Album
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("failed to decode album reference: %w", err)
	}
	*r = AlbumRef{id: a.ID, album: &a}
	return nil
}

func (r AlbumRef) MarshalJSON() ([]byte, error) {
	if r.album != nil {
		return json.Marshal(*r.album)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

// ResolveAll resolves a mixed-shape list against the lookup table and returns
// only the songs that end up populated. Unresolved references are excluded,
// never padded with placeholders.
func ResolveAll(refs []SongRef, lookup map[string]Song) []Song {
	songs := make([]Song, 0, len(refs))
	for _, ref := range refs {
		if ref.Resolve(lookup) {
			s, _ := ref.Song()
			songs = append(songs, s)
		}
	}
	return songs
}

// SongIDSet returns the identifiers of refs in order, dropping duplicates and
// empty identifiers.
func SongIDSet(refs []SongRef) []string {
	seen := make(map[string]struct{}, len(refs))
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id := ref.ID()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
