// package player drives the single-active playback session.
//
// One Session exists per process and owns the "current song" and "is playing"
// state. The actual media element is abstracted behind [AudioBackend]; the
// session handles the state machine, artist resolution, and history side
// effects.
package player

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/recency"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/store"
)

// State is the playback state machine position.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// UnknownArtist is displayed when no populated artist reference can be
// resolved for a song. A bare identifier is never displayed.
const UnknownArtist = "Unknown Artist"

// AudioBackend abstracts the media element controlled by the session.
type AudioBackend interface {
	// Load prepares a new audio source, replacing any current one.
	Load(source string) error
	// Start begins playback of the loaded source from the top.
	Start() error
	// Pause suspends playback, keeping position.
	Pause() error
	// Resume continues playback from the paused position.
	Resume() error
	// SeekTo repositions playback to an absolute offset in seconds.
	SeekTo(seconds float64) error
	// Duration returns the resolved media duration in seconds, or 0 when the
	// backend cannot determine it.
	Duration() float64
	// Position returns the current playback offset in seconds.
	Position() float64
	// Close stops playback and releases the current source. The backend stays
	// usable for a subsequent Load.
	Close() error
}

// NowPlaying describes the active song with its resolved artist.
type NowPlaying struct {
	Song   models.Song
	Artist string
}

// Session is the per-process playback state machine.
type Session struct {
	mu      sync.Mutex
	state   State
	current *NowPlaying

	backend AudioBackend
	store   *store.Store
	history *recency.Tracker
	logger  *log.Logger
}

// NewSession creates the playback session. Exactly one should exist per
// process; the caller owns that invariant.
func NewSession(backend AudioBackend, st *store.Store, history *recency.Tracker, logger *log.Logger) *Session {
	return &Session{backend: backend, store: st, history: history, logger: logger}
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the active song, if any.
func (s *Session) Current() (NowPlaying, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return NowPlaying{}, false
	}
	return *s.current, true
}

// Play starts playback of the given song.
//
// Playing the song that is already active acts as a stop toggle; playing it
// while paused resumes. Any other song stops the current one and restarts the
// session with the new song; two songs are never marked playing at once.
// A song with no resolvable audio source reports [shared.ErrNoAudioSource]
// and the session ends up Idle instead of Playing.
func (s *Session) Play(song models.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.Song.ID == song.ID {
		switch s.state {
		case Playing:
			return s.stopLocked()
		case Paused:
			if err := s.backend.Resume(); err != nil {
				return fmt.Errorf("failed to resume: %w", err)
			}
			s.state = Playing
			return nil
		}
	}

	// Implicit stop-and-restart for a different song.
	if s.state != Idle {
		if err := s.stopLocked(); err != nil {
			s.logger.Debug("stop before restart failed", "err", err)
		}
	}

	source := song.Source()
	if source == "" {
		return fmt.Errorf("%w for %q", shared.ErrNoAudioSource, song.Name)
	}

	// Artist resolution happens once per play, synchronously, before media starts.
	artist := s.resolveArtist(song)

	if err := s.backend.Load(source); err != nil {
		return fmt.Errorf("failed to load audio: %w", err)
	}
	if err := s.backend.Start(); err != nil {
		return fmt.Errorf("failed to start audio: %w", err)
	}

	s.state = Playing
	s.current = &NowPlaying{Song: song, Artist: artist}

	if err := s.history.Record(recency.PlayedList, song.ID); err != nil {
		s.logger.Warn("failed to record play history", "song", song.ID, "err", err)
	}

	return nil
}

// Pause suspends playback. Only valid while Playing.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return shared.ErrNothingLoaded
	}
	if err := s.backend.Pause(); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}
	s.state = Paused
	return nil
}

// Resume continues paused playback.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Paused {
		return shared.ErrNothingLoaded
	}
	if err := s.backend.Resume(); err != nil {
		return fmt.Errorf("failed to resume: %w", err)
	}
	s.state = Playing
	return nil
}

// Stop ends the session and returns to Idle.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

// Seek repositions playback to the given fraction of the track on a 0-100
// scale, converted against the backend's resolved duration. The machine
// state is unchanged.
func (s *Session) Seek(percent float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle {
		return shared.ErrNothingLoaded
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	// Prefer the backend's resolved duration; fall back to the catalog
	// metadata when the backend cannot report one.
	duration := s.backend.Duration()
	if duration <= 0 && s.current != nil {
		duration = float64(s.current.Song.Seconds())
	}
	if duration <= 0 {
		return shared.ErrNothingLoaded
	}

	if err := s.backend.SeekTo(percent / 100 * duration); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// Progress returns position and duration in seconds for display.
func (s *Session) Progress() (position, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Idle {
		return 0, 0
	}
	return s.backend.Position(), s.backend.Duration()
}

// OnTrackEnd transitions the session to Idle when the backend reports the
// end of the track.
func (s *Session) OnTrackEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Idle
	s.current = nil
}

// ViewAlbum records an album view in the recency history.
func (s *Session) ViewAlbum(albumID string) {
	if err := s.history.Record(recency.ViewedList, albumID); err != nil {
		s.logger.Warn("failed to record album view", "album", albumID, "err", err)
	}
}

func (s *Session) stopLocked() error {
	s.state = Idle
	s.current = nil
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("failed to stop: %w", err)
	}
	return nil
}

// resolveArtist derives the song's effective artist name. Probe order: the
// song's own artist reference (populated object only), the song's embedded
// album reference, then a linear scan of the album cache for the containing
// album. Creators that are bare identifiers are skipped rather than shown.
func (s *Session) resolveArtist(song models.Song) string {
	if name, ok := song.ArtistName(); ok {
		return name
	}

	if album, ok := song.Album.Album(); ok {
		if creator, ok := album.Creator.User(); ok && creator.Username != "" {
			return creator.Username
		}
	}

	for _, album := range s.store.Albums() {
		if !album.ContainsSong(song.ID) {
			continue
		}
		if creator, ok := album.Creator.User(); ok && creator.Username != "" {
			return creator.Username
		}
	}

	return UnknownArtist
}
