package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated   = fmt.Errorf("not signed in")
	ErrInvalidCredential  = fmt.Errorf("invalid credential")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and catalog errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrBackendReported  = fmt.Errorf("backend reported an error")
	ErrAlbumNotFound    = fmt.Errorf("album not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrSongNotFound     = fmt.Errorf("song not found")

	// Playback errors
	ErrNoAudioSource = fmt.Errorf("no audio available")
	ErrNothingLoaded = fmt.Errorf("no song loaded")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrEmptySelection  = fmt.Errorf("no songs selected")

	// Confirmation errors
	ErrUnknownAction = fmt.Errorf("unknown pending action")
)
