// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and playing the catalog:
//  1. [AlbumListView] : Browse every album in the catalog
//  2. [AlbumDetailView] : Inspect an album's songs and play them
//  3. [PlaylistListView] : Browse playlists, filtered to the signed-in listener
//  4. [PlaylistDetailView] : Inspect a playlist's songs, play or remove them
//  5. [ConfirmView] : Approve or decline a staged destructive action
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Operation outcomes surface through two banners: a transient status line that
// clears itself after a few seconds, and an error line that persists until the
// next action succeeds.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
