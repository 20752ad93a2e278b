package main

import (
	"context"
	"fmt"

	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints every playlist in the catalog.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	playlists := r.store.Playlists()
	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists in the catalog.\n")
	}
	for _, playlist := range playlists {
		// Duration is recomputed from the songs, not read from the stored field.
		r.writePlain("%s  %s  (%d songs, %s)\n", playlist.ID, playlist.Name, len(playlist.Songs), shared.FormatDuration(playlist.TotalDuration()))
	}
	return nil
}

// PlaylistsMine lists the signed-in listener's own playlists.
func (r *Runner) PlaylistsMine(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	playlists := r.engine.MyPlaylists()
	if len(playlists) == 0 {
		return r.writePlain("You have no playlists yet.\n")
	}
	for _, playlist := range playlists {
		r.writePlain("%s  %s  (%d songs, %s)\n", playlist.ID, playlist.Name, len(playlist.Songs), shared.FormatDuration(playlist.TotalDuration()))
	}
	return nil
}

// PlaylistsCreate creates an empty playlist owned by the active identity.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	return r.writeResult(r.engine.CreatePlaylist(ctx, cmd.StringArg("name"), cmd.String("cover")))
}

// PlaylistsAddSongs unions the given songs into a playlist. Re-adding songs
// already present reports success without duplicating them.
func (r *Runner) PlaylistsAddSongs(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	return r.writeResult(r.engine.AddSongsToPlaylist(ctx, cmd.String("id"), cmd.StringSlice("song")))
}

// PlaylistsRemoveSong removes a song from one of the listener's playlists,
// gated on --yes.
func (r *Runner) PlaylistsRemoveSong(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	pending, res := r.engine.RequestRemoveSongFromPlaylist(cmd.String("id"), cmd.String("song"))
	if pending == nil {
		return fmt.Errorf("%s", res.Message)
	}
	return r.resolvePending(ctx, pending.Token, pending.Description, cmd.Bool("yes"))
}

// PlaylistsDelete deletes one of the listener's playlists, gated on --yes.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	pending, res := r.engine.RequestDeletePlaylist(playlistID)
	if pending == nil {
		return fmt.Errorf("%s", res.Message)
	}
	return r.resolvePending(ctx, pending.Token, pending.Description, cmd.Bool("yes"))
}
