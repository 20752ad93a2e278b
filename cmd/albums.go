package main

import (
	"context"
	"fmt"

	"github.com/tunedeck/tunedeck/internal/recency"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// AlbumsList prints every album in the catalog.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	albums := r.store.Albums()
	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	if len(albums) == 0 {
		return r.writePlain("No albums in the catalog.\n")
	}

	for _, album := range albums {
		line := fmt.Sprintf("%s  %s  (%d songs, %s)", album.ID, album.Name, len(album.Songs), shared.FormatDuration(album.TotalDuration()))
		if creator, ok := album.Creator.User(); ok && creator.Username != "" {
			line += "  by " + creator.Username
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// AlbumsShow prints one album with its resolved songs and records the view.
func (r *Runner) AlbumsShow(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.StringArg("id")
	if albumID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	album, ok := r.store.AlbumByID(albumID)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}

	if tracker, err := r.history(); err == nil {
		if err := tracker.Record(recency.ViewedList, album.ID); err != nil {
			r.logger.Warn("failed to record album view", "album", album.ID, "err", err)
		}
	} else {
		r.logger.Warn("history unavailable, view not recorded", "err", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlain("%s (%s)\n", album.Name, shared.FormatDuration(album.TotalDuration()))
	if creator, ok := album.Creator.User(); ok && creator.Username != "" {
		r.writePlain("by %s\n", creator.Username)
	}
	for i, song := range album.ResolvedSongs() {
		r.writePlain("%2d. %s  %s  [%s]\n", i+1, song.ID, song.Name, shared.FormatDuration(song.Seconds()))
	}
	return nil
}

// AlbumsMine lists the signed-in artist's own albums.
func (r *Runner) AlbumsMine(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	albums, res := r.engine.MyAlbums()
	if !res.OK {
		return fmt.Errorf("%s", res.Message)
	}

	if len(albums) == 0 {
		return r.writePlain("You have no albums yet.\n")
	}
	for _, album := range albums {
		r.writePlain("%s  %s  (%d songs)\n", album.ID, album.Name, len(album.Songs))
	}
	return nil
}

// AlbumsCreate creates an album, uploading cover and song files when given.
func (r *Runner) AlbumsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	return r.writeResult(r.engine.CreateAlbum(ctx, cmd.StringArg("name"), cmd.String("cover"), cmd.StringSlice("song")))
}

// AlbumsRename renames one of the artist's own albums.
func (r *Runner) AlbumsRename(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	return r.writeResult(r.engine.RenameAlbum(ctx, cmd.String("id"), cmd.String("name")))
}

// AlbumsRemoveSong removes a song from one of the artist's own albums. The
// staged action only executes with --yes; otherwise it is cancelled, which is
// the CLI rendering of declining the confirmation.
func (r *Runner) AlbumsRemoveSong(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	pending, res := r.engine.RequestRemoveSongFromAlbum(cmd.String("id"), cmd.String("song"))
	if pending == nil {
		return fmt.Errorf("%s", res.Message)
	}
	return r.resolvePending(ctx, pending.Token, pending.Description, cmd.Bool("yes"))
}

// AlbumsDelete deletes one of the artist's own albums, gated on --yes.
func (r *Runner) AlbumsDelete(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.StringArg("id")
	if albumID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	pending, res := r.engine.RequestDeleteAlbum(albumID)
	if pending == nil {
		return fmt.Errorf("%s", res.Message)
	}
	return r.resolvePending(ctx, pending.Token, pending.Description, cmd.Bool("yes"))
}

// resolvePending confirms a staged destructive action when approved and
// cancels it otherwise, so nothing executes without an explicit yes.
func (r *Runner) resolvePending(ctx context.Context, token, description string, approved bool) error {
	if !approved {
		r.engine.Cancel(token)
		r.writePlain("%s\n", description)
		return r.writePlain("Re-run with --yes to confirm. Nothing was changed.\n")
	}
	return r.writeResult(r.engine.Confirm(ctx, token))
}
