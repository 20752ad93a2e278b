package main

import (
	"context"

	"github.com/tunedeck/tunedeck/internal/recency"
	"github.com/urfave/cli/v3"
)

// RecentPlayed prints the recently played songs, most recent first.
func (r *Runner) RecentPlayed(ctx context.Context, cmd *cli.Command) error {
	return r.printRecent(ctx, recency.PlayedList)
}

// RecentViewed prints the recently viewed albums, most recent first.
func (r *Runner) RecentViewed(ctx context.Context, cmd *cli.Command) error {
	return r.printRecent(ctx, recency.ViewedList)
}

// printRecent renders a recency list, resolving identifiers to names when the
// catalog is reachable. Entries pointing at since-deleted entities fall back
// to the bare identifier.
func (r *Runner) printRecent(ctx context.Context, listName string) error {
	tracker, err := r.history()
	if err != nil {
		return err
	}

	entries, err := tracker.Read(listName)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return r.writePlain("Nothing here yet.\n")
	}

	if err := r.ensureLoaded(ctx); err != nil {
		r.logger.Warn("catalog unavailable, showing identifiers only", "err", err)
	}

	for i, id := range entries {
		name := id
		switch listName {
		case recency.PlayedList:
			if song, ok := r.store.SongLookup()[id]; ok {
				name = song.Name
			}
		case recency.ViewedList:
			if album, ok := r.store.AlbumByID(id); ok {
				name = album.Name
			}
		}
		r.writePlain("%2d. %s\n", i+1, name)
	}
	return nil
}
