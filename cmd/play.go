package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/tunedeck/tunedeck/internal/player"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Play starts foreground playback of one song and blocks until the track
// finishes or the user interrupts.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	song, ok := r.store.SongLookup()[songID]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
	}

	session, err := r.playback()
	if err != nil {
		return err
	}

	if err := session.Play(song); err != nil {
		return err
	}

	now, _ := session.Current()
	r.writePlain("▶ %s — %s [%s]\n", now.Song.Name, now.Artist, shared.FormatDuration(now.Song.Seconds()))

	if at := cmd.Float("at"); at > 0 {
		if err := session.Seek(at); err != nil {
			r.logger.Warn("seek failed", "err", err)
		}
	}

	return r.waitForPlayback(ctx, session)
}

// waitForPlayback blocks until the session goes idle or the process is
// interrupted, stopping the player on the way out.
func (r *Runner) waitForPlayback(ctx context.Context, session *player.Session) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := session.Stop(); err != nil {
				r.logger.Debug("stop failed", "err", err)
			}
			return r.writePlain("Stopped.\n")
		case <-ticker.C:
			if session.State() == player.Idle {
				return r.writePlain("Done.\n")
			}
		}
	}
}
