// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the local database and config.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the local database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles account and credential operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the signed-in account",
		Commands: []*cli.Command{
			{
				Name:  "sign-up",
				Usage: "Register a new account and sign in",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
					&cli.StringArg{Name: "password"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "artist",
						Usage: "Register as an artist instead of a listener",
					},
				},
				Action: r.AuthSignUp,
			},
			{
				Name:  "sign-in",
				Usage: "Sign in and store the credential",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthSignIn,
			},
			{
				Name:  "whoami",
				Usage: "Show the identity derived from the stored credential",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:   "sign-out",
				Usage:  "Remove the stored credential and clear cached collections",
				Action: r.AuthSignOut,
			},
		},
	}
}

// albumsCommand handles album operations
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"album"},
		Usage:   "Browse and manage albums",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every album in the catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.AlbumsList,
			},
			{
				Name:  "show",
				Usage: "Show one album with its songs",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.AlbumsShow,
			},
			{
				Name:   "mine",
				Usage:  "List the signed-in artist's own albums",
				Action: r.AlbumsMine,
			},
			{
				Name:  "create",
				Usage: "Create an album (artists only)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cover", Usage: "Path to a cover image to upload"},
					&cli.StringSliceFlag{Name: "song", Usage: "Path to an audio file to upload (repeatable)"},
				},
				Action: r.AlbumsCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename one of your albums",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Album ID", Required: true},
					&cli.StringFlag{Name: "name", Usage: "New album name", Required: true},
				},
				Action: r.AlbumsRename,
			},
			{
				Name:  "remove-song",
				Usage: "Remove a song from one of your albums",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Album ID", Required: true},
					&cli.StringFlag{Name: "song", Usage: "Song ID to remove", Required: true},
					&cli.BoolFlag{Name: "yes", Usage: "Confirm the removal"},
				},
				Action: r.AlbumsRemoveSong,
			},
			{
				Name:  "delete",
				Usage: "Delete one of your albums",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "Confirm the deletion"},
				},
				Action: r.AlbumsDelete,
			},
		},
	}
}

// playlistsCommand handles playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"playlist", "pl"},
		Usage:   "Browse and manage playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every playlist in the catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:   "mine",
				Usage:  "List the signed-in listener's own playlists",
				Action: r.PlaylistsMine,
			},
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cover", Usage: "Path to a cover image to upload"},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "add-songs",
				Usage: "Add songs to one of your playlists",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
					&cli.StringSliceFlag{Name: "song", Usage: "Song ID to add (repeatable)", Required: true},
				},
				Action: r.PlaylistsAddSongs,
			},
			{
				Name:  "remove-song",
				Usage: "Remove a song from one of your playlists",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
					&cli.StringFlag{Name: "song", Usage: "Song ID to remove", Required: true},
					&cli.BoolFlag{Name: "yes", Usage: "Confirm the removal"},
				},
				Action: r.PlaylistsRemoveSong,
			},
			{
				Name:  "delete",
				Usage: "Delete one of your playlists",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "Confirm the deletion"},
				},
				Action: r.PlaylistsDelete,
			},
		},
	}
}

// playCommand starts playback of a single song in the foreground.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a song from the catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "at",
				Usage: "Seek to a position before playing (0-100 percent)",
			},
		},
		Action: r.Play,
	}
}

// recentCommand shows the persisted recency lists.
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show recently played songs and viewed albums",
		Commands: []*cli.Command{
			{
				Name:   "played",
				Usage:  "Show the recently played songs, most recent first",
				Action: r.RecentPlayed,
			},
			{
				Name:   "viewed",
				Usage:  "Show the recently viewed albums, most recent first",
				Action: r.RecentViewed,
			},
		},
	}
}

// deckCommand returns the top-level TUI command for interactive browsing.
func deckCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "deck",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.Deck,
	}
}
