// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are accepted by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

// setupCommand handles setup operations for the local store and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the token store and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a default config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "API base URL to store in the new config",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email or username",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "identifier",
						Aliases: []string{"i", "email", "username"},
						Usage:   "Email or username (prompted when omitted)",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted without echo when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "username",
						Usage:    "Username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Password (prompted twice without echo when omitted)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the stored token",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the signed-in user and YouTube link state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "page",
		Usage: "Page of the video list",
		Value: 1,
	}
}

// videosCommand handles video listing, upload and publishing
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"v"},
		Usage:   "Video operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List uploaded videos one page at a time",
				Flags: []cli.Flag{
					pageFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: table, json, csv, markdown, text",
						Value:   "table",
					},
				},
				Action: r.VideosList,
			},
			{
				Name:  "upload",
				Usage: "Upload a video file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Video title",
						Required: true,
					},
				},
				Action: r.VideosUpload,
			},
			{
				Name:  "publish",
				Usage: "Push a video to YouTube",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					pageFlag(),
				},
				Action: r.VideosPublish,
			},
			{
				Name:  "publish-all",
				Usage: "Push every publishable video on a page to YouTube",
				Flags: []cli.Flag{
					pageFlag(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent publish requests (max 10)",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Publish requests per second",
					},
				},
				Action: r.VideosPublishAll,
			},
			{
				Name:  "watch",
				Usage: "Poll a page until no video is uploading",
				Flags: []cli.Flag{
					pageFlag(),
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Delay between polls",
					},
					&cli.IntFlag{
						Name:  "max-polls",
						Usage: "Stop after this many polls (0 means no limit)",
					},
				},
				Action: r.VideosWatch,
			},
		},
	}
}

// youtubeCommand handles the YouTube channel link
func youtubeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "youtube",
		Aliases: []string{"yt"},
		Usage:   "YouTube channel connection",
		Commands: []*cli.Command{
			{
				Name:  "connect",
				Usage: "Link a YouTube channel through the browser",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the connect URL instead of opening a browser",
					},
				},
				Action: r.YouTubeConnect,
			},
			{
				Name:   "status",
				Usage:  "Show the YouTube channel link state",
				Action: r.YouTubeStatus,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive video dashboard",
		Action:  r.TUI,
	}
}
