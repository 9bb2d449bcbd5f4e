package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
)

// configFlags are shared by every command that resolves a Config.
var configFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "load window and pacing settings from a YAML file",
	},
	cli.StringFlag{
		Name:  "behavior, b",
		Usage: "render behavior: each_frame or conservative",
	},
	cli.DurationFlag{
		Name:  "interval",
		Value: time.Second / 30,
		Usage: "minimum time between draws in conservative mode",
	},
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "krasue"
	app.Usage = "draw large sprite batches with one instanced call per batch"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open a window and animate a sprite batch",
			Description: `
Load the given images (or generate a few solid shapes when none are given),
scatter sprites across the window and spin them with tweens. The window title
shows the measured draw rate.

Press Escape to quit.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "sprites, n",
					Value: 2000,
					Usage: "number of sprites in the batch",
				},
				cli.StringSliceFlag{
					Name:  "image, i",
					Value: &cli.StringSlice{},
					Usage: "image file to draw; may be repeated",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "random seed for sprite placement; 0 picks one from the clock",
				},
			}, configFlags...),
			Action: Run,
		},
		{
			Name:   "config",
			Usage:  "print the effective configuration as YAML",
			Flags:  configFlags,
			Action: PrintConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "krasue:", err)
		os.Exit(1)
	}
}
