package main

import (
	"fmt"
	"os"

	"github.com/aezaqiel/Silmaril/cmd"
	"github.com/aezaqiel/Silmaril/renderer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "silmaril"
	app.Usage = "render scenes using path tracing on the CPU"
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
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also append log output to this file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render single frame",
			Description: `
Render a single frame of a wavefront obj scene or, when no scene file is
given, of one of the built-in scenes.

The frame is split into tiles which are traced by a pool of worker
goroutines. In progressive mode the whole frame is refined one sample per
pass. Press Ctrl+C to stop an in-progress render.`,
			ArgsUsage: "[scene_file.obj]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: int(renderer.DefaultSamplesPerPixel),
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: renderer.DefaultMaxDepth,
					Usage: "max path length",
				},
				cli.IntFlag{
					Name:  "tile",
					Value: int(renderer.DefaultTileSize),
					Usage: "tile edge length in pixels",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render workers; 0 selects one per CPU",
				},
				cli.BoolFlag{
					Name:  "progressive",
					Usage: "refine the whole frame one sample per pass",
				},
				cli.BoolFlag{
					Name:  "no-jitter",
					Usage: "sample stratum centers instead of jittered positions",
				},
				cli.StringFlag{
					Name:  "sampler",
					Value: "stratified",
					Usage: "sampler type (stratified, random)",
				},
				cli.StringFlag{
					Name:  "tile-order",
					Value: "rowmajor",
					Usage: "tile scheduling order (rowmajor, center, cost)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame (png, bmp, tif)",
				},
				cli.StringFlag{
					Name:  "scene, s",
					Value: "cornell",
					Usage: "built-in scene to render when no scene file is given",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:   "sysinfo",
			Usage:  "display host CPU and memory information",
			Action: cmd.SysInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
