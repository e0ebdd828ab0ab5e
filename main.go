package main

import (
	"fmt"
	"os"

	"github.com/df07/go-bdpt/cmd"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-bdpt"
	app.Usage = "render scenes using bidirectional path tracing"
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
			Name:  "log-level",
			Usage: "per-module levels, e.g. bdpt=debug,renderer=warning (modules: cli, bdpt, renderer)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a built-in scene to an image",
			Description: `
Trace camera and light subpaths for every pixel sample and combine all of their
connection strategies with multiple importance sampling.

With --visualize-strategies or --visualize-weights, one extra image per (s,t)
strategy is written next to the output, named bdpt_dXX_sXX_tXX.`,
			Flags:  cmd.RenderFlags,
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
