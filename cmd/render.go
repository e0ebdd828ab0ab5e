package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-bdpt/pkg/imageio"
	"github.com/df07/go-bdpt/pkg/integrator"
	"github.com/df07/go-bdpt/pkg/log"
	"github.com/df07/go-bdpt/pkg/renderer"
	"github.com/df07/go-bdpt/pkg/scene"
	"github.com/urfave/cli"
)

// RenderFlags are the options of the render command.
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "cornell",
		Usage: "built-in scene to render (see the scenes command)",
	},
	cli.IntFlag{
		Name:  "width",
		Value: 256,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 256,
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "spp",
		Value: 0,
		Usage: "samples per pixel (0 uses the scene default)",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Value: -1,
		Usage: "maximum path depth in edges (-1 uses the scene default)",
	},
	cli.IntFlag{
		Name:  "passes",
		Value: 4,
		Usage: "number of progressive passes",
	},
	cli.IntFlag{
		Name:  "workers",
		Value: 0,
		Usage: "number of render workers (0 uses the CPU count)",
	},
	cli.IntFlag{
		Name:  "tile",
		Value: 32,
		Usage: "tile size in pixels",
	},
	cli.Int64Flag{
		Name:  "seed",
		Value: 42,
		Usage: "base seed for the per-tile random generators",
	},
	cli.IntFlag{
		Name:  "supersample",
		Value: 1,
		Usage: "render at this multiple of the frame size and downsample",
	},
	cli.BoolFlag{
		Name:  "visualize-strategies",
		Usage: "write an unweighted image per (s,t) strategy next to the output",
	},
	cli.BoolFlag{
		Name:  "visualize-weights",
		Usage: "write a MIS-weighted image per (s,t) strategy next to the output",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "frame.png",
		Usage: "image filename for the rendered frame (.png, .webp or .tga)",
	},
}

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	sc, err := scene.Build(opts.scene, opts.width*opts.supersample, opts.height*opts.supersample)
	if err != nil {
		return err
	}
	if opts.spp == 0 {
		opts.spp = sc.SamplingConfig.SamplesPerPixel
	}
	if opts.maxDepth < 0 {
		opts.maxDepth = sc.SamplingConfig.MaxDepth
	}

	bdpt := integrator.NewBDPTIntegrator(sc, sc.Camera, integrator.Config{
		MaxDepth:            opts.maxDepth,
		VisualizeStrategies: opts.visualizeStrategies,
		VisualizeWeights:    opts.visualizeWeights,
		Verbose:             log.Enabled(log.Integrator, log.Debug),
	})

	w, h := sc.Camera.Resolution()
	r := renderer.NewRenderer(bdpt, w, h, renderer.Config{
		TileSize:        opts.tileSize,
		SamplesPerPixel: opts.spp,
		Passes:          opts.passes,
		NumWorkers:      opts.workers,
		Seed:            opts.seed,
	})

	// Ctrl-C stops the render between tiles
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering scene %q at %dx%d, %d spp, max depth %d", opts.scene, w, h, opts.spp, opts.maxDepth)
	start := time.Now()
	result, err := r.Render(renderCtx, nil)
	if err != nil {
		return err
	}
	logger.Noticef("render completed in %v", time.Since(start))

	displayRenderStats(result)

	if err := writeImage(opts.out, result.Image, opts.supersample); err != nil {
		return err
	}
	for _, st := range result.Strategies {
		if err := writeImage(imageio.StrategyPath(opts.out, st.Strategy.Name()), st.Image, opts.supersample); err != nil {
			return err
		}
	}
	return nil
}

type renderOpts struct {
	scene                                 string
	width, height                         int
	spp, maxDepth, passes, workers        int
	tileSize, supersample                 int
	seed                                  int64
	visualizeStrategies, visualizeWeights bool
	out                                   string
}

func renderOptions(ctx *cli.Context) (renderOpts, error) {
	opts := renderOpts{
		scene:               ctx.String("scene"),
		width:               ctx.Int("width"),
		height:              ctx.Int("height"),
		spp:                 ctx.Int("spp"),
		maxDepth:            ctx.Int("max-depth"),
		passes:              ctx.Int("passes"),
		workers:             ctx.Int("workers"),
		tileSize:            ctx.Int("tile"),
		supersample:         ctx.Int("supersample"),
		seed:                ctx.Int64("seed"),
		visualizeStrategies: ctx.Bool("visualize-strategies"),
		visualizeWeights:    ctx.Bool("visualize-weights"),
		out:                 ctx.String("out"),
	}
	return opts, opts.validate()
}

func (o renderOpts) validate() error {
	switch {
	case o.width <= 0 || o.height <= 0:
		return errors.New("frame width and height must be positive")
	case o.spp < 0:
		return errors.New("samples per pixel cannot be negative")
	case o.passes <= 0:
		return errors.New("at least one pass is required")
	case o.tileSize <= 0:
		return errors.New("tile size must be positive")
	case o.supersample < 1:
		return errors.New("supersample factor must be at least 1")
	case o.workers < 0:
		return errors.New("worker count cannot be negative")
	case !imageio.Supported(filepath.Ext(o.out)):
		return errors.New("output must end in .png, .webp or .tga")
	}
	return nil
}

func writeImage(path string, img *image.RGBA, supersample int) error {
	if err := imageio.Write(path, imageio.Downsample(img, supersample)); err != nil {
		return err
	}
	logger.Noticef("wrote %s", path)
	return nil
}

func displayRenderStats(result *renderer.Result) {
	var buf bytes.Buffer
	if err := renderer.WriteStatsTable(&buf, result.Passes, result.Workers); err != nil {
		logger.Warningf("could not format render statistics: %v", err)
		return
	}
	logger.Noticef("render statistics\n%s", buf.String())
}
