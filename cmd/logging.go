package cmd

import (
	"github.com/df07/go-bdpt/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New(log.CLI)

// setupLogging applies -v/-vv to every module, then the per-module
// overrides of --log-level.
func setupLogging(ctx *cli.Context) error {
	switch {
	case ctx.GlobalBool("vv"):
		log.SetLevel(log.Debug)
	case ctx.GlobalBool("v"):
		log.SetLevel(log.Info)
	default:
		log.SetLevel(log.Notice)
	}

	if spec := ctx.GlobalString("log-level"); spec != "" {
		if err := log.SetModuleLevels(spec); err != nil {
			return err
		}
	}
	logger.Infof("log levels: %s", log.Levels())
	return nil
}
