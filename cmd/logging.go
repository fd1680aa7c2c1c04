package cmd

import (
	"os"

	"github.com/aezaqiel/Silmaril/log"
	"github.com/urfave/cli"
)

var logger = log.New("silmaril")

// Apply the global logging flags. The returned function closes the log file,
// if one was requested.
func setupLogging(ctx *cli.Context) (func(), error) {
	closeFn := func() {}

	if logFile := ctx.GlobalString("log-file"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, err
		}
		log.SetSink(os.Stdout, f)
		closeFn = func() {
			log.SetSink(os.Stdout)
			f.Close()
		}
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	return closeFn, nil
}
