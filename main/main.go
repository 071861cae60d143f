package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	"github.com/cloudfoundry/bosh-partition-resizer/app"
)

const (
	mainLogTag = "main"

	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 130
)

func main() {
	os.Exit(run(os.Args[0], os.Args[1:], os.Stderr))
}

func run(command string, args []string, stderr io.Writer) int {
	options, err := newOptions(command, args)
	if err != nil {
		return exitUsage
	}

	level, err := boshlog.Levelify(options.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Invalid -log-level: %s\n", err.Error()) //nolint:errcheck
		return exitUsage
	}

	logger := boshlog.NewLogger(level)
	defer logger.HandlePanic("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := boshsys.NewOsFileSystem(logger)
	runner := boshsys.NewExecCmdRunner(logger)

	config, err := app.LoadConfigFromPath(fs, options.ConfigPath)
	if err != nil {
		logger.Error(mainLogTag, "Loading config %s", err.Error())
		return exitFailure
	}

	resizerApp := app.NewDefaultApp(logger, runner, fs, config, app.Options{DryRun: options.DryRun})

	err = resizerApp.Run(ctx, config)
	if err != nil {
		logger.Error(mainLogTag, "App run %s", err.Error())
		if ctx.Err() != nil {
			return exitCancelled
		}
		return exitFailure
	}

	return 0
}
