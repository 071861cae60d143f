package main

import (
	"errors"
	"flag"
	"fmt"
)

type Options struct {
	ConfigPath string
	LogLevel   string
	DryRun     bool
}

func newOptions(command string, args []string) (Options, error) {
	var options Options
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.StringVar(&options.ConfigPath, "config", "", "path to the JSON file listing the partition changes")
	flags.StringVar(&options.LogLevel, "log-level", "INFO", "DEBUG, INFO, WARN, ERROR or NONE")
	flags.BoolVar(&options.DryRun, "dry-run", false, "log the planned changes without touching any device")
	flags.Usage = func() {
		_, _ = fmt.Fprintf(flags.Output(), //nolint:errcheck
			`%[1]s shrinks, grows and moves partitions listed in a config file.

Usage:

	%[1]s -config CONFIG [FLAGS]

Flags:
`, command)
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil {
		return options, err
	}

	if options.ConfigPath == "" {
		flags.Usage()
		return options, errors.New("missing -config")
	}

	return options, nil
}
