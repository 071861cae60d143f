package app

import (
	"context"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	boshdisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
)

// PartitionTableProvider returns the table editor for a device.
type PartitionTableProvider func(devicePath string) boshdisk.PartitionTable

type Options struct {
	DryRun bool
}

type App interface {
	Run(ctx context.Context, config Config) error
}

type app struct {
	logger         boshlog.Logger
	fs             boshsys.FileSystem
	mountsSearcher boshdisk.MountsSearcher
	resizer        boshdisk.PartitionResizer
	tableProvider  PartitionTableProvider
	opts           Options
	logTag         string
}

func New(
	logger boshlog.Logger,
	fs boshsys.FileSystem,
	mountsSearcher boshdisk.MountsSearcher,
	resizer boshdisk.PartitionResizer,
	tableProvider PartitionTableProvider,
	opts Options,
) App {
	return &app{
		logger:         logger,
		fs:             fs,
		mountsSearcher: mountsSearcher,
		resizer:        resizer,
		tableProvider:  tableProvider,
		opts:           opts,
		logTag:         "App",
	}
}

// Run applies the changes one at a time, in order. Cancellation is only
// honoured between changes: a change that has started runs to completion.
func (app *app) Run(ctx context.Context, config Config) error {
	state, err := app.loadState(config)
	if err != nil {
		return err
	}

	for i, changeConfig := range config.Changes {
		err = ctx.Err()
		if err != nil {
			return bosherr.WrapErrorf(err, "Stopping before change %d", i)
		}

		key := changeConfig.Key()
		if state.IsCompleted(key) {
			app.logger.Info(app.logTag, "Skipping %s, it was already resized", key)
			continue
		}

		op := changeConfig.ResizeOperation()
		err = op.Validate()
		if err != nil {
			return bosherr.WrapErrorf(err, "Validating change %d", i)
		}

		change := changeConfig.PartitionChange()

		err = app.checkNotMounted(change)
		if err != nil {
			return bosherr.WrapErrorf(err, "Checking change %d", i)
		}

		if app.opts.DryRun {
			app.logPlan(change, op)
			continue
		}

		err = app.resizer.Resize(change, op, app.tableProvider(change.DevicePath))
		if err != nil {
			return bosherr.WrapErrorf(err, "Resizing %s", change.Path)
		}

		state.Completed = append(state.Completed, key)
		err = app.saveState(config, state)
		if err != nil {
			return err
		}
	}

	return nil
}

// fsck and offline moves both need the partition unmounted.
func (app *app) checkNotMounted(change boshdisk.PartitionChange) error {
	mounts, err := app.mountsSearcher.SearchMounts()
	if err != nil {
		return bosherr.WrapError(err, "Searching mounts")
	}

	mount, found := boshdisk.FindMount(mounts, change.Path)
	if found {
		return bosherr.Errorf("Partition `%s' is mounted on `%s'", change.Path, mount.MountPoint)
	}

	return nil
}

func (app *app) logPlan(change boshdisk.PartitionChange, op boshdisk.ResizeOperation) {
	app.logger.Info(app.logTag, "Would resize %s from %d-%d to %d-%d (shrinking=%t growing=%t moving=%t)",
		change, op.Old.Start, op.Old.End, op.New.Start, op.New.End, op.IsShrinking(), op.IsGrowing(), op.IsMoving())

	if op.IsMoving() {
		offset := op.Offset()
		if offset.Overlap != nil {
			app.logger.Info(app.logTag, "Would copy %s then %s by %d sectors", *offset.Overlap, offset.Inner, offset.Offset)
		} else {
			app.logger.Info(app.logTag, "Would copy %s by %d sectors", offset.Inner, offset.Offset)
		}
	}
}

func (app *app) loadState(config Config) (State, error) {
	if config.StatePath == "" {
		return State{}, nil
	}

	state, err := LoadState(app.fs, config.StatePath)
	if err != nil {
		return state, bosherr.WrapError(err, "Loading state")
	}

	return state, nil
}

func (app *app) saveState(config Config, state State) error {
	if config.StatePath == "" || app.opts.DryRun {
		return nil
	}

	err := SaveState(app.fs, config.StatePath, state)
	if err != nil {
		return bosherr.WrapError(err, "Saving state")
	}

	return nil
}
