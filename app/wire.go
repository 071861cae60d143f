package app

import (
	"code.cloudfoundry.org/clock"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	boshdisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
)

// NewDefaultApp wires the app against the real system. External commands go
// through runner; devices and /proc/mounts are read through fs.
func NewDefaultApp(
	logger boshlog.Logger,
	runner boshsys.CmdRunner,
	fs boshsys.FileSystem,
	config Config,
	opts Options,
) App {
	resizer := boshdisk.NewPartitionResizer(
		boshdisk.NewFileSystemResizer(runner, logger),
		boshdisk.NewRawBlockMover(fs, clock.NewClock(), logger),
		logger,
	)

	tableOpts := config.Partitioner.SfdiskPartitionTableOpts()
	tableProvider := func(devicePath string) boshdisk.PartitionTable {
		return boshdisk.NewSfdiskPartitionTable(devicePath, runner, logger, tableOpts)
	}

	return New(logger, fs, boshdisk.NewProcMountsSearcher(fs), resizer, tableProvider, opts)
}
