package disk

import (
	"fmt"
	"strconv"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

type ResizeUnit int

const (
	AbsoluteMebibyte ResizeUnit = iota
	AbsoluteMegabyte
	AbsoluteSectors
	RelativeMebibyte
	RelativeMegabyte
	RelativeSectors
)

// Format renders the size of op the way a resize tool expecting u reads it.
func (u ResizeUnit) Format(op ResizeOperation) string {
	switch u {
	case AbsoluteMebibyte:
		return fmt.Sprintf("%dM", op.AbsoluteMebibytes())
	case AbsoluteMegabyte:
		return fmt.Sprintf("%dM", op.AbsoluteMegabytes())
	case AbsoluteSectors:
		return strconv.FormatUint(op.AbsoluteSectors(), 10)
	case RelativeMebibyte:
		return fmt.Sprintf("%dM", op.RelativeMebibytes())
	case RelativeMegabyte:
		return fmt.Sprintf("%dM", op.RelativeMegabytes())
	case RelativeSectors:
		return strconv.FormatInt(op.RelativeSectors(), 10)
	default:
		panic(fmt.Sprintf("Unknown resize unit %d", u))
	}
}

// ResizeStrategy is how one kind of filesystem gets resized: the tool, its
// fixed arguments and the unit its size argument is given in.
type ResizeStrategy struct {
	Command string
	Args    []string
	Unit    ResizeUnit
}

func (s ResizeStrategy) Arguments(partitionPath string, op ResizeOperation) []string {
	args := make([]string, 0, len(s.Args)+2)
	args = append(args, s.Args...)
	return append(args, partitionPath, s.Unit.Format(op))
}

var extResizeStrategy = ResizeStrategy{Command: "resize2fs", Unit: AbsoluteMebibyte}

var ResizeStrategies = map[FileSystemType]ResizeStrategy{
	FileSystemExt2: extResizeStrategy,
	FileSystemExt3: extResizeStrategy,
	FileSystemExt4: extResizeStrategy,
}

// LookupResizeStrategy panics for swap: swap partitions are recreated, never
// resized, and must be filtered out before reaching the resizer.
func LookupResizeStrategy(fsType FileSystemType) (ResizeStrategy, error) {
	if fsType == FileSystemSwap {
		panic("Swap partitions must not be resized")
	}

	strategy, found := ResizeStrategies[fsType]
	if !found {
		return ResizeStrategy{}, UnsupportedFileSystemError{FileSystem: fsType}
	}

	return strategy, nil
}

type FileSystemResizer interface {
	Resize(partitionPath string, fsType FileSystemType, op ResizeOperation) (err error)
}

type fileSystemResizer struct {
	runner boshsys.CmdRunner
	logger boshlog.Logger
	logTag string
}

func NewFileSystemResizer(runner boshsys.CmdRunner, logger boshlog.Logger) FileSystemResizer {
	return fileSystemResizer{
		runner: runner,
		logger: logger,
		logTag: "FileSystemResizer",
	}
}

func (r fileSystemResizer) Resize(partitionPath string, fsType FileSystemType, op ResizeOperation) error {
	strategy, err := LookupResizeStrategy(fsType)
	if err != nil {
		return err
	}

	args := strategy.Arguments(partitionPath, op)
	r.logger.Info(r.logTag, "Resizing %s filesystem on `%s' to %s", fsType, partitionPath, args[len(args)-1])

	err = r.check(partitionPath)
	if err != nil {
		return err
	}

	_, _, _, err = r.runner.RunCommand(strategy.Command, args...)
	if err != nil {
		r.logger.Error(r.logTag, "Failed to resize `%s': %s", partitionPath, err)
		return bosherr.WrapErrorf(err, "Shelling out to %s", strategy.Command)
	}

	r.logger.Info(r.logTag, "Successfully resized `%s'", partitionPath)
	return nil
}

func (r fileSystemResizer) check(partitionPath string) error {
	_, _, exitStatus, err := r.runner.RunCommand("fsck", "-fy", partitionPath)
	if err != nil {
		r.logger.Error(r.logTag, "fsck on `%s' exited with status %d", partitionPath, exitStatus)
		return bosherr.WrapErrorf(err, "Checking filesystem on `%s'", partitionPath)
	}

	r.logger.Debug(r.logTag, "Performed fsck on `%s'", partitionPath)
	return nil
}
