package disk

import (
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
)

// PartitionTable mutates the partition table entry of the partition being
// resized. Create returns the device path of the recreated partition, which
// may differ from the path it had before.
type PartitionTable interface {
	Delete(num int) (err error)
	Create(start, end uint64, fsType FileSystemType, flags []PartitionFlag) (partitionPath string, err error)
}

// PartitionResizer applies one ResizeOperation to one partition.
//
// Nothing is rolled back: when a later step fails, the filesystem may already
// be shrunk, the table entry deleted or the data partially moved.
type PartitionResizer interface {
	Resize(change PartitionChange, op ResizeOperation, table PartitionTable) (err error)
}

type partitionResizer struct {
	fsResizer FileSystemResizer
	mover     BlockMover
	logger    boshlog.Logger
	logTag    string
}

func NewPartitionResizer(fsResizer FileSystemResizer, mover BlockMover, logger boshlog.Logger) PartitionResizer {
	return partitionResizer{
		fsResizer: fsResizer,
		mover:     mover,
		logger:    logger,
		logTag:    "PartitionResizer",
	}
}

// Resize shrinks the filesystem before anything moves, moves data only while
// the entry is deleted, and grows the filesystem only once the entry covers
// the new bounds and the data sits at the new start.
func (r partitionResizer) Resize(change PartitionChange, op ResizeOperation, table PartitionTable) error {
	moving := op.IsMoving()
	shrinking := op.IsShrinking()
	growing := op.IsGrowing()

	r.logger.Debug(r.logTag, "Resizing %s: shrinking=%t growing=%t moving=%t", change, shrinking, growing, moving)

	if shrinking || growing {
		_, err := LookupResizeStrategy(change.FileSystem)
		if err != nil {
			return err
		}
	}

	partitionPath := change.Path

	if shrinking {
		r.logger.Info(r.logTag, "Shrinking `%s'", partitionPath)
		err := r.fsResizer.Resize(partitionPath, change.FileSystem, op)
		if err != nil {
			return PartitionResizeError{Path: partitionPath, Err: err}
		}
	}

	if !moving && !growing {
		return nil
	}

	err := table.Delete(change.Num)
	if err != nil {
		return err
	}

	if moving {
		offset := op.Offset()
		r.logger.Info(r.logTag, "Moving `%s' by %d sectors", partitionPath, offset.Offset)

		err = r.mover.MoveData(change.DevicePath, offset, change.SectorSize)
		if err != nil {
			return PartitionMoveError{DevicePath: change.DevicePath, Err: err}
		}
	}

	partitionPath, err = table.Create(op.New.Start, op.New.End, change.FileSystem, change.Flags)
	if err != nil {
		return err
	}

	if growing {
		r.logger.Info(r.logTag, "Growing `%s'", partitionPath)
		err = r.fsResizer.Resize(partitionPath, change.FileSystem, op)
		if err != nil {
			return PartitionResizeError{Path: partitionPath, Err: err}
		}
	}

	return nil
}
