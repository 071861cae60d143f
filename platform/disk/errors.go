package disk

import "fmt"

// PartitionResizeError is returned when the integrity check or the
// filesystem resize command fails.
type PartitionResizeError struct {
	Path string
	Err  error
}

func (e PartitionResizeError) Error() string {
	return fmt.Sprintf("Resizing partition `%s': %s", e.Path, e.Err.Error())
}

func (e PartitionResizeError) Unwrap() error { return e.Err }

// PartitionMoveError is returned when relocating partition data fails.
// The device may have been partially rewritten.
type PartitionMoveError struct {
	DevicePath string
	Err        error
}

func (e PartitionMoveError) Error() string {
	return fmt.Sprintf("Moving partition data on `%s': %s", e.DevicePath, e.Err.Error())
}

func (e PartitionMoveError) Unwrap() error { return e.Err }

type UnsupportedFileSystemError struct {
	FileSystem FileSystemType
}

func (e UnsupportedFileSystemError) Error() string {
	if e.FileSystem == FileSystemNone {
		return "Partition has no filesystem, it cannot be resized"
	}
	return fmt.Sprintf("Filesystem '%s' is not supported for resize", e.FileSystem)
}
