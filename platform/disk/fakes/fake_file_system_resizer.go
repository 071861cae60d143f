package fakes

import (
	"fmt"

	boshdisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
)

type FakeFileSystemResizer struct {
	Journal *[]string

	ResizeCalled         bool
	ResizePartitionPaths []string
	ResizeFsTypes        []boshdisk.FileSystemType
	ResizeOperations     []boshdisk.ResizeOperation
	ResizeErr            error
}

func NewFakeFileSystemResizer() *FakeFileSystemResizer {
	return &FakeFileSystemResizer{}
}

func (r *FakeFileSystemResizer) Resize(partitionPath string, fsType boshdisk.FileSystemType, op boshdisk.ResizeOperation) error {
	record(r.Journal, fmt.Sprintf("resize %s", partitionPath))
	r.ResizeCalled = true
	r.ResizePartitionPaths = append(r.ResizePartitionPaths, partitionPath)
	r.ResizeFsTypes = append(r.ResizeFsTypes, fsType)
	r.ResizeOperations = append(r.ResizeOperations, op)
	return r.ResizeErr
}
