package fakes

import (
	boshdisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
)

type FakePartitionResizer struct {
	ResizeChanges    []boshdisk.PartitionChange
	ResizeOperations []boshdisk.ResizeOperation
	ResizeTables     []boshdisk.PartitionTable
	ResizeErr        error

	// ResizeCallback runs after each call is recorded.
	ResizeCallback func(change boshdisk.PartitionChange)
}

func NewFakePartitionResizer() *FakePartitionResizer {
	return &FakePartitionResizer{}
}

func (r *FakePartitionResizer) Resize(change boshdisk.PartitionChange, op boshdisk.ResizeOperation, table boshdisk.PartitionTable) error {
	r.ResizeChanges = append(r.ResizeChanges, change)
	r.ResizeOperations = append(r.ResizeOperations, op)
	r.ResizeTables = append(r.ResizeTables, table)

	if r.ResizeCallback != nil {
		r.ResizeCallback(change)
	}

	return r.ResizeErr
}
