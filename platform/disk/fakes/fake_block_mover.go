package fakes

import (
	"fmt"

	boshdisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
)

type FakeBlockMover struct {
	Journal *[]string

	MoveDataCalled     bool
	MoveDataDevicePath string
	MoveDataOffset     boshdisk.Offset
	MoveDataSectorSize uint64
	MoveDataErr        error
}

func NewFakeBlockMover() *FakeBlockMover {
	return &FakeBlockMover{}
}

func (m *FakeBlockMover) MoveData(devicePath string, offset boshdisk.Offset, sectorSize uint64) error {
	record(m.Journal, fmt.Sprintf("move %s %d", devicePath, offset.Offset))
	m.MoveDataCalled = true
	m.MoveDataDevicePath = devicePath
	m.MoveDataOffset = offset
	m.MoveDataSectorSize = sectorSize
	return m.MoveDataErr
}
