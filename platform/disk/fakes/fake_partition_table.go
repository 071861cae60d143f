package fakes

import (
	"fmt"

	boshdisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
)

type FakePartitionTable struct {
	Journal *[]string

	DeleteCalled bool
	DeleteNums   []int
	DeleteErr    error

	CreateCalled        bool
	CreateCallCount     int
	CreateStart         uint64
	CreateEnd           uint64
	CreateFsType        boshdisk.FileSystemType
	CreateFlags         []boshdisk.PartitionFlag
	CreatePartitionPath string
	CreateErr           error
}

func NewFakePartitionTable() *FakePartitionTable {
	return &FakePartitionTable{}
}

func (t *FakePartitionTable) Delete(num int) error {
	record(t.Journal, fmt.Sprintf("delete %d", num))
	t.DeleteCalled = true
	t.DeleteNums = append(t.DeleteNums, num)
	return t.DeleteErr
}

func (t *FakePartitionTable) Create(start, end uint64, fsType boshdisk.FileSystemType, flags []boshdisk.PartitionFlag) (string, error) {
	record(t.Journal, fmt.Sprintf("create %d-%d", start, end))
	t.CreateCalled = true
	t.CreateCallCount++
	t.CreateStart = start
	t.CreateEnd = end
	t.CreateFsType = fsType
	t.CreateFlags = flags
	return t.CreatePartitionPath, t.CreateErr
}

func record(journal *[]string, entry string) {
	if journal != nil {
		*journal = append(*journal, entry)
	}
}
