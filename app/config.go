package app

import (
	"encoding/json"
	"fmt"
	"time"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	boshdisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
)

type Config struct {
	Partitioner PartitionerConfig
	StatePath   string
	Changes     []ChangeConfig
}

type PartitionerConfig struct {
	PartprobeAttempts     int
	PartprobeDelaySeconds int
}

type CoordinatesConfig struct {
	Start uint64
	End   uint64
}

type ChangeConfig struct {
	DevicePath string
	Num        int
	SectorSize uint64
	FileSystem boshdisk.FileSystemType
	Flags      []boshdisk.PartitionFlag
	Path       string
	Old        CoordinatesConfig
	New        CoordinatesConfig
}

func LoadConfigFromPath(fs boshsys.FileSystem, path string) (Config, error) {
	var config Config

	if path == "" {
		return config, nil
	}

	bytes, err := fs.ReadFile(path)
	if err != nil {
		return config, bosherr.WrapError(err, "Reading file")
	}

	err = json.Unmarshal(bytes, &config)
	if err != nil {
		return config, bosherr.WrapError(err, "Loading file")
	}

	return config, nil
}

func (c PartitionerConfig) SfdiskPartitionTableOpts() boshdisk.SfdiskPartitionTableOpts {
	opts := boshdisk.DefaultSfdiskPartitionTableOpts()

	if c.PartprobeAttempts > 0 {
		opts.PartprobeAttempts = c.PartprobeAttempts
	}

	if c.PartprobeDelaySeconds > 0 {
		opts.PartprobeDelay = time.Duration(c.PartprobeDelaySeconds) * time.Second
	}

	return opts
}

func (c ChangeConfig) PartitionChange() boshdisk.PartitionChange {
	path := c.Path
	if path == "" {
		path = boshdisk.PartitionPath(c.DevicePath, c.Num)
	}

	return boshdisk.PartitionChange{
		DevicePath: c.DevicePath,
		Num:        c.Num,
		SectorSize: c.SectorSize,
		FileSystem: c.FileSystem,
		Flags:      c.Flags,
		Path:       path,
	}
}

func (c ChangeConfig) ResizeOperation() boshdisk.ResizeOperation {
	return boshdisk.NewResizeOperation(
		c.SectorSize,
		boshdisk.NewCoordinates(c.Old.Start, c.Old.End),
		boshdisk.NewCoordinates(c.New.Start, c.New.End),
	)
}

// Key identifies a change in the state file. Two changes to one partition
// differ in their geometry, so both coordinates are part of the key.
func (c ChangeConfig) Key() string {
	return fmt.Sprintf("%s:%d-%d:%d-%d",
		boshdisk.PartitionPath(c.DevicePath, c.Num), c.Old.Start, c.Old.End, c.New.Start, c.New.End)
}
