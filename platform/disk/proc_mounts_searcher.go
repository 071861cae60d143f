package disk

import (
	"strings"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

type Mount struct {
	PartitionPath string
	MountPoint    string
}

type MountsSearcher interface {
	SearchMounts() ([]Mount, error)
}

type procMountsSearcher struct {
	fs boshsys.FileSystem
}

func NewProcMountsSearcher(fs boshsys.FileSystem) MountsSearcher {
	return procMountsSearcher{fs}
}

func (s procMountsSearcher) SearchMounts() ([]Mount, error) {
	mountInfo, err := s.fs.ReadFileString("/proc/mounts")
	if err != nil {
		return []Mount{}, bosherr.WrapError(err, "Reading /proc/mounts")
	}

	mountEntries := strings.Split(mountInfo, "\n")
	mounts := make([]Mount, 0, len(mountEntries))
	for _, mountEntry := range mountEntries {
		mountFields := strings.Fields(mountEntry)
		if len(mountFields) < 2 {
			continue
		}

		mounts = append(mounts, Mount{
			PartitionPath: mountFields[0],
			MountPoint:    unescapeMountField(mountFields[1]),
		})
	}

	return mounts, nil
}

// FindMount returns the mount of partitionPath, if any.
func FindMount(mounts []Mount, partitionPath string) (Mount, bool) {
	for _, mount := range mounts {
		if mount.PartitionPath == partitionPath {
			return mount, true
		}
	}
	return Mount{}, false
}

// /proc/mounts escapes whitespace in mount points as octal.
func unescapeMountField(field string) string {
	return strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`).Replace(field)
}
