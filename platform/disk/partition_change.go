package disk

import "fmt"

type FileSystemType string

const (
	FileSystemNone  FileSystemType = ""
	FileSystemBTRFS FileSystemType = "btrfs"
	FileSystemExFAT FileSystemType = "exfat"
	FileSystemExt2  FileSystemType = "ext2"
	FileSystemExt3  FileSystemType = "ext3"
	FileSystemExt4  FileSystemType = "ext4"
	FileSystemF2FS  FileSystemType = "f2fs"
	FileSystemFAT16 FileSystemType = "fat16"
	FileSystemFAT32 FileSystemType = "fat32"
	FileSystemNTFS  FileSystemType = "ntfs"
	FileSystemSwap  FileSystemType = "swap"
	FileSystemXFS   FileSystemType = "xfs"
)

type PartitionFlag string

const (
	PartitionFlagBoot     PartitionFlag = "boot"
	PartitionFlagESP      PartitionFlag = "esp"
	PartitionFlagBIOSGrub PartitionFlag = "bios_grub"
	PartitionFlagLVM      PartitionFlag = "lvm"
)

// PartitionChange identifies the partition a ResizeOperation applies to.
// The resizer only reads it.
type PartitionChange struct {
	DevicePath string
	Num        int
	SectorSize uint64
	FileSystem FileSystemType
	Flags      []PartitionFlag
	Path       string
}

func HasFlag(flags []PartitionFlag, flag PartitionFlag) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

func (c PartitionChange) String() string {
	return fmt.Sprintf("[Device: %s, Num: %d, FileSystem: %s, Path: %s]", c.DevicePath, c.Num, c.FileSystem, c.Path)
}
