package disk_test

import (
	"errors"

	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	fakesys "github.com/cloudfoundry/bosh-utils/system/fakes"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	. "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
)

var _ = Describe("FileSystemResizer", func() {
	var (
		runner  *fakesys.FakeCmdRunner
		resizer FileSystemResizer
		op      ResizeOperation
	)

	BeforeEach(func() {
		runner = fakesys.NewFakeCmdRunner()
		logger := boshlog.NewLogger(boshlog.LevelNone)
		resizer = NewFileSystemResizer(runner, logger)

		op = NewResizeOperation(512, NewCoordinates(2048, 206848), NewCoordinates(2048, 411648))
	})

	DescribeTable("ext filesystems",
		func(fsType FileSystemType) {
			err := resizer.Resize("/dev/sda1", fsType, op)
			Expect(err).ToNot(HaveOccurred())

			Expect(runner.RunCommands).To(Equal([][]string{
				{"fsck", "-fy", "/dev/sda1"},
				{"resize2fs", "/dev/sda1", "200M"},
			}))
		},
		Entry("ext2", FileSystemExt2),
		Entry("ext3", FileSystemExt3),
		Entry("ext4", FileSystemExt4),
	)

	It("does not resize when the integrity check fails", func() {
		runner.AddCmdResult("fsck -fy /dev/sda1", fakesys.FakeCmdResult{
			ExitStatus: 8,
			Error:      errors.New("fake-fsck-err"),
		})

		err := resizer.Resize("/dev/sda1", FileSystemExt4, op)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("Checking filesystem on `/dev/sda1': fake-fsck-err"))

		Expect(runner.RunCommands).To(Equal([][]string{{"fsck", "-fy", "/dev/sda1"}}))
	})

	It("does not resize when the integrity check had to correct errors", func() {
		runner.AddCmdResult("fsck -fy /dev/sda1", fakesys.FakeCmdResult{
			ExitStatus: 1,
			Error:      errors.New("fake-fsck-corrected"),
		})

		err := resizer.Resize("/dev/sda1", FileSystemExt4, op)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("Checking filesystem on `/dev/sda1': fake-fsck-corrected"))
		Expect(runner.RunCommands).To(Equal([][]string{{"fsck", "-fy", "/dev/sda1"}}))
	})

	It("returns the resize error", func() {
		runner.AddCmdResult("resize2fs /dev/sda1 200M", fakesys.FakeCmdResult{
			ExitStatus: 1,
			Error:      errors.New("fake-resize2fs-err"),
		})

		err := resizer.Resize("/dev/sda1", FileSystemExt4, op)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("Shelling out to resize2fs: fake-resize2fs-err"))
	})

	It("rejects filesystems without a resize strategy before running anything", func() {
		err := resizer.Resize("/dev/sda1", FileSystemNTFS, op)
		Expect(err).To(Equal(UnsupportedFileSystemError{FileSystem: FileSystemNTFS}))
		Expect(err.Error()).To(Equal("Filesystem 'ntfs' is not supported for resize"))
		Expect(runner.RunCommands).To(BeEmpty())
	})

	It("panics for swap", func() {
		Expect(func() {
			_ = resizer.Resize("/dev/sda1", FileSystemSwap, op)
		}).To(Panic())
	})
})

var _ = Describe("ResizeUnit", func() {
	var op ResizeOperation

	BeforeEach(func() {
		op = NewResizeOperation(512, NewCoordinates(2048, 411648), NewCoordinates(2048, 206848))
	})

	DescribeTable("Format",
		func(unit ResizeUnit, expected string) {
			Expect(unit.Format(op)).To(Equal(expected))
		},
		Entry("absolute mebibytes", AbsoluteMebibyte, "100M"),
		Entry("absolute megabytes", AbsoluteMegabyte, "104M"),
		Entry("absolute sectors", AbsoluteSectors, "204800"),
		Entry("relative mebibytes", RelativeMebibyte, "-100M"),
		Entry("relative megabytes", RelativeMegabyte, "-104M"),
		Entry("relative sectors", RelativeSectors, "-204800"),
	)
})

var _ = Describe("ResizeStrategy", func() {
	It("puts fixed arguments before the partition and size", func() {
		strategy := ResizeStrategy{Command: "fatresize", Args: []string{"-s"}, Unit: AbsoluteSectors}
		op := NewResizeOperation(512, NewCoordinates(0, 100), NewCoordinates(0, 200))

		Expect(strategy.Arguments("/dev/sdb2", op)).To(Equal([]string{"-s", "/dev/sdb2", "200"}))
	})

	It("reports a partition without filesystem as unsupported", func() {
		_, err := LookupResizeStrategy(FileSystemNone)
		Expect(err).To(MatchError("Partition has no filesystem, it cannot be resized"))
	})
})
