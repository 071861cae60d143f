package app

import (
	"context"
	"errors"

	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	fakesys "github.com/cloudfoundry/bosh-utils/system/fakes"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	boshdisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk"
	fakedisk "github.com/cloudfoundry/bosh-partition-resizer/platform/disk/fakes"
)

var _ = Describe("App", func() {
	var (
		fakeFs         *fakesys.FakeFileSystem
		mountsSearcher boshdisk.MountsSearcher
		resizer        *fakedisk.FakePartitionResizer
		tables         map[string]*fakedisk.FakePartitionTable
		tableProvider  PartitionTableProvider
		config         Config
		logger         boshlog.Logger
	)

	BeforeEach(func() {
		fakeFs = fakesys.NewFakeFileSystem()
		err := fakeFs.WriteFileString("/proc/mounts", "/dev/sda1 / ext4 rw,relatime 0 0\nproc /proc proc rw 0 0\n")
		Expect(err).ToNot(HaveOccurred())
		mountsSearcher = boshdisk.NewProcMountsSearcher(fakeFs)
		resizer = fakedisk.NewFakePartitionResizer()
		logger = boshlog.NewLogger(boshlog.LevelNone)

		tables = map[string]*fakedisk.FakePartitionTable{}
		tableProvider = func(devicePath string) boshdisk.PartitionTable {
			table := fakedisk.NewFakePartitionTable()
			tables[devicePath] = table
			return table
		}

		config = Config{
			Changes: []ChangeConfig{
				{
					DevicePath: "/dev/sda",
					Num:        2,
					SectorSize: 512,
					FileSystem: boshdisk.FileSystemExt4,
					Old:        CoordinatesConfig{Start: 2048, End: 206848},
					New:        CoordinatesConfig{Start: 2048, End: 411648},
				},
				{
					DevicePath: "/dev/nvme0n1",
					Num:        1,
					SectorSize: 4096,
					FileSystem: boshdisk.FileSystemExt4,
					Path:       "/dev/mapper/root",
					Old:        CoordinatesConfig{Start: 256, End: 25856},
					New:        CoordinatesConfig{Start: 512, End: 26112},
				},
			},
		}
	})

	It("resizes every change in order", func() {
		app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

		err := app.Run(context.Background(), config)
		Expect(err).ToNot(HaveOccurred())

		Expect(resizer.ResizeChanges).To(Equal([]boshdisk.PartitionChange{
			{DevicePath: "/dev/sda", Num: 2, SectorSize: 512, FileSystem: boshdisk.FileSystemExt4, Path: "/dev/sda2"},
			{DevicePath: "/dev/nvme0n1", Num: 1, SectorSize: 4096, FileSystem: boshdisk.FileSystemExt4, Path: "/dev/mapper/root"},
		}))
		Expect(resizer.ResizeOperations[1]).To(Equal(boshdisk.NewResizeOperation(
			4096,
			boshdisk.NewCoordinates(256, 25856),
			boshdisk.NewCoordinates(512, 26112),
		)))
		Expect(resizer.ResizeTables[0]).To(BeIdenticalTo(tables["/dev/sda"]))
		Expect(resizer.ResizeTables[1]).To(BeIdenticalTo(tables["/dev/nvme0n1"]))
	})

	It("stops at the first failing change", func() {
		resizer.ResizeErr = errors.New("fake-resize-err")
		app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

		err := app.Run(context.Background(), config)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("Resizing /dev/sda2: fake-resize-err"))
		Expect(resizer.ResizeChanges).To(HaveLen(1))
	})

	It("rejects invalid geometry before resizing", func() {
		config.Changes[0].SectorSize = 0
		app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

		err := app.Run(context.Background(), config)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("Validating change 0"))
		Expect(resizer.ResizeChanges).To(BeEmpty())
	})

	It("refuses to resize a mounted partition", func() {
		err := fakeFs.WriteFileString("/proc/mounts", "/dev/sda1 / ext4 rw 0 0\n/dev/sda2 /var/vcap/data ext4 rw 0 0\n")
		Expect(err).ToNot(HaveOccurred())
		app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

		err = app.Run(context.Background(), config)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("Checking change 0: Partition `/dev/sda2' is mounted on `/var/vcap/data'"))
		Expect(resizer.ResizeChanges).To(BeEmpty())
	})

	It("returns an error when mounts cannot be read", func() {
		fakeFs.RegisterReadFileError("/proc/mounts", errors.New("fake-read-err"))
		app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

		err := app.Run(context.Background(), config)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("Searching mounts"))
		Expect(resizer.ResizeChanges).To(BeEmpty())
	})

	It("does not start another change once cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		resizer.ResizeCallback = func(boshdisk.PartitionChange) { cancel() }
		app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

		err := app.Run(ctx, config)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("Stopping before change 1"))
		Expect(resizer.ResizeChanges).To(HaveLen(1))
	})

	It("does not resize anything on a dry run", func() {
		app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{DryRun: true})

		err := app.Run(context.Background(), config)
		Expect(err).ToNot(HaveOccurred())
		Expect(resizer.ResizeChanges).To(BeEmpty())
		Expect(tables).To(BeEmpty())
	})

	Context("with a state file", func() {
		BeforeEach(func() {
			config.StatePath = "/var/vcap/resizer_state.json"
		})

		It("records completed changes", func() {
			app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

			err := app.Run(context.Background(), config)
			Expect(err).ToNot(HaveOccurred())

			state, err := LoadState(fakeFs, config.StatePath)
			Expect(err).ToNot(HaveOccurred())
			Expect(state.Completed).To(Equal([]string{
				"/dev/sda2:2048-206848:2048-411648",
				"/dev/nvme0n1p1:256-25856:512-26112",
			}))
		})

		It("skips changes that already completed", func() {
			err := SaveState(fakeFs, config.StatePath, State{Completed: []string{"/dev/sda2:2048-206848:2048-411648"}})
			Expect(err).ToNot(HaveOccurred())
			app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

			err = app.Run(context.Background(), config)
			Expect(err).ToNot(HaveOccurred())
			Expect(resizer.ResizeChanges).To(HaveLen(1))
			Expect(resizer.ResizeChanges[0].DevicePath).To(Equal("/dev/nvme0n1"))
		})

		It("applies every change to a partition listed more than once", func() {
			config.Changes = []ChangeConfig{
				{
					DevicePath: "/dev/sda",
					Num:        2,
					SectorSize: 512,
					FileSystem: boshdisk.FileSystemExt4,
					Old:        CoordinatesConfig{Start: 2048, End: 411648},
					New:        CoordinatesConfig{Start: 2048, End: 206848},
				},
				{
					DevicePath: "/dev/sda",
					Num:        2,
					SectorSize: 512,
					FileSystem: boshdisk.FileSystemExt4,
					Old:        CoordinatesConfig{Start: 2048, End: 206848},
					New:        CoordinatesConfig{Start: 4096, End: 208896},
				},
			}
			app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

			err := app.Run(context.Background(), config)
			Expect(err).ToNot(HaveOccurred())
			Expect(resizer.ResizeOperations).To(HaveLen(2))
			Expect(resizer.ResizeOperations[1].IsMoving()).To(BeTrue())

			state, err := LoadState(fakeFs, config.StatePath)
			Expect(err).ToNot(HaveOccurred())
			Expect(state.Completed).To(HaveLen(2))
		})

		It("returns an error when the state cannot be saved", func() {
			fakeFs.WriteFileError = errors.New("fake-write-err")
			app := New(logger, fakeFs, mountsSearcher, resizer, tableProvider, Options{})

			err := app.Run(context.Background(), config)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Saving state"))
			Expect(resizer.ResizeChanges).To(HaveLen(1))
		})
	})

	Describe("NewDefaultApp", func() {
		It("runs the real components against the command runner", func() {
			runner := fakesys.NewFakeCmdRunner()
			config.Changes = config.Changes[:1]

			app := NewDefaultApp(logger, runner, fakeFs, config, Options{})

			err := app.Run(context.Background(), config)
			Expect(err).ToNot(HaveOccurred())

			Expect(runner.RunCommands).To(Equal([][]string{
				{"sfdisk", "--delete", "/dev/sda", "2"},
				{"partprobe", "/dev/sda"},
				{"udevadm", "settle"},
				{"partprobe", "/dev/sda"},
				{"udevadm", "settle"},
				{"fsck", "-fy", "/dev/sda2"},
				{"resize2fs", "/dev/sda2", "200M"},
			}))
			Expect(runner.RunCommandsWithInput).To(Equal([][]string{
				{"start=2048, size=409600, type=L\n", "sfdisk", "--no-reread", "-N", "2", "/dev/sda"},
			}))
		})
	})
})
