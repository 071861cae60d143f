package disk

import (
	"io"
	"os"

	"code.cloudfoundry.org/clock"
	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

const moveChunkBytes = Mebibyte

type BlockMover interface {
	MoveData(devicePath string, offset Offset, sectorSize uint64) (err error)
}

type blockDevice interface {
	io.ReaderAt
	io.WriterAt
	io.Seeker
	io.Closer
	Sync() error
}

type rawBlockMover struct {
	fs          boshsys.FileSystem
	timeService clock.Clock
	logger      boshlog.Logger
	logTag      string
}

// NewRawBlockMover copies sectors in place on a device. The caller must be
// the only reader and writer of the device while a move runs.
func NewRawBlockMover(fs boshsys.FileSystem, timeService clock.Clock, logger boshlog.Logger) BlockMover {
	return rawBlockMover{
		fs:          fs,
		timeService: timeService,
		logger:      logger,
		logTag:      "RawBlockMover",
	}
}

func (m rawBlockMover) MoveData(devicePath string, offset Offset, sectorSize uint64) error {
	if sectorSize == 0 {
		return bosherr.Error("Sector size must be greater than zero")
	}

	file, err := m.fs.OpenFile(devicePath, os.O_RDWR, 0)
	if err != nil {
		return bosherr.WrapErrorf(err, "Opening device `%s'", devicePath)
	}

	device, ok := file.(blockDevice)
	if !ok {
		_ = file.Close()
		return bosherr.Errorf("Device `%s' does not support positioned reads and writes", devicePath)
	}
	defer device.Close()

	err = m.checkBounds(device, offset, sectorSize)
	if err != nil {
		return bosherr.WrapErrorf(err, "Checking bounds on `%s'", devicePath)
	}

	started := m.timeService.Now()

	if offset.Overlap != nil {
		err = m.copyRange(device, devicePath, offset.Offset, *offset.Overlap, sectorSize, offset.Descending())
		if err != nil {
			return err
		}
	}

	err = m.copyRange(device, devicePath, offset.Offset, offset.Inner, sectorSize, offset.Descending())
	if err != nil {
		return err
	}

	err = device.Sync()
	if err != nil {
		return bosherr.WrapErrorf(err, "Syncing device `%s'", devicePath)
	}

	m.logger.Info(m.logTag, "Moved partition data on `%s' by %d sectors in %s", devicePath, offset.Offset, m.timeService.Since(started))
	return nil
}

func (m rawBlockMover) checkBounds(device blockDevice, offset Offset, sectorSize uint64) error {
	deviceSize, err := device.Seek(0, io.SeekEnd)
	if err != nil {
		return bosherr.WrapError(err, "Getting device size")
	}
	deviceSectors := uint64(deviceSize) / sectorSize

	ranges := []OffsetCoordinates{offset.Inner}
	if offset.Overlap != nil {
		ranges = append(ranges, *offset.Overlap)
	}

	for _, coords := range ranges {
		if coords.Length == 0 {
			continue
		}

		dstStart := int64(coords.Skip) + offset.Offset
		if dstStart < 0 {
			return bosherr.Errorf("Destination of %s starts before the device", coords)
		}

		srcEnd := coords.Skip + coords.Length
		dstEnd := uint64(dstStart) + coords.Length
		if srcEnd > deviceSectors || dstEnd > deviceSectors {
			return bosherr.Errorf("Moving %s by %d sectors exceeds the device size of %d sectors", coords, offset.Offset, deviceSectors)
		}
	}

	return nil
}

// copyRange copies whole chunks, reading each chunk completely before writing
// it. Walking chunks from the end of the range keeps a rightward move from
// overwriting sectors it has not read yet; walking from the start does the
// same for a leftward move.
func (m rawBlockMover) copyRange(device blockDevice, devicePath string, offset int64, coords OffsetCoordinates, sectorSize uint64, descending bool) error {
	m.logger.Debug(m.logTag, "Moving partition on `%s' with %d block size: %s offset %d", devicePath, sectorSize, coords, offset)

	chunkSectors := uint64(moveChunkBytes) / sectorSize
	if chunkSectors == 0 {
		chunkSectors = 1
	}

	buffer := make([]byte, chunkSectors*sectorSize)

	for copied := uint64(0); copied < coords.Length; {
		count := coords.Length - copied
		if count > chunkSectors {
			count = chunkSectors
		}

		first := coords.Skip + copied
		if descending {
			first = coords.Skip + coords.Length - copied - count
		}

		chunk := buffer[:count*sectorSize]
		input := int64(first * sectorSize)
		output := input + offset*int64(sectorSize)

		_, err := device.ReadAt(chunk, input)
		if err != nil {
			return bosherr.WrapErrorf(err, "Reading %d sectors at sector %d", count, first)
		}

		_, err = device.WriteAt(chunk, output)
		if err != nil {
			return bosherr.WrapErrorf(err, "Writing %d sectors at sector %d", count, int64(first)+offset)
		}

		copied += count
	}

	return nil
}
