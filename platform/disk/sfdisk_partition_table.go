package disk

import (
	"fmt"
	"strconv"
	"time"
	"unicode"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshretry "github.com/cloudfoundry/bosh-utils/retrystrategy"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

const (
	sfdiskTypeLinux    = "L"
	sfdiskTypeSwap     = "S"
	sfdiskTypeEFI      = "U"
	sfdiskTypeLVM      = "V"
	sfdiskTypeBIOSBoot = "21686148-6449-6E6F-744E-656564454649"
)

type SfdiskPartitionTableOpts struct {
	PartprobeAttempts int
	PartprobeDelay    time.Duration
}

func DefaultSfdiskPartitionTableOpts() SfdiskPartitionTableOpts {
	return SfdiskPartitionTableOpts{
		PartprobeAttempts: 20,
		PartprobeDelay:    3 * time.Second,
	}
}

type sfdiskPartitionTable struct {
	devicePath string
	runner     boshsys.CmdRunner
	logger     boshlog.Logger
	logTag     string
	opts       SfdiskPartitionTableOpts

	deletedNum int
}

// NewSfdiskPartitionTable edits the table of devicePath. Create recreates the
// entry removed by the last Delete under the same number.
func NewSfdiskPartitionTable(
	devicePath string,
	runner boshsys.CmdRunner,
	logger boshlog.Logger,
	opts SfdiskPartitionTableOpts,
) PartitionTable {
	return &sfdiskPartitionTable{
		devicePath: devicePath,
		runner:     runner,
		logger:     logger,
		logTag:     "SfdiskPartitionTable",
		opts:       opts,
	}
}

func (t *sfdiskPartitionTable) Delete(num int) error {
	_, _, _, err := t.runner.RunCommand("sfdisk", "--delete", t.devicePath, strconv.Itoa(num))
	if err != nil {
		t.logger.Error(t.logTag, "Failed to delete partition %d: %s", num, err)
		return bosherr.WrapErrorf(err, "Deleting partition %d of `%s'", num, t.devicePath)
	}

	t.deletedNum = num
	t.logger.Info(t.logTag, "Successfully deleted partition %d from %s", num, t.devicePath)

	return t.reread()
}

func (t *sfdiskPartitionTable) Create(start, end uint64, fsType FileSystemType, flags []PartitionFlag) (string, error) {
	if t.deletedNum == 0 {
		return "", bosherr.Errorf("No partition of `%s' was deleted, nothing to recreate", t.devicePath)
	}

	if end <= start {
		return "", bosherr.Errorf("Partition end sector %d must be after start sector %d", end, start)
	}

	num := strconv.Itoa(t.deletedNum)
	input := fmt.Sprintf("start=%d, size=%d, type=%s\n", start, end-start, t.partitionType(fsType, flags))

	_, _, _, err := t.runner.RunCommandWithInput(input, "sfdisk", "--no-reread", "-N", num, t.devicePath)
	if err != nil {
		t.logger.Error(t.logTag, "Failed to create partition %s: %s", num, err)
		return "", bosherr.WrapErrorf(err, "Creating partition %s of `%s'", num, t.devicePath)
	}

	if HasFlag(flags, PartitionFlagBoot) {
		_, _, _, err = t.runner.RunCommand("sfdisk", "--activate", t.devicePath, num)
		if err != nil {
			return "", bosherr.WrapErrorf(err, "Marking partition %s of `%s' bootable", num, t.devicePath)
		}
	}

	err = t.reread()
	if err != nil {
		return "", err
	}

	t.logger.Info(t.logTag, "Successfully created partition %s on %s", num, t.devicePath)
	return PartitionPath(t.devicePath, t.deletedNum), nil
}

func (t *sfdiskPartitionTable) partitionType(fsType FileSystemType, flags []PartitionFlag) string {
	switch {
	case HasFlag(flags, PartitionFlagESP):
		return sfdiskTypeEFI
	case HasFlag(flags, PartitionFlagBIOSGrub):
		return sfdiskTypeBIOSBoot
	case HasFlag(flags, PartitionFlagLVM):
		return sfdiskTypeLVM
	case fsType == FileSystemSwap:
		return sfdiskTypeSwap
	default:
		return sfdiskTypeLinux
	}
}

func (t *sfdiskPartitionTable) reread() error {
	partprobeRetryable := boshretry.NewRetryable(func() (bool, error) {
		_, _, _, err := t.runner.RunCommand("partprobe", t.devicePath)
		if err != nil {
			t.logger.Error(t.logTag, "Failed to probe partitions of %s: %s", t.devicePath, err)
			return true, bosherr.WrapError(err, "Re-reading partition table")
		}

		return false, nil
	})

	partprobeRetryStrategy := boshretry.NewAttemptRetryStrategy(t.opts.PartprobeAttempts, t.opts.PartprobeDelay, partprobeRetryable, t.logger)
	err := partprobeRetryStrategy.Try()
	if err != nil {
		return bosherr.WrapErrorf(err, "Re-reading partition table of `%s'", t.devicePath)
	}

	_, _, _, err = t.runner.RunCommand("udevadm", "settle")
	if err != nil {
		t.logger.Error(t.logTag, "Failed to run udevadm settle: %s", err)
	}

	return nil
}

// PartitionPath follows the kernel's naming of partition nodes: a "p" goes
// between the device and the number when the device name ends in a digit.
func PartitionPath(devicePath string, num int) string {
	if devicePath == "" {
		return strconv.Itoa(num)
	}

	last := rune(devicePath[len(devicePath)-1])
	if unicode.IsDigit(last) {
		return fmt.Sprintf("%sp%d", devicePath, num)
	}

	return fmt.Sprintf("%s%d", devicePath, num)
}
