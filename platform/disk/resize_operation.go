package disk

import (
	bosherr "github.com/cloudfoundry/bosh-utils/errors"
)

const (
	Mebibyte = 1024 * 1024
	Megabyte = 1000 * 1000
)

// Coordinates is a sector range. End is an absolute, exclusive end sector.
type Coordinates struct {
	Start uint64
	End   uint64
}

func NewCoordinates(start, end uint64) Coordinates {
	return Coordinates{Start: start, End: end}
}

func (c Coordinates) Sectors() uint64 { return c.End - c.Start }

// ResizeOperation describes the old and new bounds of a single partition.
// It is built per transaction and never modified afterwards.
type ResizeOperation struct {
	SectorSize uint64
	Old        Coordinates
	New        Coordinates
}

// NewResizeOperation does not validate its input; see Validate.
func NewResizeOperation(sectorSize uint64, old, new Coordinates) ResizeOperation {
	return ResizeOperation{
		SectorSize: sectorSize,
		Old:        old,
		New:        new,
	}
}

func (r ResizeOperation) Validate() error {
	if r.SectorSize == 0 {
		return bosherr.Error("Sector size must be greater than zero")
	}

	if r.Old.End < r.Old.Start {
		return bosherr.Errorf("Old end sector %d is before start sector %d", r.Old.End, r.Old.Start)
	}

	if r.New.End < r.New.Start {
		return bosherr.Errorf("New end sector %d is before start sector %d", r.New.End, r.New.Start)
	}

	return nil
}

func (r ResizeOperation) IsShrinking() bool { return r.RelativeSectors() < 0 }

func (r ResizeOperation) IsGrowing() bool { return r.RelativeSectors() > 0 }

func (r ResizeOperation) IsMoving() bool { return r.Old.Start != r.New.Start }

// AbsoluteSectors is the size of the partition after the operation.
func (r ResizeOperation) AbsoluteSectors() uint64 { return r.New.End - r.New.Start }

// RelativeSectors is the change in size, with any shift of the start
// position taken out.
func (r ResizeOperation) RelativeSectors() int64 {
	diffStart := int64(r.New.Start) - int64(r.Old.Start)
	diffEnd := int64(r.New.End) - int64(r.Old.End)

	if diffStart == 0 {
		return diffEnd
	} else if diffStart == diffEnd {
		return 0
	}

	return diffEnd - diffStart
}

func (r ResizeOperation) AbsoluteMebibytes() uint64 {
	return r.AbsoluteSectors() * r.SectorSize / Mebibyte
}

func (r ResizeOperation) AbsoluteMegabytes() uint64 {
	return r.AbsoluteSectors() * r.SectorSize / Megabyte
}

func (r ResizeOperation) RelativeMebibytes() int64 {
	return r.RelativeSectors() * int64(r.SectorSize) / Mebibyte
}

func (r ResizeOperation) RelativeMegabytes() int64 {
	return r.RelativeSectors() * int64(r.SectorSize) / Megabyte
}
