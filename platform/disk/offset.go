package disk

import "fmt"

// OffsetCoordinates is a sector range of the old layout, counted from the
// start of the device.
type OffsetCoordinates struct {
	Skip   uint64
	Length uint64
}

func (c OffsetCoordinates) String() string {
	return fmt.Sprintf("{skip: %d; length: %d}", c.Skip, c.Length)
}

// Offset is the plan for relocating a partition's data by Offset sectors.
//
// Overlap, when set, is the tail of the data whose destination lies past the
// old extent. It has to be copied before Inner: Inner's destination covers
// Overlap's source. Inner is copied in descending order when the data moves
// towards higher sectors and in ascending order otherwise, so that no sector
// is written before it has been read.
type Offset struct {
	Offset  int64
	Inner   OffsetCoordinates
	Overlap *OffsetCoordinates
}

func (o Offset) Descending() bool { return o.Offset > 0 }

// Offset computes the copy plan. The copied extent is the smaller of the old
// and new sizes: a shrink has already happened by the time data is moved.
func (r ResizeOperation) Offset() Offset {
	offset := int64(r.New.Start) - int64(r.Old.Start)

	length := r.Old.Sectors()
	if r.New.Sectors() < length {
		length = r.New.Sectors()
	}

	if offset > 0 && uint64(offset) < length {
		shift := uint64(offset)
		return Offset{
			Offset: offset,
			Inner: OffsetCoordinates{
				Skip:   r.Old.Start,
				Length: length - shift,
			},
			Overlap: &OffsetCoordinates{
				Skip:   r.Old.Start + length - shift,
				Length: shift,
			},
		}
	}

	return Offset{
		Offset: offset,
		Inner: OffsetCoordinates{
			Skip:   r.Old.Start,
			Length: length,
		},
	}
}
