package record

import "fmt"

// RID identifies a record by block number and slot (spec §3).
type RID struct {
	BlockNumber int
	Slot        int
}

// NewRID builds a RID.
func NewRID(blockNumber, slot int) RID {
	return RID{BlockNumber: blockNumber, Slot: slot}
}

// Equals reports structural equality.
func (r RID) Equals(other RID) bool {
	return r.BlockNumber == other.BlockNumber && r.Slot == other.Slot
}

func (r RID) String() string {
	return fmt.Sprintf("[%d, %d]", r.BlockNumber, r.Slot)
}
