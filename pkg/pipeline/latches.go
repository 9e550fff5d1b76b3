package pipeline

import "github.com/oisee/pipesim/pkg/inst"

// IFID is the Fetch/Decode latch: one in-flight raw word plus its
// 1-based instruction number. Valid is false when the latch is empty.
type IFID struct {
	Word   uint16
	Number int
	Valid  bool
}

// Clear empties the latch and zeros its fields.
func (l *IFID) Clear() {
	*l = IFID{}
}

// IDEX is the Decode/Execute latch: one fully decoded instruction.
type IDEX struct {
	Decoded inst.Decoded
	Valid   bool
}

// Clear empties the latch.
func (l *IDEX) Clear() {
	*l = IDEX{}
}
