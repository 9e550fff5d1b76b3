package cpu

import (
	"encoding/gob"
	"io"
)

func init() {
	gob.Register(State{})
}

// Snapshot gob-encodes s to w, persisting a simulation's final
// architectural state for golden-file regression comparisons across
// runs.
func Snapshot(w io.Writer, s *State) error {
	return gob.NewEncoder(w).Encode(s)
}

// Restore decodes a State previously written by Snapshot.
func Restore(r io.Reader) (*State, error) {
	var s State
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
