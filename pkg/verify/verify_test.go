package verify

import "testing"

func TestRoundTripExhaustive(t *testing.T) {
	failures := RoundTrip()
	if len(failures) != 0 {
		t.Fatalf("%d round-trip failures, first: %v", len(failures), failures[0])
	}
}

func TestFlagInvariantsExhaustive(t *testing.T) {
	failures := FlagInvariants()
	if len(failures) != 0 {
		t.Fatalf("%d flag-invariant failures, first: %v", len(failures), failures[0])
	}
}

func TestLatchExclusivityOnBasicProgram(t *testing.T) {
	programs := [][]byte{
		[]byte("MOVI R1, 5\nMOVI R2, 3\nADD R1, R2\n"),
		[]byte("MOVI R1, 0\nBEQZ R1, 2\nMOVI R2, 99\nMOVI R3, 7\n"),
	}
	failures := LatchExclusivity(programs)
	if len(failures) != 0 {
		t.Fatalf("%d latch-exclusivity failures, first: %v", len(failures), failures[0])
	}
}
