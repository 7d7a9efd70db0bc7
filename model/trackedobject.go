package model

// OrbitSource indicates where a tracked object's trajectory comes from.
type OrbitSource int

const (
	OrbitSourceUnknown OrbitSource = iota
	OrbitSourceTLE                 // two-line element propagation
	OrbitSourceUpload              // pre-computed samples supplied by the caller
)

// TrackedObject represents one satellite (or other object) whose ground
// track is displayed. Identity and orbit-source only; the trajectory itself
// lives in the session knowledge base so it can be replaced atomically.
type TrackedObject struct {
	ID   string
	Name string

	Source OrbitSource

	// TLELine1 and TLELine2 hold the fixed-width element lines when
	// Source == OrbitSourceTLE. They arrive pre-validated by the caller.
	TLELine1 string
	TLELine2 string

	NoradID uint32 // optional; useful when Source == OrbitSourceTLE
}
