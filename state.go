package scratchcard

// RevealState is the controller's position in the reveal cycle.
type RevealState int

const (
	// Covered: the mask is intact or partially eroded and accepts input.
	Covered RevealState = iota
	// Revealing: the threshold was crossed and the mask is fading out.
	Revealing
	// Revealed: the fade finished; only Reset leaves this state.
	Revealed
)

// String returns the state name.
func (s RevealState) String() string {
	switch s {
	case Covered:
		return "Covered"
	case Revealing:
		return "Revealing"
	case Revealed:
		return "Revealed"
	default:
		return "Unknown"
	}
}
