// Package rng implements the 64-bit linear congruential generator behind
// every stochastic decision in the trainer: window jitter, subsampling,
// negative-sample target draws, and tensor initialization. It is
// deliberately not math/rand — every consumer needs the exact recurrence
// so that each worker's stream is independent and cheap (one multiply-add,
// no locking, no syscalls).
package rng

// Multiplier and Increment are the LCG recurrence constants.
const (
	Multiplier uint64 = 25214903917
	Increment  uint64 = 11
)

// State is a single-goroutine LCG stream. Each training worker owns one,
// seeded from its worker index so worker streams never share state.
type State uint64

// New seeds a stream.
func New(seed uint64) State {
	return State(seed)
}

// Next advances the stream and returns the new raw 64-bit value.
func (s *State) Next() uint64 {
	*s = State(uint64(*s)*Multiplier + Increment)
	return uint64(*s)
}

// Float01 advances the stream and returns a float in [0, 1), taking the
// high 16 bits of the raw value the same way the training loop derives
// subsampling decisions.
func (s *State) Float01() float64 {
	r := s.Next()
	return float64(r>>48) / 65536.0
}
