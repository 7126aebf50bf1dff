// Package entropy provides seeded, persistable randomness for the few
// decisions that are allowed to be random. Every peer seeded the same way
// draws the same sequence, so results never diverge.
package entropy

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
)

// Source is a deterministic PCG generator whose state can be saved and
// restored with the owning controller.
type Source struct {
	pcg *rand.PCG
	rng *rand.Rand
}

// NewSource seeds a generator. The second PCG word is derived from the
// seed so that two controllers with adjacent seeds still diverge.
func NewSource(seed uint64) *Source {
	pcg := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Source{pcg: pcg, rng: rand.New(pcg)}
}

// IntN returns a value in [0, n). Returns 0 when n <= 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// Pick returns a random index into a slice of length n, or -1 if empty.
func (s *Source) Pick(n int) int {
	if n <= 0 {
		return -1
	}
	return s.rng.IntN(n)
}

// MarshalJSON stores the generator state.
func (s *Source) MarshalJSON() ([]byte, error) {
	state, err := s.pcg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal pcg: %w", err)
	}
	return json.Marshal(state)
}

// UnmarshalJSON restores state written by MarshalJSON.
func (s *Source) UnmarshalJSON(data []byte) error {
	var state []byte
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decode pcg state: %w", err)
	}
	pcg := &rand.PCG{}
	if err := pcg.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("unmarshal pcg: %w", err)
	}
	s.pcg = pcg
	s.rng = rand.New(pcg)
	return nil
}
