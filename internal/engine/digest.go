package engine

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"lukechampine.com/blake3"
)

// Digest hashes the persistent state of every controller. Peers running the
// same inputs must produce the same digest at the same tick.
func (s *Simulation) Digest() (string, error) {
	data, err := json.Marshal(s.Controllers)
	if err != nil {
		return "", fmt.Errorf("encode controllers: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
