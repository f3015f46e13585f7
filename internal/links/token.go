package links

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is 32 bytes (256 bits) of entropy, double the 128-bit floor
// required to make guessing infeasible within any link's validity window.
const tokenBytes = 32

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate link token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
