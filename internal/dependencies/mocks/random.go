package mocks

import (
	"fmt"

	"github.com/psn-tools/psnemu/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Values can be queued explicitly; when the queue is empty a deterministic
// sequence is generated so ids remain unique within a test.
type MockRandom struct {
	TokenResults []string
	tokenIndex   int

	HexResults []string
	hexIndex   int

	seq int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Token returns the next queued result, or a generated deterministic value
func (r *MockRandom) Token(nbytes int) string {
	if r.tokenIndex < len(r.TokenResults) {
		result := r.TokenResults[r.tokenIndex]
		r.tokenIndex++
		return result
	}
	r.seq++
	return fmt.Sprintf("mocktoken-%04d", r.seq)
}

// Hex returns the next queued result, or a generated deterministic value
func (r *MockRandom) Hex(nbytes int) string {
	if r.hexIndex < len(r.HexResults) {
		result := r.HexResults[r.hexIndex]
		r.hexIndex++
		return result
	}
	r.seq++
	return fmt.Sprintf("%0*x", nbytes*2, r.seq)
}

// QueueToken adds values to the Token result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.TokenResults = append(r.TokenResults, values...)
}

// QueueHex adds values to the Hex result queue
func (r *MockRandom) QueueHex(values ...string) {
	r.HexResults = append(r.HexResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.TokenResults = nil
	r.tokenIndex = 0
	r.HexResults = nil
	r.hexIndex = 0
	r.seq = 0
}
