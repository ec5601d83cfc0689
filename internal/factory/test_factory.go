package factory

import (
	"time"

	"github.com/psn-tools/psnemu/internal/dependencies/mocks"
	"github.com/psn-tools/psnemu/internal/storage/memory"
	"github.com/psn-tools/psnemu/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing: a fresh in-memory store
// per call with mocked clock and randomness, so no state leaks between test
// cases
func NewTestApp() (*TestApp, error) {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, Config{}, testutil.NopLogger())

	if err := seedCredentials(store, mockClock); err != nil {
		return nil, err
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}, nil
}
