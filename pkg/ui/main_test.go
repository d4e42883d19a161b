package ui

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Debug logging writes to the state dir; keep tests quiet and hermetic.
	os.Unsetenv("PT_DEBUG")
	os.Setenv("XDG_STATE_HOME", os.TempDir())

	os.Exit(m.Run())
}
