package core

// TestReporter is the minimal interface marbles needs from test frameworks.
// testing.T, testing.B, and ginkgo's GinkgoT() all implement this interface.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
