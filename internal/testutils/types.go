package testutils

// TestingT is the subset of *testing.T the helpers need.
type TestingT interface {
	Helper()
	Logf(format string, args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Skipf(format string, args ...interface{})
}
