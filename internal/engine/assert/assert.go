// Package assert holds the invariant checks of the string engine.
//
// Checks are compiled in only when building with the ustrdebug tag:
//
//	go test -tags ustrdebug ./...
//
// In regular builds That is a no-op the compiler removes entirely, and a
// violated invariant is undefined behavior. Fatal always panics.
package assert

// That panics with msg when cond is false and Enabled is set.
func That(cond bool, msg string) {
	if Enabled && !cond {
		panic("ustr: invariant violated: " + msg)
	}
}

// Fatal reports an unrecoverable condition such as corrupt input that cannot
// be repaired locally.
func Fatal(msg string) {
	panic("ustr: fatal: " + msg)
}
