// Package filelock provides cross-process mutual exclusion for the saved
// document.
//
// The terminal browser and the capture overlay run as separate processes that
// both rewrite the same data file. Each write holds an exclusive flock(2) on a
// sidecar ".lock" file so one process never renames over a half-written file
// from the other.
//
// # Basic Usage
//
//	l := filelock.New(path + ".lock")
//	if err := l.Lock(); err != nil {
//	    return err
//	}
//	defer func() { _ = l.Unlock() }()
package filelock
