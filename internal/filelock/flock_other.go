//go:build !unix

package filelock

import "os"

// Without flock the lock only guards against this process.

func lockFile(*os.File, bool) error { return nil }

func unlockFile(*os.File) error { return nil }

func isWouldBlock(error) bool { return false }
