//go:build !windows

package wallet

import (
	"golang.org/x/sys/unix"
)

// lockSeed attempts to pin the seed buffer in RAM so it is never swapped
// to disk. Best effort: failure (RLIMIT_MEMLOCK) is not an error.
func lockSeed(seed []byte) {
	if len(seed) == 0 {
		return
	}
	_ = unix.Mlock(seed)
}

// unlockSeed releases the lock before the buffer is zeroed and freed.
func unlockSeed(seed []byte) {
	if len(seed) == 0 {
		return
	}
	_ = unix.Munlock(seed)
}
