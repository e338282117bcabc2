//go:build windows

package wallet

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// lockSeed attempts to pin the seed buffer in RAM so it is never swapped
// to disk. Best effort: failure is not an error.
func lockSeed(seed []byte) {
	if len(seed) == 0 {
		return
	}
	_ = windows.VirtualLock(uintptr(unsafe.Pointer(&seed[0])), uintptr(len(seed)))
}

// unlockSeed releases the lock before the buffer is zeroed and freed.
func unlockSeed(seed []byte) {
	if len(seed) == 0 {
		return
	}
	_ = windows.VirtualUnlock(uintptr(unsafe.Pointer(&seed[0])), uintptr(len(seed)))
}
