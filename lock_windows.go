//go:build windows

package csvrecord

import "golang.org/x/sys/windows"

const lockSupported = true

// lockShared locks the first byte range of the file for shared access, which is how
// Windows expresses a whole-file read lock.
func lockShared(fd uintptr) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(fd), 0, 0, 1, 0, ol)
}

func unlock(fd uintptr) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(fd), 0, 1, 0, ol)
}
