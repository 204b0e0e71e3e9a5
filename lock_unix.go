//go:build unix

package csvrecord

import "golang.org/x/sys/unix"

const lockSupported = true

// lockShared takes a blocking shared flock on fd.
func lockShared(fd uintptr) error {
	for {
		err := unix.Flock(int(fd), unix.LOCK_SH)
		if err != unix.EINTR {
			return err
		}
	}
}

func unlock(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_UN)
}
