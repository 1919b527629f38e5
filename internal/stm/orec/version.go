package orec

import "strconv"

// Version is the content of an ownership record.
//
// Layout: [Lock:1][Value:63]. When Lock is clear Value is the clock time
// of the last commit that wrote a word covered by the orec. When Lock is
// set Value is the id of the transaction holding the orec.
type Version uint64

const (
	// LockBit marks a locked version.
	LockBit Version = 1 << 63

	// valueMask extracts the time or owner id.
	valueMask = LockBit - 1
)

// LockedBy returns the lock word of transaction id.
//
//go:nosplit
func LockedBy(id uint64) Version {
	return LockBit | Version(id)&valueMask
}

// IsLocked reports whether the version is a lock word.
//
//go:nosplit
func (v Version) IsLocked() bool {
	return v&LockBit != 0
}

// Owner returns the id of the lock holder. Only valid when locked.
//
//go:nosplit
func (v Version) Owner() uint64 {
	return uint64(v & valueMask)
}

// Time returns the commit time. Only valid when unlocked.
//
//go:nosplit
func (v Version) Time() uint64 {
	return uint64(v & valueMask)
}

// String formats the version as "@time" or "locked:id".
func (v Version) String() string {
	if v.IsLocked() {
		return "locked:" + strconv.FormatUint(v.Owner(), 10)
	}
	return "@" + strconv.FormatUint(v.Time(), 10)
}
