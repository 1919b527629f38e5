package itm

import (
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/kolkov/stminst/internal/stm/word"
)

// Version information for the barrier surface.
const (
	// Version is the current version of the barrier surface.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes the barrier surface on the running platform.
type Info struct {
	// Version is the barrier surface version string.
	Version string

	// WordSize is the byte size of a transactional word.
	WordSize int

	// BigEndian reports the byte order masks are built for.
	BigEndian bool

	// HasAVX reports hardware support for 256-bit vectors. M256 barriers
	// work either way.
	HasAVX bool

	// Arch is the GOARCH the program was built for.
	Arch string
}

// GetInfo returns information about the barrier surface.
//
// Example:
//
//	info := itm.GetInfo()
//	fmt.Printf("itm %s (%d-byte words)\n", info.Version, info.WordSize)
func GetInfo() Info {
	return Info{
		Version:   Version,
		WordSize:  int(word.Size),
		BigEndian: cpu.IsBigEndian,
		HasAVX:    cpu.X86.HasAVX,
		Arch:      runtime.GOARCH,
	}
}
