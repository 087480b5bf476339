package wfs

import "fmt"

// Version is a BCD-free protocol version packed the way it travels on
// the wire: major in the low byte, minor in the high byte.
type Version uint16

func NewVersion(major, minor uint8) Version {
	return Version(uint16(minor)<<8 | uint16(major))
}

// ParseVersion unpacks a version word.
func ParseVersion(word uint16) Version {
	return Version(word)
}

func (v Version) Major() uint8 { return uint8(v & 0xff) }
func (v Version) Minor() uint8 { return uint8(v >> 8) }

// Word returns the packed wire encoding.
func (v Version) Word() uint16 { return uint16(v) }

// Compare orders versions by (major, minor). The packed word itself
// does not sort correctly because minor lives in the high byte.
func (v Version) Compare(other Version) int {
	if v.Major() != other.Major() {
		if v.Major() < other.Major() {
			return -1
		}
		return 1
	}
	if v.Minor() != other.Minor() {
		if v.Minor() < other.Minor() {
			return -1
		}
		return 1
	}
	return 0
}

func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%02d", v.Major(), v.Minor())
}

// VersionRange is an inclusive version span. The wire encoding packs
// the start version in the high word and the end version in the low
// word of a single dword.
type VersionRange struct {
	Start Version
	End   Version
}

func NewVersionRange(start, end Version) VersionRange {
	return VersionRange{Start: start, End: end}
}

// ParseVersionRange unpacks a range dword.
func ParseVersionRange(dword uint32) VersionRange {
	return VersionRange{
		Start: ParseVersion(uint16(dword >> 16)),
		End:   ParseVersion(uint16(dword & 0xffff)),
	}
}

// Dword returns the packed wire encoding.
func (r VersionRange) Dword() uint32 {
	return uint32(r.Start.Word())<<16 | uint32(r.End.Word())
}

// Valid reports whether the range is well-formed, start not above end.
func (r VersionRange) Valid() bool {
	return !r.End.Less(r.Start)
}

// Contains reports whether v falls inside the range.
func (r VersionRange) Contains(v Version) bool {
	return !v.Less(r.Start) && !r.End.Less(v)
}

func (r VersionRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// VersionInfo is the negotiation report filled in during StartUp and
// provider Open: the version actually selected, the full span the
// implementation supports, and human-readable status text.
type VersionInfo struct {
	Version      Version
	LowVersion   Version
	HighVersion  Version
	Description  string
	SystemStatus string
}
