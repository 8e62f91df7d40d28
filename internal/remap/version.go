package remap

import "regexp"

// Version is the access widener format version named in the header.
type Version int

const (
	V1 Version = iota + 1
	V2
)

var (
	// v1Separator matches the JVM \s class, which unlike Go's \s includes \v.
	v1Separator = regexp.MustCompile(`[ \t\n\x0B\f\r]+`)
	v2Separator = regexp.MustCompile(`[ \t]+`)
)

// ParseVersion maps a header version token to a Version.
func ParseVersion(s string) (Version, bool) {
	switch s {
	case "v1":
		return V1, true
	case "v2":
		return V2, true
	}
	return 0, false
}

// Separator returns the field separator pattern of the version.
func (v Version) Separator() *regexp.Regexp {
	if v == V2 {
		return v2Separator
	}
	return v1Separator
}

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	}
	return "unknown"
}
