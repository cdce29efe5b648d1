// Package types holds the data model shared across the analyzer engine:
// versions, extensions, installations, paths, findings and results.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a three-component release number with total ordering.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a "X.Y.Z" string. "X.Y" and "X" are also accepted,
// with missing components defaulting to zero.
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 3)
	if len(parts) == 0 || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version string: %q", s)
	}

	nums := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Version{}, fmt.Errorf("invalid version string %q: %w", s, err)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParseVersion panics on invalid input. Intended for tests and
// compile-time-known version literals.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders "X.Y.Z".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return cmpInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmpInt(v.Minor, other.Minor)
	}
	return cmpInt(v.Patch, other.Patch)
}

// IsGreaterThan reports whether v sorts after other.
func (v Version) IsGreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// IsLessThan reports whether v sorts before other.
func (v Version) IsLessThan(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other denote the same release.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
