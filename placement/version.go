// Package placement lays out finder patterns, alignment patterns, the
// metadata ring, and the data-module scan order for a JABCode symbol
// matrix, and scores/applies the eight masking patterns.
package placement

import "fmt"

// MinVersion and MaxVersion bound the per-axis version range; side size is
// S = 4*v + 17, so versions 1..32 produce sides 21..145.
const (
	MinVersion = 1
	MaxVersion = 32
)

// SizeForVersion converts a symbol version (1..32) to its side length in
// modules.
func SizeForVersion(v int) (int, error) {
	if v < MinVersion || v > MaxVersion {
		return 0, fmt.Errorf("placement: version %d out of range [%d,%d]", v, MinVersion, MaxVersion)
	}
	return 4*v + 17, nil
}

// VersionForSize is the inverse of SizeForVersion: VERSION = (SIZE-17)/4.
func VersionForSize(side int) (int, error) {
	if (side-17)%4 != 0 {
		return 0, fmt.Errorf("placement: side %d is not a valid (4v+17) size", side)
	}
	v := (side - 17) / 4
	if v < MinVersion || v > MaxVersion {
		return 0, fmt.Errorf("placement: side %d implies version %d out of range", side, v)
	}
	return v, nil
}

// FinderSize is the fixed 7x7 footprint of a finder pattern.
const FinderSize = 7

// AlignmentSize is the fixed 5x5 footprint of an alignment pattern.
const AlignmentSize = 5

// QuietZoneModules is the number of blank modules of border added around
// the symbol on all four sides during rasterization (§4.5 step 8).
const QuietZoneModules = 4
