// Package sizeunit parses human readable byte sizes ("8MB", "1024")
// using binary multiples of 1024.
package sizeunit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	Byte int64 = 1
	KB         = Byte << 10
	MB         = KB << 10
	GB         = MB << 10
	TB         = GB << 10
)

// Suffixes are case-sensitive: "8mb" is not a valid size.
var sizeRe = regexp.MustCompile(`^(\d+)(KB|MB|GB|TB)?$`)

var multipliers = map[string]int64{
	"":   Byte,
	"KB": KB,
	"MB": MB,
	"GB": GB,
	"TB": TB,
}

// A ParseError describes a size string that does not match the
// `<digits>[KB|MB|GB|TB]` grammar or does not fit in an int64.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid size value: %q", e.Input)
}

// ParseSize converts a string of digits with an optional KB/MB/GB/TB
// suffix into a byte count.
func ParseSize(s string) (int64, error) {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Input: s}
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, &ParseError{Input: s}
	}
	mult := multipliers[m[2]]
	if n != 0 && n > math.MaxInt64/mult {
		return 0, &ParseError{Input: s}
	}
	return n * mult, nil
}

// Size is a byte count that can be set from the command line.
// It implements pflag.Value.
type Size int64

func (s *Size) Set(value string) error {
	n, err := ParseSize(value)
	if err != nil {
		return err
	}
	*s = Size(n)
	return nil
}

func (s *Size) Type() string { return "size" }

func (s *Size) String() string { return strconv.FormatInt(int64(*s), 10) }
