package frame

import (
	"math"
	"time"
)

// Type is the semantic type of a column.
type Type uint8

const (
	TypeInteger Type = iota + 1
	TypeDouble
	TypeLogical
	TypeCharacter
	TypeFactor
	TypeDate
	TypeDateTime
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeDouble:
		return "Double"
	case TypeLogical:
		return "Logical"
	case TypeCharacter:
		return "Character"
	case TypeFactor:
		return "Factor"
	case TypeDate:
		return "Date"
	case TypeDateTime:
		return "DateTime"
	default:
		return "Unknown"
	}
}

// Column is one typed, named sequence of values with per-element missing
// flags. The populated storage slice depends on Type:
//
//	TypeInteger    Ints
//	TypeDouble     Reals
//	TypeLogical    Logicals
//	TypeCharacter  Strings
//	TypeFactor     Ints (1-based level indices) plus Levels
//	TypeDate       Reals (whole days since 1970-01-01)
//	TypeDateTime   Reals (seconds since the epoch, may be fractional)
//
// Storage at missing positions is unspecified; consult Missing first.
type Column struct {
	Name    string
	Type    Type
	Missing []bool

	Ints     []int32
	Reals    []float64
	Logicals []bool
	Strings  []string

	// Levels holds the factor level labels, in level order.
	Levels []string

	// TimeZone is the zone label of a DateTime column. It is metadata
	// only: the stored values are epoch seconds regardless of zone.
	TimeZone string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.Missing)
}

// Label returns the factor label at row i, or "" when the entry is
// missing.
func (c *Column) Label(i int) string {
	if c.Missing[i] {
		return ""
	}

	return c.Levels[c.Ints[i]-1]
}

// Time returns the time value at row i of a Date or DateTime column, in
// UTC. The zero time is returned for missing entries and other column
// types.
func (c *Column) Time(i int) time.Time {
	if c.Missing[i] {
		return time.Time{}
	}
	switch c.Type {
	case TypeDate:
		return time.Unix(int64(c.Reals[i])*86400, 0).UTC()
	case TypeDateTime:
		sec, frac := math.Modf(c.Reals[i])
		return time.Unix(int64(sec), int64(frac*1e9)).UTC()
	default:
		return time.Time{}
	}
}
