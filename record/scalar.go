// Package record implements the typed scalar and key/value record model:
// a closed set of five scalar variants, their total order, and their
// on-disk wire encoding.
package record

import (
	"fmt"
	"math"
)

// Tag identifies which of the five scalar variants a value holds. The tag
// is part of a scalar's identity on disk — see Write/Read.
type Tag uint32

const (
	TagInt Tag = iota
	TagLong
	TagDouble
	TagChar
	TagString
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "INT"
	case TagLong:
		return "LONG"
	case TagDouble:
		return "DOUBLE"
	case TagChar:
		return "CHAR"
	case TagString:
		return "STRING"
	default:
		return fmt.Sprintf("Tag(%d)", uint32(t))
	}
}

func (t Tag) valid() bool {
	return t <= TagString
}

func (t Tag) numeric() bool {
	return t == TagInt || t == TagLong || t == TagDouble
}

// Scalar is a tagged union over {INT, LONG, DOUBLE, CHAR, STRING}. The
// zero Scalar is the INT zero value, which callers rarely want directly —
// use the constructors below.
type Scalar struct {
	tag Tag
	i32 int32
	i64 int64
	f64 float64
	s   string // backing bytes for CHAR and STRING
}

// Int builds an INT scalar.
func Int(v int32) Scalar { return Scalar{tag: TagInt, i32: v} }

// Long builds a LONG scalar.
func Long(v int64) Scalar { return Scalar{tag: TagLong, i64: v} }

// Double builds a DOUBLE scalar.
func Double(v float64) Scalar { return Scalar{tag: TagDouble, f64: v} }

// Char builds a CHAR scalar from a single rune. At the wire level a CHAR
// is represented as its 1-character UTF-8 encoding.
func Char(r rune) Scalar { return Scalar{tag: TagChar, s: string(r)} }

// String builds a STRING scalar.
func String(v string) Scalar { return Scalar{tag: TagString, s: v} }

// Tag reports which variant the scalar holds.
func (s Scalar) Tag() Tag { return s.tag }

// Int32 returns the raw value for an INT scalar; the result is meaningless
// for other tags.
func (s Scalar) Int32() int32 { return s.i32 }

// Int64 returns the raw value for a LONG scalar; the result is meaningless
// for other tags.
func (s Scalar) Int64() int64 { return s.i64 }

// Float64 returns the raw value for a DOUBLE scalar; the result is
// meaningless for other tags.
func (s Scalar) Float64() float64 { return s.f64 }

// Text returns the backing bytes for a CHAR or STRING scalar; the result
// is meaningless for other tags.
func (s Scalar) Text() string { return s.s }

// numericValue widens a numeric scalar to float64 for cross-tag comparison.
func (s Scalar) numericValue() float64 {
	switch s.tag {
	case TagInt:
		return float64(s.i32)
	case TagLong:
		return float64(s.i64)
	case TagDouble:
		return s.f64
	default:
		return math.NaN()
	}
}

// String renders the scalar for logs and error messages: tag-prefixed for
// numeric variants, quoted for char/string.
func (s Scalar) String() string {
	switch s.tag {
	case TagInt:
		return fmt.Sprintf("INT(%d)", s.i32)
	case TagLong:
		return fmt.Sprintf("LONG(%d)", s.i64)
	case TagDouble:
		return fmt.Sprintf("DOUBLE(%g)", s.f64)
	case TagChar:
		return fmt.Sprintf("CHAR(%q)", s.s)
	case TagString:
		return fmt.Sprintf("STRING(%q)", s.s)
	default:
		return fmt.Sprintf("Scalar(tag=%d)", s.tag)
	}
}

// IsZero reports whether the scalar equals the zero value of its own tag:
// numeric zero, the empty string, or the null char. This is the sole
// "emptiness" predicate used by Record.IsEmpty.
func (s Scalar) IsZero() bool {
	switch s.tag {
	case TagInt:
		return s.i32 == 0
	case TagLong:
		return s.i64 == 0
	case TagDouble:
		return s.f64 == 0
	case TagChar:
		return s.s == "" || s.s == "\x00"
	case TagString:
		return s.s == ""
	default:
		return true
	}
}

// Ordering is the result of comparing two scalars or records.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// Compare implements the total order from spec.md §3:
//   - two numeric scalars compare by value after widening to float64
//   - two string/char scalars compare lexicographically by byte sequence
//     (a CHAR acts as a 1-byte string at this level)
//   - any numeric scalar is strictly less than any string/char scalar
func Compare(a, b Scalar) Ordering {
	aNum, bNum := a.tag.numeric(), b.tag.numeric()

	switch {
	case aNum && bNum:
		av, bv := a.numericValue(), b.numericValue()
		switch {
		case av < bv:
			return Less
		case av > bv:
			return Greater
		default:
			return Equal
		}
	case !aNum && !bNum:
		switch {
		case a.s < b.s:
			return Less
		case a.s > b.s:
			return Greater
		default:
			return Equal
		}
	case aNum && !bNum:
		return Less
	default: // !aNum && bNum
		return Greater
	}
}

// Equal reports whether a and b are equal under Compare — including
// across numeric tags, so Int(100) == Long(100) == Double(100.0).
func Equal(a, b Scalar) bool {
	return Compare(a, b) == Equal
}
