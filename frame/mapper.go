package frame

import (
	"fmt"
	"math"

	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
	"github.com/rdatakit/rdata/sexp"
)

// Value is the generic decode product. At most one payload field is set; a
// fully zero Value represents NULL.
type Value struct {
	// Table is set when the node assembled into a data frame.
	Table *Table

	// Column is set for atomic vectors.
	Column *Column

	// List and Names hold a generic (non data frame) list and its names
	// attribute; Names is nil for unnamed lists.
	List  []Value
	Names []string

	// Raw holds a raw byte vector.
	Raw []byte
}

// IsNull reports whether the value represents NULL.
func (v Value) IsNull() bool {
	return v.Table == nil && v.Column == nil && v.List == nil && v.Raw == nil
}

// Mapper converts decoded nodes into typed columns, tables, and values.
type Mapper struct {
	// DefaultTimeZone labels DateTime columns carrying no tzone
	// attribute. Empty means UTC.
	DefaultTimeZone string
}

// MapValue converts one decoded node into its generic value form.
func (m Mapper) MapValue(n *sexp.Node) (Value, error) {
	switch n.Kind {
	case sexp.KindNull:
		return Value{}, nil

	case sexp.KindList:
		if IsDataFrame(n) {
			t, err := m.Assemble(n)
			if err != nil {
				return Value{}, err
			}

			return Value{Table: t}, nil
		}

		vals := make([]Value, 0, len(n.Elems))
		for i, e := range n.Elems {
			v, err := m.MapValue(e)
			if err != nil {
				return Value{}, fmt.Errorf("list element %d: %w", i, err)
			}
			vals = append(vals, v)
		}

		return Value{List: vals, Names: namesAttr(n, len(n.Elems))}, nil

	case sexp.KindPairlist:
		vals := make([]Value, 0, len(n.Pairs))
		names := make([]string, 0, len(n.Pairs))
		for i, p := range n.Pairs {
			v, err := m.MapValue(p.Value)
			if err != nil {
				return Value{}, fmt.Errorf("pairlist element %d: %w", i, err)
			}
			vals = append(vals, v)
			names = append(names, p.Tag)
		}

		return Value{List: vals, Names: names}, nil

	case sexp.KindLogical, sexp.KindInteger, sexp.KindReal, sexp.KindString:
		col, err := m.MapColumn(n, "")
		if err != nil {
			return Value{}, err
		}

		return Value{Column: col}, nil

	case sexp.KindRaw:
		return Value{Raw: n.Bytes}, nil

	case sexp.KindUnsupported:
		return Value{}, fmt.Errorf("%w: %s in value position", errs.ErrUnsupportedType, n.Str)

	default:
		return Value{}, fmt.Errorf("%w: %s in value position", errs.ErrUnsupportedType, n.Kind)
	}
}

// MapColumn converts an atomic vector node into a typed column, deciding
// the semantic type from the node's class attribute. Unknown classes pass
// through as the underlying vector type.
func (m Mapper) MapColumn(n *sexp.Node, name string) (*Column, error) {
	switch n.Kind {
	case sexp.KindInteger:
		switch {
		case n.HasClass("factor"):
			return mapFactor(n, name)
		case n.HasClass("Date"):
			return mapIntegerDate(n, name), nil
		default:
			return mapInteger(n, name), nil
		}

	case sexp.KindReal:
		switch {
		case n.HasClass("Date"):
			return mapRealDate(n, name)
		case n.HasClass("POSIXct"):
			return m.mapDateTime(n, name), nil
		default:
			return mapDouble(n, name), nil
		}

	case sexp.KindLogical:
		return mapLogical(n, name), nil

	case sexp.KindString:
		return mapCharacter(n, name), nil

	default:
		return nil, fmt.Errorf("%w: %s where an atomic vector was expected", errs.ErrUnsupportedType, n.Kind)
	}
}

func mapInteger(n *sexp.Node, name string) *Column {
	col := &Column{Name: name, Type: TypeInteger, Ints: n.Ints, Missing: make([]bool, len(n.Ints))}
	for i, v := range n.Ints {
		col.Missing[i] = v == format.NAInteger
	}

	return col
}

func mapDouble(n *sexp.Node, name string) *Column {
	col := &Column{Name: name, Type: TypeDouble, Reals: n.Reals, Missing: make([]bool, len(n.Reals))}
	for i, v := range n.Reals {
		col.Missing[i] = format.IsNAReal(v)
	}

	return col
}

func mapLogical(n *sexp.Node, name string) *Column {
	col := &Column{
		Name:     name,
		Type:     TypeLogical,
		Logicals: make([]bool, len(n.Ints)),
		Missing:  make([]bool, len(n.Ints)),
	}
	for i, v := range n.Ints {
		if v == format.NAInteger {
			col.Missing[i] = true
			continue
		}
		col.Logicals[i] = v != 0
	}

	return col
}

func mapCharacter(n *sexp.Node, name string) *Column {
	col := &Column{
		Name:    name,
		Type:    TypeCharacter,
		Strings: make([]string, len(n.Chars)),
		Missing: make([]bool, len(n.Chars)),
	}
	for i, c := range n.Chars {
		if c.NA {
			col.Missing[i] = true
			continue
		}
		col.Strings[i] = c.Text()
	}

	return col
}

func mapFactor(n *sexp.Node, name string) (*Column, error) {
	levels := n.Attr("levels")
	if levels == nil || levels.Kind != sexp.KindString {
		return nil, fmt.Errorf("%w: factor %q has no levels attribute", errs.ErrMalformedRecord, name)
	}

	col := &Column{
		Name:    name,
		Type:    TypeFactor,
		Ints:    n.Ints,
		Missing: make([]bool, len(n.Ints)),
		Levels:  make([]string, 0, len(levels.Chars)),
	}
	for _, l := range levels.Chars {
		col.Levels = append(col.Levels, l.Text())
	}
	for i, v := range n.Ints {
		if v == format.NAInteger {
			col.Missing[i] = true
			continue
		}
		if v < 1 || int(v) > len(col.Levels) {
			return nil, fmt.Errorf("%w: factor %q code %d outside levels 1..%d",
				errs.ErrMalformedRecord, name, v, len(col.Levels))
		}
	}

	return col, nil
}

// mapRealDate maps a double-backed Date vector. Day counts must be whole:
// a fractional value signals a corrupted or mislabeled column and is never
// truncated silently.
func mapRealDate(n *sexp.Node, name string) (*Column, error) {
	col := &Column{Name: name, Type: TypeDate, Reals: n.Reals, Missing: make([]bool, len(n.Reals))}
	for i, v := range n.Reals {
		if format.IsNAReal(v) {
			col.Missing[i] = true
			continue
		}
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: column %q row %d holds %v days", errs.ErrInvalidDateValue, name, i, v)
		}
	}

	return col, nil
}

func mapIntegerDate(n *sexp.Node, name string) *Column {
	col := &Column{
		Name:    name,
		Type:    TypeDate,
		Reals:   make([]float64, len(n.Ints)),
		Missing: make([]bool, len(n.Ints)),
	}
	for i, v := range n.Ints {
		if v == format.NAInteger {
			col.Missing[i] = true
			continue
		}
		col.Reals[i] = float64(v)
	}

	return col
}

func (m Mapper) mapDateTime(n *sexp.Node, name string) *Column {
	col := &Column{
		Name:     name,
		Type:     TypeDateTime,
		Reals:    n.Reals,
		Missing:  make([]bool, len(n.Reals)),
		TimeZone: m.DefaultTimeZone,
	}
	if tz := n.Attr("tzone"); tz != nil && tz.Kind == sexp.KindString && len(tz.Chars) > 0 && !tz.Chars[0].NA {
		if label := tz.Chars[0].Text(); label != "" {
			col.TimeZone = label
		}
	}
	for i, v := range n.Reals {
		col.Missing[i] = format.IsNAReal(v)
	}

	return col
}

// namesAttr extracts a names attribute matching the element count, nil
// otherwise.
func namesAttr(n *sexp.Node, want int) []string {
	names := n.Attr("names")
	if names == nil || names.Kind != sexp.KindString || len(names.Chars) != want {
		return nil
	}
	out := make([]string, want)
	for i, c := range names.Chars {
		out[i] = c.Text()
	}

	return out
}
