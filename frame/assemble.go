package frame

import (
	"fmt"
	"strconv"

	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
	"github.com/rdatakit/rdata/sexp"
)

// IsDataFrame reports whether the node has the data frame shape: a generic
// list classed "data.frame".
func IsDataFrame(n *sexp.Node) bool {
	return n.Kind == sexp.KindList && n.HasClass("data.frame")
}

// Assemble builds a Table from a data frame node. Column names come from
// the names attribute, row labels from row.names; all columns must share
// one length.
func (m Mapper) Assemble(n *sexp.Node) (*Table, error) {
	names := n.Attr("names")
	if names == nil || names.Kind != sexp.KindString {
		return nil, fmt.Errorf("%w: missing names attribute", errs.ErrMalformedDataFrame)
	}
	if len(names.Chars) != len(n.Elems) {
		return nil, fmt.Errorf("%w: %d names for %d columns", errs.ErrMalformedDataFrame, len(names.Chars), len(n.Elems))
	}

	cols := make([]Column, 0, len(n.Elems))
	for i, e := range n.Elems {
		name := names.Chars[i].Text()
		col, err := m.MapColumn(e, name)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		cols = append(cols, *col)
	}

	nrows := -1
	for i := range cols {
		if nrows == -1 {
			nrows = cols[i].Len()
			continue
		}
		if cols[i].Len() != nrows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d",
				errs.ErrMalformedDataFrame, cols[i].Name, cols[i].Len(), nrows)
		}
	}

	rowNames, declared, err := rowLabels(n.Attr("row.names"))
	if err != nil {
		return nil, err
	}
	if nrows == -1 {
		// A frame without columns still has a row count when row.names
		// declares one.
		nrows = max(declared, 0)
	}
	if declared >= 0 && declared != nrows {
		return nil, fmt.Errorf("%w: row.names declare %d rows, columns have %d",
			errs.ErrMalformedDataFrame, declared, nrows)
	}
	if rowNames != nil && len(rowNames) != nrows {
		return nil, fmt.Errorf("%w: %d row labels for %d rows",
			errs.ErrMalformedDataFrame, len(rowNames), nrows)
	}

	return &Table{Columns: cols, NRows: nrows, RowNames: rowNames}, nil
}

// rowLabels interprets the row.names attribute. The compact form, a
// two-element integer vector (NA, -n), declares n implicit sequential
// labels; explicit string or integer vectors become literal labels.
// declared is -1 when the attribute carries no row count of its own.
func rowLabels(rn *sexp.Node) (labels []string, declared int, err error) {
	if rn == nil || rn.Kind == sexp.KindNull {
		return nil, -1, nil
	}

	switch rn.Kind {
	case sexp.KindInteger:
		if len(rn.Ints) == 2 && rn.Ints[0] == format.NAInteger {
			n := rn.Ints[1]
			if n < 0 {
				n = -n
			}

			return nil, int(n), nil
		}
		labels = make([]string, len(rn.Ints))
		for i, v := range rn.Ints {
			if v == format.NAInteger {
				labels[i] = "NA"
				continue
			}
			labels[i] = strconv.Itoa(int(v))
		}

		return labels, len(labels), nil

	case sexp.KindString:
		labels = make([]string, len(rn.Chars))
		for i, c := range rn.Chars {
			labels[i] = c.Text()
		}

		return labels, len(labels), nil

	default:
		return nil, -1, fmt.Errorf("%w: row.names are %s, want integer or character",
			errs.ErrMalformedDataFrame, rn.Kind)
	}
}
