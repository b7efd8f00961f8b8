package sexp

import (
	"math"

	"github.com/rdatakit/rdata/errs"
)

// maxCompactSeqLen bounds expansion of compact sequences, whose claimed
// length has no stream bytes backing it.
const maxCompactSeqLen = int64(1)<<31 - 1

// readAltrep decodes a version-3 ALTREP record: class info, state, and a
// trailing attribute pairlist. Only the materializable classes are
// expanded; anything else is refused rather than guessed at.
func (d *Decoder) readAltrep(start int64) (*Node, error) {
	if d.version < 3 {
		return nil, errs.At(start, errs.ErrMalformedRecord, "ALTREP record in version %d stream", d.version)
	}

	info, err := d.ReadItem()
	if err != nil {
		return nil, err
	}
	state, err := d.ReadItem()
	if err != nil {
		return nil, err
	}
	attrObj, err := d.ReadItem()
	if err != nil {
		return nil, err
	}

	if info.Kind != KindPairlist || len(info.Pairs) == 0 || info.Pairs[0].Value.Kind != KindSymbol {
		return nil, errs.At(start, errs.ErrMalformedRecord, "ALTREP class info is not a symbol-led pairlist")
	}
	class := info.Pairs[0].Value.Str

	var node *Node
	switch class {
	case "compact_intseq":
		node, err = expandCompactSeq(state, KindInteger, start)
	case "compact_realseq":
		node, err = expandCompactSeq(state, KindReal, start)
	case "wrap_logical", "wrap_integer", "wrap_real", "wrap_string", "wrap_raw":
		node, err = unwrap(state, start)
	default:
		return nil, errs.At(start, errs.ErrUnsupportedType, "ALTREP class %q", class)
	}
	if err != nil {
		return nil, err
	}

	switch attrObj.Kind {
	case KindNull:
	case KindPairlist:
		attrs := make([]Attr, 0, len(attrObj.Pairs))
		for _, p := range attrObj.Pairs {
			if p.Tag == "" {
				return nil, errs.At(start, errs.ErrMalformedRecord, "ALTREP attribute without a name")
			}
			attrs = append(attrs, Attr{Name: p.Tag, Value: p.Value})
		}
		node.Attrs = attrs
	default:
		return nil, errs.At(start, errs.ErrMalformedRecord, "ALTREP attributes are %s, want pairlist", attrObj.Kind)
	}

	return node, nil
}

// unwrap extracts the payload vector a wrap_* wrapper carries as the first
// cell of its state pairlist. The payload is copied shallowly so attributes
// attached afterwards stay owned by this node.
func unwrap(state *Node, start int64) (*Node, error) {
	if state.Kind != KindPairlist || len(state.Pairs) == 0 {
		return nil, errs.At(start, errs.ErrMalformedRecord, "ALTREP wrapper state is not a pairlist")
	}
	payload := state.Pairs[0].Value
	switch payload.Kind {
	case KindLogical, KindInteger, KindReal, KindString, KindRaw:
		clone := *payload
		return &clone, nil
	default:
		return nil, errs.At(start, errs.ErrMalformedRecord, "ALTREP wrapped payload is %s, want vector", payload.Kind)
	}
}

// expandCompactSeq materializes a compact_intseq/compact_realseq state,
// three doubles holding (length, first, step).
func expandCompactSeq(state *Node, kind Kind, start int64) (*Node, error) {
	if state.Kind != KindReal || len(state.Reals) != 3 {
		return nil, errs.At(start, errs.ErrMalformedRecord, "compact sequence state must be three doubles")
	}
	length, first, step := state.Reals[0], state.Reals[1], state.Reals[2]
	if length != math.Trunc(length) || length < 0 || int64(length) > maxCompactSeqLen {
		return nil, errs.At(start, errs.ErrMalformedRecord, "compact sequence length %v", length)
	}

	n := int64(length)
	if kind == KindInteger {
		ints := make([]int32, n)
		v := first
		for i := range ints {
			ints[i] = int32(v)
			v += step
		}

		return &Node{Kind: KindInteger, Ints: ints}, nil
	}

	reals := make([]float64, n)
	v := first
	for i := range reals {
		reals[i] = v
		v += step
	}

	return &Node{Kind: KindReal, Reals: reals}, nil
}
