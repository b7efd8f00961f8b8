package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
	"github.com/rdatakit/rdata/sexp"
)

// dataFrameNode builds a two-column frame node with the compact row.names
// form, the shape R emits for an ordinary data.frame.
func dataFrameNode(nrows int32) *sexp.Node {
	ints := make([]int32, nrows)
	strs := make([]*sexp.Node, nrows)
	for i := range ints {
		ints[i] = int32(i + 1)
		strs[i] = charNode(string(rune('a' + i)))
	}

	return &sexp.Node{
		Kind: sexp.KindList,
		Elems: []*sexp.Node{
			{Kind: sexp.KindInteger, Ints: ints},
			{Kind: sexp.KindString, Chars: strs},
		},
		Object: true,
		Attrs: []sexp.Attr{
			{Name: "names", Value: stringNode("x", "y")},
			{Name: "row.names", Value: &sexp.Node{
				Kind: sexp.KindInteger,
				Ints: []int32{format.NAInteger, -nrows},
			}},
			{Name: "class", Value: stringNode("data.frame")},
		},
	}
}

func TestIsDataFrame(t *testing.T) {
	require.True(t, IsDataFrame(dataFrameNode(1)))
	require.False(t, IsDataFrame(&sexp.Node{Kind: sexp.KindList}))
	require.False(t, IsDataFrame(classed(&sexp.Node{Kind: sexp.KindInteger}, "data.frame")))
}

func TestAssemble(t *testing.T) {
	table, err := Mapper{}.Assemble(dataFrameNode(3))
	require.NoError(t, err)

	require.Equal(t, 3, table.NRows)
	require.Nil(t, table.RowNames)
	require.Equal(t, []string{"x", "y"}, table.ColumnNames())

	x := table.Column("x")
	require.NotNil(t, x)
	require.Equal(t, TypeInteger, x.Type)
	require.Equal(t, []int32{1, 2, 3}, x.Ints)

	y := table.Column("y")
	require.NotNil(t, y)
	require.Equal(t, TypeCharacter, y.Type)
	require.Equal(t, []string{"a", "b", "c"}, y.Strings)

	require.Nil(t, table.Column("z"))
}

func TestAssembleExplicitRowNames(t *testing.T) {
	t.Run("Strings", func(t *testing.T) {
		node := dataFrameNode(2)
		node.Attrs[1].Value = stringNode("first", "second")

		table, err := Mapper{}.Assemble(node)
		require.NoError(t, err)
		require.Equal(t, []string{"first", "second"}, table.RowNames)
	})

	t.Run("Integers", func(t *testing.T) {
		node := dataFrameNode(2)
		node.Attrs[1].Value = &sexp.Node{Kind: sexp.KindInteger, Ints: []int32{5, 7}}

		table, err := Mapper{}.Assemble(node)
		require.NoError(t, err)
		require.Equal(t, []string{"5", "7"}, table.RowNames)
	})
}

func TestAssembleMalformed(t *testing.T) {
	t.Run("MissingNames", func(t *testing.T) {
		node := dataFrameNode(2)
		node.Attrs = node.Attrs[1:]

		_, err := Mapper{}.Assemble(node)
		require.ErrorIs(t, err, errs.ErrMalformedDataFrame)
	})

	t.Run("NameCountMismatch", func(t *testing.T) {
		node := dataFrameNode(2)
		node.Attrs[0].Value = stringNode("x")

		_, err := Mapper{}.Assemble(node)
		require.ErrorIs(t, err, errs.ErrMalformedDataFrame)
	})

	t.Run("RaggedColumns", func(t *testing.T) {
		node := dataFrameNode(2)
		node.Elems[0].Ints = append(node.Elems[0].Ints, 9)

		_, err := Mapper{}.Assemble(node)
		require.ErrorIs(t, err, errs.ErrMalformedDataFrame)
	})

	t.Run("RowCountMismatch", func(t *testing.T) {
		node := dataFrameNode(2)
		node.Attrs[1].Value = &sexp.Node{
			Kind: sexp.KindInteger,
			Ints: []int32{format.NAInteger, -5},
		}

		_, err := Mapper{}.Assemble(node)
		require.ErrorIs(t, err, errs.ErrMalformedDataFrame)
	})

	t.Run("RowNamesWrongKind", func(t *testing.T) {
		node := dataFrameNode(2)
		node.Attrs[1].Value = &sexp.Node{Kind: sexp.KindReal, Reals: []float64{1, 2}}

		_, err := Mapper{}.Assemble(node)
		require.ErrorIs(t, err, errs.ErrMalformedDataFrame)
	})

	t.Run("ColumnErrorNamesColumn", func(t *testing.T) {
		node := dataFrameNode(2)
		node.Elems[1] = classed(&sexp.Node{Kind: sexp.KindReal, Reals: []float64{0.5, 1}}, "Date")

		_, err := Mapper{}.Assemble(node)
		require.ErrorIs(t, err, errs.ErrInvalidDateValue)
		require.ErrorContains(t, err, `column "y"`)
	})
}

func TestAssembleEmptyFrame(t *testing.T) {
	node := &sexp.Node{
		Kind:   sexp.KindList,
		Object: true,
		Attrs: []sexp.Attr{
			{Name: "names", Value: &sexp.Node{Kind: sexp.KindString}},
			{Name: "row.names", Value: &sexp.Node{
				Kind: sexp.KindInteger,
				Ints: []int32{format.NAInteger, -4},
			}},
			{Name: "class", Value: stringNode("data.frame")},
		},
	}

	table, err := Mapper{}.Assemble(node)
	require.NoError(t, err)
	require.Empty(t, table.Columns)
	require.Equal(t, 4, table.NRows)
}
