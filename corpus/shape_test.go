package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetlab/formulatree/ftree"
)

func genTree(t *testing.T, tokens []ftree.Token, formula string) *ftree.Node {
	t.Helper()
	root, err := ftree.NewBuilder(ftree.ModeGeneralized).BuildTokens(tokens, 0, ftree.Cell{})
	require.NoError(t, err)
	root.SetOrigLen(len(formula))
	return root
}

func sumTokens(row1, row2 int) []ftree.Token {
	rel := func(row, col int) ftree.CellAddr {
		return ftree.CellAddr{
			Row: ftree.Axis{N: row, Rel: true},
			Col: ftree.Axis{N: col, Rel: true},
		}
	}
	return []ftree.Token{
		ftree.RangeToken("A1:A2", rel(row1, 0), rel(row2, 0)),
		ftree.SumAttrToken(),
	}
}

func TestShapeIndexKeepsShortestExample(t *testing.T) {
	ix := NewShapeIndex()
	ix.Add(genTree(t, sumTokens(0, 9), "SUM(A1:A10)"), "SUM(A1:A10)")
	ix.Add(genTree(t, sumTokens(0, 1), "SUM(A1:A2)"), "SUM(A1:A2)")
	ix.Add(genTree(t, sumTokens(0, 99), "SUM(A1:A100)"), "SUM(A1:A100)")

	require.Equal(t, 1, ix.Len())
	s := ix.Get("SUM()")
	require.NotNil(t, s)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, "SUM(A1:A2)", s.Example)
}

func TestShapeIndexTop(t *testing.T) {
	num := []ftree.Token{ftree.NumberToken("1")}
	plus := []ftree.Token{
		ftree.NumberToken("1"),
		ftree.NumberToken("2"),
		ftree.OpToken("+", 2, ftree.FixInfix),
	}

	ix := NewShapeIndex()
	ix.Add(genTree(t, plus, "1+2"), "1+2")
	ix.Add(genTree(t, plus, "3+4"), "3+4")
	ix.Add(genTree(t, sumTokens(0, 1), "SUM(A1:A2)"), "SUM(A1:A2)")
	ix.Add(genTree(t, num, "1"), "1")
	ix.Add(genTree(t, num, "7"), "7")

	top := ix.Top(0)
	require.Len(t, top, 3)
	// Frequency first, simple form as the tie breaker.
	assert.Equal(t, "+", top[0].Simple)
	assert.Equal(t, 2, top[0].Count)
	assert.Equal(t, "~NUM~", top[1].Simple)
	assert.Equal(t, "SUM()", top[2].Simple)

	assert.Len(t, ix.Top(2), 2)
}

func TestShapeIndexGetMissing(t *testing.T) {
	assert.Nil(t, NewShapeIndex().Get("NOPE()"))
}
