package biff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheetlab/formulatree/ftree"
)

func TestColName(t *testing.T) {
	tests := []struct {
		colx int
		want string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{255, "IV"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, colName(tt.colx))
	}
}

func TestCellText(t *testing.T) {
	addr := func(row, col int, rowRel, colRel bool) ftree.CellAddr {
		return ftree.CellAddr{
			Row: ftree.Axis{N: row, Rel: rowRel},
			Col: ftree.Axis{N: col, Rel: colRel},
		}
	}

	assert.Equal(t, "A1", cellText(addr(0, 0, true, true)))
	assert.Equal(t, "$D$4", cellText(addr(3, 3, false, false)))
	assert.Equal(t, "$B3", cellText(addr(2, 1, true, false)))
	assert.Equal(t, "B$3", cellText(addr(2, 1, false, true)))
	assert.Equal(t, "A1:C3", rangeText(addr(0, 0, true, true), addr(2, 2, true, true)))
}

func TestQuotedSheetName(t *testing.T) {
	assert.Equal(t, "Data", quotedSheetName("Data"))
	assert.Equal(t, "'Summary 2024'", quotedSheetName("Summary 2024"))
	assert.Equal(t, "'a:b'", quotedSheetName("a:b"))
	assert.Equal(t, "'it''s'", quotedSheetName("it's"))
}

func TestSheetNameOutOfRange(t *testing.T) {
	d := &Decoder{Sheets: []string{"Data"}}
	assert.Equal(t, "Data", d.sheetName(0))
	assert.Equal(t, "?sheet5?", d.sheetName(5))
}

func TestAdjustCellAddr(t *testing.T) {
	// Cell formulas store absolute positions; the flags only record the
	// source-level declaration.
	a := adjustCellAddr(7, 3|0x8000|0x4000, false, ftree.Cell{Row: 100, Col: 100})
	assert.Equal(t, ftree.Axis{N: 7, Rel: true}, a.Row)
	assert.Equal(t, ftree.Axis{N: 3, Rel: true}, a.Col)

	// Absolute axes are never rebased, reldelta or not.
	a = adjustCellAddr(7, 3, true, ftree.Cell{Row: 100, Col: 100})
	assert.Equal(t, ftree.Axis{N: 7, Rel: false}, a.Row)
	assert.Equal(t, ftree.Axis{N: 3, Rel: false}, a.Col)
}

func TestAdjustCellAddrReldelta(t *testing.T) {
	origin := ftree.Cell{Row: 10, Col: 5}

	// Positive deltas.
	a := adjustCellAddr(2, 1|0x8000|0x4000, true, origin)
	assert.Equal(t, ftree.Axis{N: 12, Rel: true}, a.Row)
	assert.Equal(t, ftree.Axis{N: 6, Rel: true}, a.Col)

	// Negative deltas wrap through the top of the encoded ranges.
	a = adjustCellAddr(65535, 255|0x8000|0x4000, true, origin)
	assert.Equal(t, ftree.Axis{N: 9, Rel: true}, a.Row)
	assert.Equal(t, ftree.Axis{N: 4, Rel: true}, a.Col)
}
