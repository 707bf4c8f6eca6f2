package ftree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeCell(t *testing.T) {
	origin := Cell{Row: 4, Col: 2} // C5
	tests := []struct {
		name string
		addr CellAddr
		want string
	}{
		{"both relative", relAddr(6, 3), "R[2]C[1]"},
		{"negative offsets", relAddr(0, 0), "R[-4]C[-2]"},
		{"both absolute", absAddr(6, 3), "R7C4"},
		{"mixed row abs", CellAddr{Row: Axis{N: 6}, Col: Axis{N: 3, Rel: true}}, "R7C[1]"},
		{"mixed col abs", CellAddr{Row: Axis{N: 6, Rel: true}, Col: Axis{N: 3}}, "R[2]C4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeCell(tt.addr, origin))
		})
	}
}

func TestSheetPrefix(t *testing.T) {
	assert.Equal(t, "", sheetPrefix("A1"))
	assert.Equal(t, "Sheet1!", sheetPrefix("Sheet1!A1"))
	assert.Equal(t, "'P&L 2024'!", sheetPrefix("'P&L 2024'!B2"))
	// The last separator wins when a quoted name embeds one.
	assert.Equal(t, "'in!out'!", sheetPrefix("'in!out'!C3"))
}

func TestSplitRangeHalves(t *testing.T) {
	tests := []struct {
		text  string
		first string
		last  string
	}{
		{"A1:B2", "A1", "B2"},
		{"Sheet1!A1:B2", "Sheet1!A1", "B2"},
		{"'a:b'!A1:B2", "'a:b'!A1", "B2"},
		{"'x:y:z'!A1:B2", "'x:y:z'!A1", "B2"},
	}
	for _, tt := range tests {
		first, last, err := splitRangeHalves(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.first, first, tt.text)
		assert.Equal(t, tt.last, last, tt.text)
	}
}

func TestSplitRangeHalvesMalformed(t *testing.T) {
	for _, text := range []string{
		"A1",       // no separator at all
		"A1:B2:C3", // three unquoted halves
		"'a:b:c",   // unterminated quote leaves a single fragment
	} {
		_, _, err := splitRangeHalves(text)
		var rangeErr *MalformedRangeError
		require.ErrorAs(t, err, &rangeErr, text)
		assert.Equal(t, text, rangeErr.Text)
	}
}

func TestRelativeLeafText(t *testing.T) {
	origin := Cell{Row: 1, Col: 1} // B2
	tests := []struct {
		name string
		tok  Token
		want string
	}{
		{"plain ref", RefToken("A1", relAddr(0, 0)), "R[-1]C[-1]"},
		{"absolute ref", RefToken("$D$4", absAddr(3, 3)), "R4C4"},
		{"sheet ref", RefToken("Data!C3", relAddr(2, 2)), "Data!R[1]C[1]"},
		{"plain range", RangeToken("A1:A2", relAddr(0, 0), relAddr(1, 0)), "R[-1]C[-1]:R[0]C[-1]"},
		{"sheet range", RangeToken("Data!A1:B2", relAddr(0, 0), relAddr(1, 1)), "Data!R[-1]C[-1]:R[0]C[0]"},
		{"quoted colon sheet", RangeToken("'a:b'!A1:B2", relAddr(0, 0), relAddr(1, 1)), "'a:b'!R[-1]C[-1]:R[0]C[0]"},
		{"number passes through", NumberToken("17"), "17"},
		{"string passes through", StringToken(`"x"`), `"x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := relativeLeafText(tt.tok, origin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelativeLeafTextMalformedRange(t *testing.T) {
	_, err := relativeLeafText(RangeToken("A1", relAddr(0, 0), relAddr(0, 0)), Cell{})
	var rangeErr *MalformedRangeError
	require.ErrorAs(t, err, &rangeErr)
}
