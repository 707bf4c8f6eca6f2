package corpus

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetlab/formulatree/biff"
	"github.com/sheetlab/formulatree/ftree"
)

// refPlusIntRPN assembles the compiled form of "<cell>+<n>": a relative
// value-class tRef, a tInt and a tAdd.
func refPlusIntRPN(row, col, n int) string {
	b := []byte{
		0x44,
		byte(row), byte(row >> 8),
		byte(col), byte(col>>8) | 0xC0,
		0x1E, byte(n), byte(n >> 8),
		0x03,
	}
	return hex.EncodeToString(b)
}

func corpusLine(formula string, row, col int, rpn string) string {
	return fmt.Sprintf(`{"formula":%q,"sheet":0,"row":%d,"col":%d,"rpn":%q}`,
		formula, row, col, rpn)
}

func TestRunnerGroupsByShape(t *testing.T) {
	in := strings.Join([]string{
		corpusLine("A1+1", 0, 1, refPlusIntRPN(0, 0, 1)),
		"",
		corpusLine("B5+42", 4, 2, refPlusIntRPN(4, 1, 42)),
	}, "\n")

	r := &Runner{
		Builder: ftree.NewBuilder(ftree.ModeGeneralized),
		Source:  &biff.Decoder{},
		Index:   NewShapeIndex(),
	}

	stats, err := r.Run(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Built)
	assert.Equal(t, 0, stats.Skipped)

	require.Equal(t, 1, r.Index.Len())
	s := r.Index.Get("+")
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, "A1+1", s.Example)
}

func TestRunnerSkipsFailedFormulas(t *testing.T) {
	in := strings.Join([]string{
		corpusLine("", 0, 0, refPlusIntRPN(0, 0, 1)),        // fails validation
		corpusLine("A1+1", 0, 1, "zz"),                      // undecodable hex
		corpusLine("A1+1", 0, 1, "44"),                      // truncated rpn
		corpusLine("A1+1", 0, 1, refPlusIntRPN(0, 0, 1)),    // fine
	}, "\n")

	r := &Runner{
		Builder: ftree.NewBuilder(ftree.ModeGeneralized),
		Source:  &biff.Decoder{},
		Index:   NewShapeIndex(),
	}

	stats, err := r.Run(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Built)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 1, r.Index.Len())
}

func TestRunnerAbortsOnBadJSON(t *testing.T) {
	r := &Runner{
		Builder: ftree.NewBuilder(ftree.ModeGeneralized),
		Source:  &biff.Decoder{},
		Index:   NewShapeIndex(),
	}

	_, err := r.Run(strings.NewReader("{not json}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus line 1")
}
