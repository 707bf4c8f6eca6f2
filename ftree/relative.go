package ftree

import (
	"fmt"
	"strings"
)

// relativeLeafText renders a reference or range leaf in R1C1-style
// relative addressing against the originating cell. Every other leaf keeps
// its verbatim text.
func relativeLeafText(tok Token, origin Cell) (string, error) {
	switch tok.Kind {
	case TokenRef:
		return sheetPrefix(tok.Text) + relativeCell(tok.First, origin), nil
	case TokenRange:
		first, last, err := splitRangeHalves(tok.Text)
		if err != nil {
			return "", err
		}
		return sheetPrefix(first) + relativeCell(tok.First, origin) +
			":" +
			sheetPrefix(last) + relativeCell(tok.Last, origin), nil
	default:
		return tok.Text, nil
	}
}

// relativeCell converts one address to R1C1: a relative axis becomes a
// signed offset from the origin, an absolute axis keeps its 1-based
// coordinate. Row part first.
func relativeCell(a CellAddr, origin Cell) string {
	var row, col string
	if a.Row.Rel {
		row = fmt.Sprintf("R[%d]", a.Row.N-origin.Row)
	} else {
		row = fmt.Sprintf("R%d", a.Row.N+1)
	}
	if a.Col.Rel {
		col = fmt.Sprintf("C[%d]", a.Col.N-origin.Col)
	} else {
		col = fmt.Sprintf("C%d", a.Col.N+1)
	}
	return row + col
}

// sheetPrefix returns everything up to and including the last '!' of a
// reference text, empty if the reference carries no sheet.
func sheetPrefix(text string) string {
	i := strings.LastIndex(text, "!")
	if i < 0 {
		return ""
	}
	return text[:i+1]
}

// splitRangeHalves recovers the two true halves of a range text. More than
// one separator can only happen when an embedded sheet name itself contains
// a colon; such names are always quoted, so a running fragment is complete
// exactly when it has consumed an even number of quote characters.
// Anything other than exactly two completed halves is malformed.
func splitRangeHalves(text string) (string, string, error) {
	parts := strings.Split(text, ":")
	switch len(parts) {
	case 1:
		return "", "", &MalformedRangeError{Text: text}
	case 2:
		return parts[0], parts[1], nil
	}

	halves := make([]string, 0, 2)
	cur := ""
	for i, part := range parts {
		cur += part
		if strings.Count(cur, "'")%2 == 0 {
			halves = append(halves, cur)
			cur = ""
		} else {
			cur += ":"
		}
		if len(halves) == 2 && i < len(parts)-1 {
			return "", "", &MalformedRangeError{Text: text}
		}
	}
	if len(halves) < 2 {
		return "", "", &MalformedRangeError{Text: text}
	}
	return halves[0], halves[1], nil
}
