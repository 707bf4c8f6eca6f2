package biff

import (
	"fmt"
	"strings"

	"github.com/sheetlab/formulatree/ftree"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// colName returns the A1-style column name for a 0-based column index.
func colName(colx int) string {
	if colx <= 25 {
		return string(alphabet[colx])
	}
	return string(alphabet[colx/26-1]) + string(alphabet[colx%26])
}

// cellText renders one address in A1 style, with $ on axes declared
// absolute at the source level.
func cellText(a ftree.CellAddr) string {
	var sb strings.Builder
	if !a.Col.Rel {
		sb.WriteByte('$')
	}
	sb.WriteString(colName(a.Col.N))
	if !a.Row.Rel {
		sb.WriteByte('$')
	}
	fmt.Fprintf(&sb, "%d", a.Row.N+1)
	return sb.String()
}

// rangeText renders a contiguous area in A1 style.
func rangeText(first, last ftree.CellAddr) string {
	return cellText(first) + ":" + cellText(last)
}

// quotedSheetName quotes a sheet name the way a formula prints it: names
// containing a quote get the quote doubled and the whole name quoted,
// names containing a space or colon get quoted as-is.
func quotedSheetName(name string) string {
	if strings.Contains(name, "'") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	if strings.ContainsAny(name, " :") {
		return "'" + name + "'"
	}
	return name
}

// sheetName resolves a sheet index from a 3D token to its display name.
func (d *Decoder) sheetName(shx int) string {
	if shx >= 0 && shx < len(d.Sheets) {
		return quotedSheetName(d.Sheets[shx])
	}
	return fmt.Sprintf("?sheet%d?", shx)
}

// adjustCellAddr unpacks a BIFF8 row/column pair. The column value carries
// the relative flags in its top bits. With reldelta set (name and shared
// formulas), relative axes store signed deltas from the consuming cell and
// are rebased against the origin.
func adjustCellAddr(rowval, colval int, reldelta bool, origin ftree.Cell) ftree.CellAddr {
	rowRel := (colval>>15)&1 != 0
	colRel := (colval>>14)&1 != 0
	rowx := rowval
	colx := colval & 0xff

	if reldelta {
		if rowRel {
			if rowx >= 32768 {
				rowx -= 65536
			}
			rowx += origin.Row
		}
		if colRel {
			if colx >= 128 {
				colx -= 256
			}
			colx += origin.Col
		}
	}

	return ftree.CellAddr{
		Row: ftree.Axis{N: rowx, Rel: rowRel},
		Col: ftree.Axis{N: colx, Rel: colRel},
	}
}
