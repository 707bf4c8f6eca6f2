package biff

import (
	"encoding/binary"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/sheetlab/formulatree/ftree"
)

// DecodeError reports a malformed or unsupported RPN byte stream.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return e.Message
}

// NewDecodeError creates a DecodeError with the given message.
func NewDecodeError(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Message: fmt.Sprintf(format, args...)}
}

// NameDef is one defined name and its stored compiled definition.
type NameDef struct {
	Name string
	RPN  []byte
}

// Decoder turns compiled BIFF8 RPN formula bytes into ftree token
// sequences. Sheets supplies display names for 3D references; Names backs
// the ftree.NameResolver contract.
type Decoder struct {
	Sheets []string
	Names  []NameDef
	Log    *zap.Logger
}

func (d *Decoder) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Tokens decodes the compiled bytes of a cell formula. Relative reference
// axes in cell formulas store absolute positions; the relative flags only
// record the source-level declaration.
func (d *Decoder) Tokens(rpn []byte, sheet int, origin ftree.Cell) ([]ftree.Token, error) {
	return d.decode(rpn, origin, false)
}

// ResolveName decodes the stored definition of a defined name. Name
// formulas store relative axes as signed deltas ("Method B"), rebased
// against the origin of the consuming formula.
func (d *Decoder) ResolveName(name string, sheet int) ([]ftree.Token, error) {
	for _, def := range d.Names {
		if def.Name == name {
			return d.decode(def.RPN, ftree.Cell{}, true)
		}
	}
	return nil, NewDecodeError("unresolved defined name %q", name)
}

func (d *Decoder) decode(data []byte, origin ftree.Cell, reldelta bool) ([]ftree.Token, error) {
	tokens := make([]ftree.Token, 0, len(data)/2)
	pos := 0

	for pos < len(data) {
		op := int(data[pos])
		opcode := op & 0x1f
		optype := (op & 0x60) >> 5
		opx := opcode
		if optype != 0 {
			opx = opcode + 32
		}

		sz := szTab[opx]
		if sz == -2 {
			return nil, NewDecodeError("unexpected token 0x%02x (t%s) at offset %d", op, opNames[opx], pos)
		}
		if sz > 0 && pos+sz > len(data) {
			return nil, NewDecodeError("truncated t%s token at offset %d", opNames[opx], pos)
		}

		if optype == 0 {
			switch {
			case opcode == tExp || opcode == tTbl:
				rowx := int(binary.LittleEndian.Uint16(data[pos+1 : pos+3]))
				colx := int(binary.LittleEndian.Uint16(data[pos+3 : pos+5]))
				tokens = append(tokens, ftree.UnknownToken(fmt.Sprintf("SHARED FMLA at rowx=%d colx=%d", rowx, colx)))

			case opcode >= tAdd && opcode <= tNE:
				tokens = append(tokens, ftree.OpToken(binOps[opcode], 2, ftree.FixInfix))

			case opcode == tIsect:
				tokens = append(tokens, ftree.OpToken(" ", 2, ftree.FixInfix))

			case opcode == tList:
				tokens = append(tokens, ftree.OpToken(",", 2, ftree.FixInfix))

			case opcode == tRange:
				tokens = append(tokens, ftree.OpToken(":", 2, ftree.FixInfix))

			case opcode == tUplus || opcode == tUminus || opcode == tPercent:
				un := unOps[opcode]
				tokens = append(tokens, ftree.OpToken(un.Sym, 1, un.Fix))

			case opcode == tParen:
				tokens = append(tokens, ftree.ParenToken())

			case opcode == tMissArg:
				tokens = append(tokens, ftree.UnknownToken(""))

			case opcode == tStr:
				s, n, err := unpackString(data, pos+1)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, ftree.StringToken(`"`+s+`"`))
				sz = 1 + n

			case opcode == tAttr:
				if pos+4 > len(data) {
					return nil, NewDecodeError("truncated tAttr token at offset %d", pos)
				}
				grbit := data[pos+1]
				sz = 4
				switch {
				case grbit&0x10 != 0: // tAttrSum
					tokens = append(tokens, ftree.SumAttrToken())
				case grbit&0x04 != 0: // tAttrChoose carries a jump table
					nc := int(binary.LittleEndian.Uint16(data[pos+2 : pos+4]))
					sz = 2*nc + 6
				default:
					// volatile / if / skip / space markers have no stack
					// effect and no syntactic representation
					tokens = append(tokens, ftree.MemToken())
				}

			case opcode == tErr:
				text, ok := errTexts[data[pos+1]]
				if !ok {
					text = "#ERROR!"
				}
				tokens = append(tokens, ftree.ErrorToken(text))

			case opcode == tBool:
				if data[pos+1] != 0 {
					tokens = append(tokens, ftree.BoolToken("TRUE"))
				} else {
					tokens = append(tokens, ftree.BoolToken("FALSE"))
				}

			case opcode == tInt:
				v := binary.LittleEndian.Uint16(data[pos+1 : pos+3])
				tokens = append(tokens, ftree.NumberToken(fmt.Sprintf("%d", v)))

			case opcode == tNum:
				v := math.Float64frombits(binary.LittleEndian.Uint64(data[pos+1 : pos+9]))
				tokens = append(tokens, ftree.NumberToken(fmt.Sprintf("%g", v)))

			default:
				d.logger().Debug("skipping unhandled base token",
					zap.Int("opcode", op), zap.Int("offset", pos))
				tokens = append(tokens, ftree.UnknownToken(fmt.Sprintf("t%s", opNames[opx])))
			}
		} else {
			switch opx {
			case xArray:
				// Inline array constants follow the RPN stream; only the
				// header participates in the stack.
				tokens = append(tokens, ftree.UnknownToken("{ARRAY}"))

			case xFunc:
				funcid := int(binary.LittleEndian.Uint16(data[pos+1 : pos+3]))
				def, ok := funcDefs[funcid]
				if !ok {
					return nil, NewDecodeError("unknown fixed-arity function index %d at offset %d", funcid, pos)
				}
				tokens = append(tokens, ftree.FuncToken(def.Name, def.MaxArgs))

			case xFuncVar:
				funcid := int(binary.LittleEndian.Uint16(data[pos+2 : pos+4]))
				nargs := int(data[pos+1] & 0x7f)
				def, ok := funcDefs[funcid]
				name := def.Name
				if !ok {
					name = fmt.Sprintf("FUNC_%d", funcid)
					d.logger().Warn("unknown function index", zap.Int("funcid", funcid))
				}
				tokens = append(tokens, ftree.FuncToken(name, nargs))

			case xName:
				namex := int(binary.LittleEndian.Uint16(data[pos+1 : pos+3]))
				if namex >= 1 && namex <= len(d.Names) {
					tokens = append(tokens, ftree.NameToken(d.Names[namex-1].Name))
				} else {
					tokens = append(tokens, ftree.UnknownToken(fmt.Sprintf("NAME_%d", namex)))
				}

			case xRef, xRefN:
				addr := d.cellAddr(data, pos+1, reldelta, origin)
				tokens = append(tokens, ftree.RefToken(cellText(addr), addr))

			case xArea, xAreaN:
				first, last := d.rangeAddr(data, pos+1, reldelta, origin)
				tokens = append(tokens, ftree.RangeToken(rangeText(first, last), first, last))

			case xMemArea, xMemErr, xMemNoMem, xMemFunc, xMemAreaN, xMemNoMemN:
				tokens = append(tokens, ftree.MemToken())

			case xRefErr, xAreaErr, xRefErr3d, xAreaErr3d:
				tokens = append(tokens, ftree.ErrorToken("#REF!"))

			case xNameX:
				extshtx := int(binary.LittleEndian.Uint16(data[pos+1 : pos+3]))
				namex := int(binary.LittleEndian.Uint16(data[pos+3 : pos+5]))
				tokens = append(tokens, ftree.UnknownToken(fmt.Sprintf("EXTERN_NAME_%d_%d", extshtx, namex)))

			case xRef3d:
				shx := int(binary.LittleEndian.Uint16(data[pos+1 : pos+3]))
				addr := d.cellAddr(data, pos+3, reldelta, origin)
				text := d.sheetName(shx) + "!" + cellText(addr)
				tokens = append(tokens, ftree.RefToken(text, addr))

			case xArea3d:
				shx := int(binary.LittleEndian.Uint16(data[pos+1 : pos+3]))
				first, last := d.rangeAddr(data, pos+3, reldelta, origin)
				text := d.sheetName(shx) + "!" + rangeText(first, last)
				tokens = append(tokens, ftree.RangeToken(text, first, last))

			default:
				d.logger().Debug("skipping unhandled operand-class token",
					zap.Int("opcode", op), zap.Int("offset", pos))
				tokens = append(tokens, ftree.UnknownToken(fmt.Sprintf("t%s", opNames[opx])))
			}
		}

		if sz <= 0 {
			sz = 1
		}
		pos += sz
	}

	return tokens, nil
}

func (d *Decoder) cellAddr(data []byte, pos int, reldelta bool, origin ftree.Cell) ftree.CellAddr {
	rowval := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
	colval := int(binary.LittleEndian.Uint16(data[pos+2 : pos+4]))
	return adjustCellAddr(rowval, colval, reldelta, origin)
}

func (d *Decoder) rangeAddr(data []byte, pos int, reldelta bool, origin ftree.Cell) (ftree.CellAddr, ftree.CellAddr) {
	row1 := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
	row2 := int(binary.LittleEndian.Uint16(data[pos+2 : pos+4]))
	col1 := int(binary.LittleEndian.Uint16(data[pos+4 : pos+6]))
	col2 := int(binary.LittleEndian.Uint16(data[pos+6 : pos+8]))
	return adjustCellAddr(row1, col1, reldelta, origin), adjustCellAddr(row2, col2, reldelta, origin)
}

// unpackString reads a BIFF8 short unicode string: length byte, option
// flags byte, then either compressed latin-1 bytes or UTF-16LE pairs.
// Returns the string and the number of bytes consumed.
func unpackString(data []byte, pos int) (string, int, error) {
	if pos+2 > len(data) {
		return "", 0, NewDecodeError("truncated string header at offset %d", pos)
	}
	cch := int(data[pos])
	options := data[pos+1]

	if options&0x01 == 0 {
		if pos+2+cch > len(data) {
			return "", 0, NewDecodeError("truncated string content at offset %d", pos)
		}
		runes := make([]rune, cch)
		for i := 0; i < cch; i++ {
			runes[i] = rune(data[pos+2+i])
		}
		return string(runes), 2 + cch, nil
	}

	if pos+2+2*cch > len(data) {
		return "", 0, NewDecodeError("truncated string content at offset %d", pos)
	}
	runes := make([]rune, cch)
	for i := 0; i < cch; i++ {
		runes[i] = rune(binary.LittleEndian.Uint16(data[pos+2+2*i : pos+4+2*i]))
	}
	return string(runes), 2 + 2*cch, nil
}
