// Package biff decodes compiled BIFF8 RPN formula bytes into the flat
// token sequences consumed by ftree. It is the production token stream
// adapter: the bytes are the already-tokenized form a workbook stores for
// each formula, so no text grammar is involved.
package biff

import "github.com/sheetlab/formulatree/ftree"

// RPN token opcodes, low five bits. The operand classes (reference, value,
// array) in bits 5-6 do not change a token's meaning here.
const (
	tExp     = 0x01
	tTbl     = 0x02
	tAdd     = 0x03
	tSub     = 0x04
	tMul     = 0x05
	tDiv     = 0x06
	tPower   = 0x07
	tConcat  = 0x08
	tLT      = 0x09
	tLE      = 0x0A
	tEQ      = 0x0B
	tGE      = 0x0C
	tGT      = 0x0D
	tNE      = 0x0E
	tIsect   = 0x0F
	tList    = 0x10
	tRange   = 0x11
	tUplus   = 0x12
	tUminus  = 0x13
	tPercent = 0x14
	tParen   = 0x15
	tMissArg = 0x16
	tStr     = 0x17
	tAttr    = 0x19
	tErr     = 0x1C
	tBool    = 0x1D
	tInt     = 0x1E
	tNum     = 0x1F
)

// Extended opcodes after folding the operand class away (opcode + 32).
const (
	xArray     = 0x20
	xFunc      = 0x21
	xFuncVar   = 0x22
	xName      = 0x23
	xRef       = 0x24
	xArea      = 0x25
	xMemArea   = 0x26
	xMemErr    = 0x27
	xMemNoMem  = 0x28
	xMemFunc   = 0x29
	xRefErr    = 0x2A
	xAreaErr   = 0x2B
	xRefN      = 0x2C
	xAreaN     = 0x2D
	xMemAreaN  = 0x2E
	xMemNoMemN = 0x2F
	xNameX     = 0x39
	xRef3d     = 0x3A
	xArea3d    = 0x3B
	xRefErr3d  = 0x3C
	xAreaErr3d = 0x3D
)

// szTab holds the total encoded size of each BIFF8 token, opcode byte
// included, indexed by folded opcode. -1 means variable, -2 means the
// token must not appear in a BIFF8 stream.
var szTab = [64]int{
	-2, 5, 5, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, -1, -1, -1, -2, -2, 2, 2, 3, 9,
	9, 3, 4, 5, 5, 9, 7, 7, 7, 3, 5, 9, 5, 9, 3, 3,
	-2, -2, -2, -2, -2, -2, -2, -2, -2, 7, 7, 11, 7, 11, -2, -2,
}

// opNames, indexed by folded opcode. Diagnostic only.
var opNames = []string{
	"Unk00", "Exp", "Tbl", "Add", "Sub", "Mul", "Div", "Power", "Concat", "LT", "LE", "EQ", "GE", "GT", "NE",
	"Isect", "List", "Range", "Uplus", "Uminus", "Percent", "Paren", "MissArg", "Str", "Extended", "Attr",
	"Sheet", "EndSheet", "Err", "Bool", "Int", "Num", "Array", "Func", "FuncVar", "Name", "Ref", "Area",
	"MemArea", "MemErr", "MemNoMem", "MemFunc", "RefErr", "AreaErr", "RefN", "AreaN", "MemAreaN", "MemNoMemN",
	"", "", "", "", "", "", "", "", "FuncCE", "NameX", "Ref3d", "Area3d", "RefErr3d", "AreaErr3d", "", "",
}

// binOps maps the binary operator opcodes to their surface symbols.
var binOps = map[int]string{
	tAdd:    "+",
	tSub:    "-",
	tMul:    "*",
	tDiv:    "/",
	tPower:  "^",
	tConcat: "&",
	tLT:     "<",
	tLE:     "<=",
	tEQ:     "=",
	tGE:     ">=",
	tGT:     ">",
	tNE:     "<>",
}

// unOps maps the unary operator opcodes to symbol and fixity.
var unOps = map[int]struct {
	Sym string
	Fix ftree.Fixity
}{
	tUplus:   {"+", ftree.FixPrefix},
	tUminus:  {"-", ftree.FixPrefix},
	tPercent: {"%", ftree.FixPostfix},
}

// errTexts maps BIFF error codes to their display text.
var errTexts = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
}

type funcDef struct {
	Name    string
	MinArgs int
	MaxArgs int
}

// funcDefs maps BIFF function indexes to name and argument bounds. Fixed-
// arity functions have MinArgs == MaxArgs; tFuncVar carries the actual
// argument count in the token itself.
var funcDefs = map[int]funcDef{
	0:   {"COUNT", 0, 30},
	1:   {"IF", 2, 3},
	2:   {"ISNA", 1, 1},
	3:   {"ISERROR", 1, 1},
	4:   {"SUM", 0, 30},
	5:   {"AVERAGE", 1, 30},
	6:   {"MIN", 1, 30},
	7:   {"MAX", 1, 30},
	8:   {"ROW", 0, 1},
	9:   {"COLUMN", 0, 1},
	10:  {"NA", 0, 0},
	11:  {"NPV", 2, 30},
	12:  {"STDEV", 1, 30},
	13:  {"DOLLAR", 1, 2},
	14:  {"FIXED", 2, 3},
	15:  {"SIN", 1, 1},
	16:  {"COS", 1, 1},
	17:  {"TAN", 1, 1},
	18:  {"ATAN", 1, 1},
	19:  {"PI", 0, 0},
	20:  {"SQRT", 1, 1},
	21:  {"EXP", 1, 1},
	22:  {"LN", 1, 1},
	23:  {"LOG10", 1, 1},
	24:  {"ABS", 1, 1},
	25:  {"INT", 1, 1},
	26:  {"SIGN", 1, 1},
	27:  {"ROUND", 2, 2},
	28:  {"LOOKUP", 2, 3},
	29:  {"INDEX", 2, 4},
	30:  {"REPT", 2, 2},
	31:  {"MID", 3, 3},
	32:  {"LEN", 1, 1},
	33:  {"VALUE", 1, 1},
	34:  {"TRUE", 0, 0},
	35:  {"FALSE", 0, 0},
	36:  {"AND", 1, 30},
	37:  {"OR", 1, 30},
	38:  {"NOT", 1, 1},
	39:  {"MOD", 2, 2},
	40:  {"DCOUNT", 3, 3},
	41:  {"DSUM", 3, 3},
	42:  {"DAVERAGE", 3, 3},
	43:  {"DMIN", 3, 3},
	44:  {"DMAX", 3, 3},
	45:  {"DSTDEV", 3, 3},
	46:  {"VAR", 1, 30},
	47:  {"DVAR", 3, 3},
	48:  {"TEXT", 2, 2},
	49:  {"LINEST", 1, 4},
	50:  {"TREND", 1, 4},
	51:  {"LOGEST", 1, 4},
	52:  {"GROWTH", 1, 4},
	57:  {"TRANSPOSE", 1, 1},
	61:  {"RAND", 0, 0},
	62:  {"MATCH", 2, 3},
	63:  {"DATE", 3, 3},
	64:  {"TIME", 3, 3},
	65:  {"DAY", 1, 1},
	66:  {"MONTH", 1, 1},
	67:  {"YEAR", 1, 1},
	68:  {"WEEKDAY", 1, 2},
	69:  {"HOUR", 1, 1},
	70:  {"MINUTE", 1, 1},
	71:  {"SECOND", 1, 1},
	72:  {"NOW", 0, 0},
	73:  {"AREAS", 1, 1},
	74:  {"ROWS", 1, 1},
	75:  {"COLUMNS", 1, 1},
	76:  {"OFFSET", 3, 5},
	77:  {"SEARCH", 2, 3},
	78:  {"TRANSPOSE", 1, 1},
	79:  {"TYPE", 1, 1},
	82:  {"ATAN2", 2, 2},
	83:  {"ASIN", 1, 1},
	84:  {"ACOS", 1, 1},
	85:  {"CHOOSE", 2, 30},
	86:  {"HLOOKUP", 3, 4},
	87:  {"VLOOKUP", 3, 4},
	88:  {"ISREF", 1, 1},
	89:  {"LOG", 1, 2},
	97:  {"CHAR", 1, 1},
	98:  {"LOWER", 1, 1},
	99:  {"UPPER", 1, 1},
	100: {"PROPER", 1, 1},
	101: {"LEFT", 1, 2},
	102: {"RIGHT", 1, 2},
	103: {"EXACT", 2, 2},
	104: {"TRIM", 1, 1},
	105: {"REPLACE", 4, 4},
	106: {"SUBSTITUTE", 3, 4},
	107: {"CODE", 1, 1},
	109: {"FIND", 2, 3},
	111: {"ISERR", 1, 1},
	112: {"ISTEXT", 1, 1},
	113: {"ISNUMBER", 1, 1},
	114: {"ISBLANK", 1, 1},
	115: {"T", 1, 1},
	116: {"N", 1, 1},
	117: {"DATEVALUE", 1, 1},
	118: {"TIMEVALUE", 1, 1},
	119: {"SLN", 3, 3},
	120: {"SYD", 4, 4},
	121: {"DDB", 4, 5},
	124: {"INDIRECT", 1, 2},
	126: {"CLEAN", 1, 1},
	127: {"MDETERM", 1, 1},
	128: {"MINVERSE", 1, 1},
	129: {"MMULT", 2, 2},
	130: {"IPMT", 4, 6},
	131: {"PPMT", 4, 6},
	132: {"COUNTA", 0, 30},
	133: {"PRODUCT", 0, 30},
	134: {"FACT", 1, 1},
	135: {"DPRODUCT", 3, 3},
	136: {"ISNONTEXT", 1, 1},
	137: {"STDEVP", 1, 30},
	138: {"VARP", 1, 30},
	139: {"DSTDEVP", 3, 3},
	140: {"DVARP", 3, 3},
	141: {"TRUNC", 1, 2},
	142: {"ISLOGICAL", 1, 1},
	143: {"DCOUNTA", 3, 3},
	151: {"ROUNDUP", 2, 2},
	152: {"ROUNDDOWN", 2, 2},
	155: {"RANK", 2, 3},
	156: {"ADDRESS", 2, 5},
	157: {"DAYS360", 2, 2},
	158: {"TODAY", 0, 0},
	159: {"VDB", 5, 7},
	160: {"MEDIAN", 1, 30},
	161: {"SUMPRODUCT", 1, 30},
	162: {"SINH", 1, 1},
	163: {"COSH", 1, 1},
	164: {"TANH", 1, 1},
	165: {"ASINH", 1, 1},
	166: {"ACOSH", 1, 1},
	167: {"ATANH", 1, 1},
	168: {"DGET", 3, 3},
	169: {"INFO", 1, 1},
	183: {"FREQUENCY", 2, 2},
	184: {"ERROR.TYPE", 1, 1},
	186: {"AVEDEV", 1, 30},
	196: {"EVEN", 1, 1},
	202: {"FLOOR", 2, 2},
	205: {"CEILING", 2, 2},
	212: {"NORMSINV", 1, 1},
	233: {"DEVSQ", 1, 30},
	234: {"GEOMEAN", 1, 30},
	235: {"HARMEAN", 1, 30},
	236: {"SUMSQ", 1, 30},
	237: {"KURT", 1, 30},
	238: {"SKEW", 1, 30},
	240: {"LARGE", 2, 2},
	241: {"SMALL", 2, 2},
	242: {"QUARTILE", 2, 2},
	243: {"PERCENTILE", 2, 2},
	244: {"PERCENTRANK", 2, 3},
	245: {"MODE", 1, 30},
	246: {"TRIMMEAN", 2, 2},
	252: {"CONCATENATE", 1, 30},
	253: {"POWER", 2, 2},
	254: {"RADIANS", 1, 1},
	255: {"DEGREES", 1, 1},
	256: {"SUBTOTAL", 2, 30},
	257: {"SUMIF", 2, 3},
	258: {"COUNTIF", 2, 2},
	259: {"COUNTBLANK", 1, 1},
	269: {"SQRTPI", 1, 1},
	270: {"RAND", 0, 0},
	271: {"NOW", 0, 0},
	272: {"TODAY", 0, 0},
	273: {"AREAS", 1, 1},
	274: {"ROWS", 1, 1},
	275: {"COLUMNS", 1, 1},
	276: {"OFFSET", 3, 5},
	277: {"SEARCH", 2, 3},
	278: {"TRANSPOSE", 1, 1},
	279: {"TYPE", 1, 1},
	291: {"RANDBETWEEN", 2, 2},
	300: {"TRUNC", 1, 2},
	310: {"ROUNDUP", 2, 2},
	311: {"ROUNDDOWN", 2, 2},
	314: {"RANK", 2, 3},
	315: {"ADDRESS", 2, 5},
	316: {"DAYS360", 2, 2},
	317: {"TODAY", 0, 0},
	319: {"MEDIAN", 1, 30},
	320: {"SUMPRODUCT", 1, 30},
	336: {"ISPMT", 4, 6},
	342: {"SUMSQ", 1, 30},
	345: {"SUMXMY2", 2, 2},
	346: {"FACTDOUBLE", 1, 1},
	348: {"RANDBETWEEN", 2, 2},
	350: {"SUBTOTAL", 2, 30},
	351: {"SUMIF", 2, 3},
	352: {"COUNTIF", 2, 2},
	353: {"COUNTBLANK", 1, 1},
	359: {"ROMAN", 1, 2},
	361: {"HYPERLINK", 1, 2},
	362: {"PHONETIC", 1, 1},
	363: {"AVERAGEA", 1, 30},
	364: {"MAXA", 1, 30},
	365: {"MINA", 1, 30},
	366: {"STDEVPA", 1, 30},
	367: {"VARPA", 1, 30},
	368: {"STDEVA", 1, 30},
	369: {"VARA", 1, 30},
}
