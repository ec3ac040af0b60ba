package ast

import (
	"anchorsec/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprLit represents a literal expression.
	ExprLit ExprKind = iota
	// ExprPath represents a path: `x`, `Vec::<u8>::new`, `Self`.
	ExprPath
	// ExprUnary represents `-x`, `!x` and `*x`.
	ExprUnary
	// ExprRef represents `&x` and `&mut x`.
	ExprRef
	// ExprBinary represents a binary expression.
	ExprBinary
	// ExprAssign represents `a = b`.
	ExprAssign
	// ExprAssignOp represents compound assignment `a += b`.
	ExprAssignOp
	// ExprCast represents `x as T`.
	ExprCast
	ExprRange
	ExprCall
	ExprMethodCall
	ExprField // x.name и x.0
	ExprIndex
	ExprTry   // x?
	ExprAwait // x.await
	ExprParen
	ExprTuple
	ExprArray
	ExprRepeat // [x; n]
	ExprStruct
	ExprBlock
	ExprIf
	ExprLet // `let P = e` внутри условий if/while
	ExprMatch
	ExprWhile
	ExprLoop
	ExprFor
	ExprClosure
	ExprReturn
	ExprBreak
	ExprContinue
	ExprMacro
)

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// Арифметические

	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryRem

	// Битовые

	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShl
	ExprBinaryShr

	// Логические и сравнения

	ExprBinaryAnd
	ExprBinaryOr
	ExprBinaryEq
	ExprBinaryNe
	ExprBinaryLt
	ExprBinaryLe
	ExprBinaryGt
	ExprBinaryGe
)

var binaryOpText = [...]string{
	ExprBinaryAdd:    "+",
	ExprBinarySub:    "-",
	ExprBinaryMul:    "*",
	ExprBinaryDiv:    "/",
	ExprBinaryRem:    "%",
	ExprBinaryBitAnd: "&",
	ExprBinaryBitOr:  "|",
	ExprBinaryBitXor: "^",
	ExprBinaryShl:    "<<",
	ExprBinaryShr:    ">>",
	ExprBinaryAnd:    "&&",
	ExprBinaryOr:     "||",
	ExprBinaryEq:     "==",
	ExprBinaryNe:     "!=",
	ExprBinaryLt:     "<",
	ExprBinaryLe:     "<=",
	ExprBinaryGt:     ">",
	ExprBinaryGe:     ">=",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsArithmetic reports + - * /. Remainder cannot overflow upward and is not included.
func (op ExprBinaryOp) IsArithmetic() bool {
	return op <= ExprBinaryDiv
}

// ExprUnaryOp enumerates prefix operators.
type ExprUnaryOp uint8

const (
	ExprUnaryNeg ExprUnaryOp = iota
	ExprUnaryNot
	ExprUnaryDeref
)

// ExprLitKind: вид литерала.
type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitStr
	ExprLitByteStr
	ExprLitChar
	ExprLitByte
	ExprLitBool
)

type ExprLiteralData struct {
	Kind ExprLitKind
	Text string // исходный текст, суффикс включён
}

type ExprPathData struct{ Path Path }

type ExprUnaryData struct {
	Op ExprUnaryOp
	X  ExprID
}

type ExprRefData struct {
	Mut bool
	Raw bool // &raw const / &raw mut
	X   ExprID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

// ExprAssignData serves plain and compound assignment; Op is meaningful for ExprAssignOp only.
type ExprAssignData struct {
	Op     ExprBinaryOp
	Target ExprID
	Value  ExprID
	OpSpan source.Span
}

type ExprCastData struct {
	X    ExprID
	Type TypeID
}

type ExprRangeData struct {
	Lo        ExprID
	Hi        ExprID
	Inclusive bool
}

type ExprCallData struct {
	Fn   ExprID
	Args []ExprID
}

type ExprMethodCallData struct {
	Receiver ExprID
	Name     string
	NameSpan source.Span
	Generics *GenericArgs
	Args     []ExprID
}

type ExprFieldData struct {
	X          ExprID
	Name       string // "0" для x.0
	NameSpan   source.Span
	Positional bool
}

type ExprIndexData struct {
	X     ExprID
	Index ExprID
}

// ExprWrapData is shared by ExprTry, ExprAwait and ExprParen.
type ExprWrapData struct{ X ExprID }

type ExprListData struct{ Elems []ExprID }

type ExprRepeatData struct {
	Elem ExprID
	Len  ExprID
}

type ExprFieldInit struct {
	Name      string
	NameSpan  source.Span
	Value     ExprID
	Shorthand bool
	Span      source.Span
}

type ExprStructData struct {
	Path   Path
	Fields []ExprFieldInit
	Base   ExprID // ..base
	Rest   bool   // `..` без базы (destructuring assignment)
}

type ExprBlockData struct {
	Stmts  []StmtID
	Label  string
	Unsafe bool
	Async  bool
	Const  bool
	Move   bool
}

type ExprIfData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type ExprLetData struct {
	Pat  PatID
	Init ExprID
}

type MatchArm struct {
	Attrs Attrs
	Pat   PatID
	Guard ExprID
	Body  ExprID
	Span  source.Span
}

type ExprMatchData struct {
	Scrutinee ExprID
	Arms      []MatchArm
}

type ExprWhileData struct {
	Label string
	Cond  ExprID
	Body  ExprID
}

type ExprLoopData struct {
	Label string
	Body  ExprID
}

type ExprForData struct {
	Label string
	Pat   PatID
	Iter  ExprID
	Body  ExprID
}

type ClosureParam struct {
	Pat  PatID
	Type TypeID
	Span source.Span
}

type ExprClosureData struct {
	Params []ClosureParam
	Ret    TypeID
	Body   ExprID
	Move   bool
	Async  bool
}

// ExprJumpData is shared by return, break and continue.
type ExprJumpData struct {
	Label string
	Value ExprID
}

type ExprMacroData struct{ Mac MacroCall }
