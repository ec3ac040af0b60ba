package ast

import (
	"anchorsec/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Literals *Arena[ExprLiteralData]
	Paths    *Arena[ExprPathData]
	Unaries  *Arena[ExprUnaryData]
	Refs     *Arena[ExprRefData]
	Binaries *Arena[ExprBinaryData]
	Assigns  *Arena[ExprAssignData]
	Casts    *Arena[ExprCastData]
	Ranges   *Arena[ExprRangeData]
	Calls    *Arena[ExprCallData]
	Methods  *Arena[ExprMethodCallData]
	Fields   *Arena[ExprFieldData]
	Indices  *Arena[ExprIndexData]
	Wraps    *Arena[ExprWrapData]
	Lists    *Arena[ExprListData]
	Repeats  *Arena[ExprRepeatData]
	Structs  *Arena[ExprStructData]
	Blocks   *Arena[ExprBlockData]
	Ifs      *Arena[ExprIfData]
	Lets     *Arena[ExprLetData]
	Matches  *Arena[ExprMatchData]
	Whiles   *Arena[ExprWhileData]
	Loops    *Arena[ExprLoopData]
	Fors     *Arena[ExprForData]
	Closures *Arena[ExprClosureData]
	Jumps    *Arena[ExprJumpData]
	Macros   *Arena[ExprMacroData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
// Rare kinds start empty.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 8
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Literals: NewArena[ExprLiteralData](capHint / 4),
		Paths:    NewArena[ExprPathData](capHint / 2),
		Unaries:  NewArena[ExprUnaryData](small),
		Refs:     NewArena[ExprRefData](small),
		Binaries: NewArena[ExprBinaryData](small),
		Assigns:  NewArena[ExprAssignData](small),
		Casts:    NewArena[ExprCastData](small),
		Ranges:   NewArena[ExprRangeData](0),
		Calls:    NewArena[ExprCallData](small),
		Methods:  NewArena[ExprMethodCallData](small),
		Fields:   NewArena[ExprFieldData](capHint / 4),
		Indices:  NewArena[ExprIndexData](0),
		Wraps:    NewArena[ExprWrapData](small),
		Lists:    NewArena[ExprListData](small),
		Repeats:  NewArena[ExprRepeatData](0),
		Structs:  NewArena[ExprStructData](0),
		Blocks:   NewArena[ExprBlockData](small),
		Ifs:      NewArena[ExprIfData](0),
		Lets:     NewArena[ExprLetData](0),
		Matches:  NewArena[ExprMatchData](0),
		Whiles:   NewArena[ExprWhileData](0),
		Loops:    NewArena[ExprLoopData](0),
		Fors:     NewArena[ExprForData](0),
		Closures: NewArena[ExprClosureData](0),
		Jumps:    NewArena[ExprJumpData](0),
		Macros:   NewArena[ExprMacroData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return uint32(expr.Payload), true
		}
	}
	return 0, false
}

// SetSpan widens or fixes an expression span after the fact (e.g. outer attributes).
func (e *Exprs) SetSpan(id ExprID, sp source.Span) {
	if expr := e.Get(id); expr != nil {
		expr.Span = sp
	}
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, text string) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLiteralData{Kind: kind, Text: text}))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewPath(span source.Span, path Path) ExprID {
	return e.new(ExprPath, span, e.Paths.Allocate(ExprPathData{Path: path}))
}

func (e *Exprs) Path(id ExprID) (*ExprPathData, bool) {
	p, ok := e.payload(id, ExprPath)
	if !ok {
		return nil, false
	}
	return e.Paths.Get(p), true
}

// Ident returns the name when id is a plain single-segment path.
func (e *Exprs) Ident(id ExprID) (string, bool) {
	pd, ok := e.Path(id)
	if !ok {
		return "", false
	}
	return pd.Path.Ident()
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, x ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, X: x}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewRef(span source.Span, mut, raw bool, x ExprID) ExprID {
	return e.new(ExprRef, span, e.Refs.Allocate(ExprRefData{Mut: mut, Raw: raw, X: x}))
}

func (e *Exprs) Ref(id ExprID) (*ExprRefData, bool) {
	p, ok := e.payload(id, ExprRef)
	if !ok {
		return nil, false
	}
	return e.Refs.Get(p), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

// NewAssign creates `a = b`.
func (e *Exprs) NewAssign(span, opSpan source.Span, target, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Target: target, Value: value, OpSpan: opSpan}))
}

// NewAssignOp creates `a op= b`.
func (e *Exprs) NewAssignOp(span, opSpan source.Span, op ExprBinaryOp, target, value ExprID) ExprID {
	return e.new(ExprAssignOp, span, e.Assigns.Allocate(ExprAssignData{Op: op, Target: target, Value: value, OpSpan: opSpan}))
}

// Assign returns data for both plain and compound assignments.
func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	p, ok := e.payload(id, ExprAssign, ExprAssignOp)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(p), true
}

func (e *Exprs) NewCast(span source.Span, x ExprID, ty TypeID) ExprID {
	return e.new(ExprCast, span, e.Casts.Allocate(ExprCastData{X: x, Type: ty}))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	p, ok := e.payload(id, ExprCast)
	if !ok {
		return nil, false
	}
	return e.Casts.Get(p), true
}

func (e *Exprs) NewRange(span source.Span, lo, hi ExprID, inclusive bool) ExprID {
	return e.new(ExprRange, span, e.Ranges.Allocate(ExprRangeData{Lo: lo, Hi: hi, Inclusive: inclusive}))
}

func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	p, ok := e.payload(id, ExprRange)
	if !ok {
		return nil, false
	}
	return e.Ranges.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, fn ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Fn: fn, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewMethodCall(span source.Span, data ExprMethodCallData) ExprID {
	return e.new(ExprMethodCall, span, e.Methods.Allocate(data))
}

func (e *Exprs) MethodCall(id ExprID) (*ExprMethodCallData, bool) {
	p, ok := e.payload(id, ExprMethodCall)
	if !ok {
		return nil, false
	}
	return e.Methods.Get(p), true
}

func (e *Exprs) NewField(span source.Span, x ExprID, name string, nameSpan source.Span, positional bool) ExprID {
	return e.new(ExprField, span, e.Fields.Allocate(ExprFieldData{X: x, Name: name, NameSpan: nameSpan, Positional: positional}))
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	p, ok := e.payload(id, ExprField)
	if !ok {
		return nil, false
	}
	return e.Fields.Get(p), true
}

func (e *Exprs) NewIndex(span source.Span, x, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{X: x, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

// NewWrap creates ExprTry, ExprAwait or ExprParen.
func (e *Exprs) NewWrap(kind ExprKind, span source.Span, x ExprID) ExprID {
	return e.new(kind, span, e.Wraps.Allocate(ExprWrapData{X: x}))
}

// Inner returns the operand of `x?`, `x.await` and `(x)`.
func (e *Exprs) Inner(id ExprID) (ExprID, bool) {
	p, ok := e.payload(id, ExprTry, ExprAwait, ExprParen)
	if !ok {
		return NoExprID, false
	}
	return e.Wraps.Get(p).X, true
}

// NewList creates ExprTuple or ExprArray.
func (e *Exprs) NewList(kind ExprKind, span source.Span, elems []ExprID) ExprID {
	return e.new(kind, span, e.Lists.Allocate(ExprListData{Elems: elems}))
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, ExprTuple, ExprArray)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(p), true
}

func (e *Exprs) NewRepeat(span source.Span, elem, length ExprID) ExprID {
	return e.new(ExprRepeat, span, e.Repeats.Allocate(ExprRepeatData{Elem: elem, Len: length}))
}

func (e *Exprs) Repeat(id ExprID) (*ExprRepeatData, bool) {
	p, ok := e.payload(id, ExprRepeat)
	if !ok {
		return nil, false
	}
	return e.Repeats.Get(p), true
}

func (e *Exprs) NewStruct(span source.Span, data ExprStructData) ExprID {
	return e.new(ExprStruct, span, e.Structs.Allocate(data))
}

func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	p, ok := e.payload(id, ExprStruct)
	if !ok {
		return nil, false
	}
	return e.Structs.Get(p), true
}

func (e *Exprs) NewBlock(span source.Span, data ExprBlockData) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(data))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprIf, span, e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	p, ok := e.payload(id, ExprIf)
	if !ok {
		return nil, false
	}
	return e.Ifs.Get(p), true
}

func (e *Exprs) NewLet(span source.Span, pat PatID, init ExprID) ExprID {
	return e.new(ExprLet, span, e.Lets.Allocate(ExprLetData{Pat: pat, Init: init}))
}

func (e *Exprs) Let(id ExprID) (*ExprLetData, bool) {
	p, ok := e.payload(id, ExprLet)
	if !ok {
		return nil, false
	}
	return e.Lets.Get(p), true
}

func (e *Exprs) NewMatch(span source.Span, scrutinee ExprID, arms []MatchArm) ExprID {
	return e.new(ExprMatch, span, e.Matches.Allocate(ExprMatchData{Scrutinee: scrutinee, Arms: arms}))
}

func (e *Exprs) Match(id ExprID) (*ExprMatchData, bool) {
	p, ok := e.payload(id, ExprMatch)
	if !ok {
		return nil, false
	}
	return e.Matches.Get(p), true
}

func (e *Exprs) NewWhile(span source.Span, label string, cond, body ExprID) ExprID {
	return e.new(ExprWhile, span, e.Whiles.Allocate(ExprWhileData{Label: label, Cond: cond, Body: body}))
}

func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	p, ok := e.payload(id, ExprWhile)
	if !ok {
		return nil, false
	}
	return e.Whiles.Get(p), true
}

func (e *Exprs) NewLoop(span source.Span, label string, body ExprID) ExprID {
	return e.new(ExprLoop, span, e.Loops.Allocate(ExprLoopData{Label: label, Body: body}))
}

func (e *Exprs) Loop(id ExprID) (*ExprLoopData, bool) {
	p, ok := e.payload(id, ExprLoop)
	if !ok {
		return nil, false
	}
	return e.Loops.Get(p), true
}

func (e *Exprs) NewFor(span source.Span, data ExprForData) ExprID {
	return e.new(ExprFor, span, e.Fors.Allocate(data))
}

func (e *Exprs) For(id ExprID) (*ExprForData, bool) {
	p, ok := e.payload(id, ExprFor)
	if !ok {
		return nil, false
	}
	return e.Fors.Get(p), true
}

func (e *Exprs) NewClosure(span source.Span, data ExprClosureData) ExprID {
	return e.new(ExprClosure, span, e.Closures.Allocate(data))
}

func (e *Exprs) Closure(id ExprID) (*ExprClosureData, bool) {
	p, ok := e.payload(id, ExprClosure)
	if !ok {
		return nil, false
	}
	return e.Closures.Get(p), true
}

// NewJump creates ExprReturn, ExprBreak or ExprContinue.
func (e *Exprs) NewJump(kind ExprKind, span source.Span, label string, value ExprID) ExprID {
	return e.new(kind, span, e.Jumps.Allocate(ExprJumpData{Label: label, Value: value}))
}

func (e *Exprs) Jump(id ExprID) (*ExprJumpData, bool) {
	p, ok := e.payload(id, ExprReturn, ExprBreak, ExprContinue)
	if !ok {
		return nil, false
	}
	return e.Jumps.Get(p), true
}

func (e *Exprs) NewMacro(span source.Span, mac MacroCall) ExprID {
	return e.new(ExprMacro, span, e.Macros.Allocate(ExprMacroData{Mac: mac}))
}

func (e *Exprs) Macro(id ExprID) (*MacroCall, bool) {
	p, ok := e.payload(id, ExprMacro)
	if !ok {
		return nil, false
	}
	return &e.Macros.Get(p).Mac, true
}
