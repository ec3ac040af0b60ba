package detector

import (
	"strings"

	"anchorsec/internal/anchor"
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
)

var arithmeticInfo = Info{
	ID:              "UNSAFE_ARITHMETIC",
	Name:            "Unsafe Math Operations",
	Description:     "Detects unchecked arithmetic operations that could lead to overflow/underflow vulnerabilities",
	DefaultSeverity: diag.SevError,
	Message: "Unchecked arithmetic operation detected. Consider using checked_add(), checked_sub(), " +
		"checked_mul(), or checked_div() to prevent overflow/underflow.",
}

// UnsafeArithmetic flags unchecked + - * / and their compound assignments.
type UnsafeArithmetic struct{}

func NewUnsafeArithmetic() *UnsafeArithmetic { return &UnsafeArithmetic{} }

func (d *UnsafeArithmetic) Info() Info { return arithmeticInfo }

func (d *UnsafeArithmetic) ShouldRun(text string) bool {
	return MentionsAnchor(text) && strings.ContainsAny(text, "+-*/")
}

func (d *UnsafeArithmetic) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *UnsafeArithmetic) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	var out []diag.Diagnostic
	exprs := prog.AST.Exprs
	prog.AST.Walk(ast.Visitor{Expr: func(id ast.ExprID) bool {
		left, right, ok := arithmeticOperands(exprs, id)
		if ok && !safeOperands(exprs, left, right) {
			out = append(out, finding(arithmeticInfo, diag.RangeOf(prog.File, exprs.Get(id).Span), arithmeticInfo.Message))
		}
		return true
	}})
	return out
}

func arithmeticOperands(exprs *ast.Exprs, id ast.ExprID) (left, right ast.ExprID, ok bool) {
	if b, isBin := exprs.Binary(id); isBin {
		return b.Left, b.Right, b.Op.IsArithmetic()
	}
	if exprs.Get(id).Kind == ast.ExprAssignOp {
		a, _ := exprs.Assign(id)
		return a.Target, a.Value, a.Op.IsArithmetic()
	}
	return ast.NoExprID, ast.NoExprID, false
}

func safeOperands(exprs *ast.Exprs, left, right ast.ExprID) bool {
	switch {
	case nonIntegerLiteral(exprs, left) || nonIntegerLiteral(exprs, right):
		return true
	case smallLiteral(exprs, left) && smallLiteral(exprs, right):
		return true
	case annotated(exprs, left) || annotated(exprs, right):
		return true
	}
	return false
}

// unneg strips parens and a leading minus.
func unneg(exprs *ast.Exprs, id ast.ExprID) ast.ExprID {
	id = exprs.Unparen(id)
	if u, ok := exprs.Unary(id); ok && u.Op == ast.ExprUnaryNeg {
		id = exprs.Unparen(u.X)
	}
	return id
}

// literal returns the literal behind parens and a leading minus.
func literal(exprs *ast.Exprs, id ast.ExprID) (*ast.ExprLiteralData, bool) {
	return exprs.Literal(unneg(exprs, id))
}

func nonIntegerLiteral(exprs *ast.Exprs, id ast.ExprID) bool {
	lit, ok := literal(exprs, id)
	if !ok {
		return false
	}
	switch lit.Kind {
	case ast.ExprLitFloat, ast.ExprLitStr, ast.ExprLitByteStr:
		return true
	case ast.ExprLitInt:
		// 1f32 лексически целое, но это float
		return strings.HasSuffix(lit.Text, "f32") || strings.HasSuffix(lit.Text, "f64")
	}
	return false
}

// smallLiteral: an unsuffixed integer literal below 2^32, possibly negated.
func smallLiteral(exprs *ast.Exprs, id ast.ExprID) bool {
	lit, ok := exprs.IntLiteral(unneg(exprs, id))
	if !ok || lit.Suffix != "" {
		return false
	}
	v, ok := lit.Uint64()
	return ok && v < 1<<32
}

// annotated reports an operand whose type is spelled out: a cast, a suffixed
// literal, or a call with explicit generic arguments.
func annotated(exprs *ast.Exprs, id ast.ExprID) bool {
	id = exprs.Unparen(id)
	e := exprs.Get(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprCast:
		return true
	case ast.ExprLit:
		lit, ok := exprs.IntLiteral(id)
		return ok && lit.Suffix != ""
	case ast.ExprMethodCall:
		mc, _ := exprs.MethodCall(id)
		return mc.Generics != nil
	case ast.ExprCall:
		call, _ := exprs.Call(id)
		if p, ok := exprs.Path(call.Fn); ok {
			for _, seg := range p.Path.Segments {
				if seg.Args != nil {
					return true
				}
			}
		}
	}
	return false
}
