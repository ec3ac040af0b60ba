package detector

import (
	"anchorsec/internal/anchor"
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
)

var lamportsInfo = Info{
	ID:              "MANUAL_LAMPORTS_ZEROING",
	Name:            "Manual Lamports Zeroing",
	Description:     "Detects manual lamports zeroing which can lead to incomplete account closure and potential security vulnerabilities",
	DefaultSeverity: diag.SevError,
	Message: "Manual lamports zeroing detected. Use proper account closure mechanisms like `close` " +
		"or transfer lamports to another account instead of setting to zero.",
}

// ManualLamportsZeroing flags `<balance> = 0` and `set_lamports(0)`.
type ManualLamportsZeroing struct{}

func NewManualLamportsZeroing() *ManualLamportsZeroing { return &ManualLamportsZeroing{} }

func (d *ManualLamportsZeroing) Info() Info                 { return lamportsInfo }
func (d *ManualLamportsZeroing) ShouldRun(text string) bool { return MentionsAnchor(text) }

func (d *ManualLamportsZeroing) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *ManualLamportsZeroing) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	var out []diag.Diagnostic
	exprs := prog.AST.Exprs
	prog.AST.Walk(ast.Visitor{Expr: func(id ast.ExprID) bool {
		if zeroesLamports(exprs, id) {
			out = append(out, finding(lamportsInfo, diag.RangeOf(prog.File, exprs.Get(id).Span), lamportsInfo.Message))
		}
		return true
	}})
	return out
}

func zeroesLamports(exprs *ast.Exprs, id ast.ExprID) bool {
	if exprs.Get(id).Kind == ast.ExprAssign {
		a, _ := exprs.Assign(id)
		return isBalance(exprs, a.Target) && isZeroLiteral(exprs, a.Value)
	}
	if mc, ok := methodCall(exprs, id, "set_lamports"); ok {
		return len(mc.Args) > 0 && isZeroLiteral(exprs, mc.Args[0])
	}
	return false
}

// isBalance matches x.lamports, x.lamports(), <balance>.borrow_mut() and
// x.try_borrow_mut_lamports() behind parens, derefs, `?` and references.
func isBalance(exprs *ast.Exprs, id ast.ExprID) bool {
	id = peel(exprs, id, peelPlace)
	if f, ok := exprs.Field(id); ok {
		return f.Name == "lamports"
	}
	mc, ok := methodCall(exprs, id)
	if !ok {
		return false
	}
	switch mc.Name {
	case "lamports", "try_borrow_mut_lamports":
		return true
	case "borrow_mut":
		return isBalance(exprs, mc.Receiver)
	}
	return false
}
