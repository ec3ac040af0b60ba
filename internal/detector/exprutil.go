package detector

import (
	"anchorsec/internal/ast"
)

// peelFlags select which wrappers peel strips.
type peelFlags uint8

const (
	peelParen peelFlags = 1 << iota
	peelRef
	peelDeref
	peelTry
	peelCast
)

const peelPlace = peelParen | peelRef | peelDeref | peelTry

// peel strips wrapper expressions selected by flags until none applies.
func peel(exprs *ast.Exprs, id ast.ExprID, flags peelFlags) ast.ExprID {
	for {
		e := exprs.Get(id)
		if e == nil {
			return id
		}
		next := ast.NoExprID
		switch e.Kind {
		case ast.ExprParen:
			if flags&peelParen != 0 {
				next, _ = exprs.Inner(id)
			}
		case ast.ExprTry:
			if flags&peelTry != 0 {
				next, _ = exprs.Inner(id)
			}
		case ast.ExprRef:
			if flags&peelRef != 0 {
				r, _ := exprs.Ref(id)
				next = r.X
			}
		case ast.ExprUnary:
			if u, _ := exprs.Unary(id); flags&peelDeref != 0 && u.Op == ast.ExprUnaryDeref {
				next = u.X
			}
		case ast.ExprCast:
			if flags&peelCast != 0 {
				c, _ := exprs.Cast(id)
				next = c.X
			}
		}
		if !next.IsValid() {
			return id
		}
		id = next
	}
}

// methodCall returns the call data when id is a method call named one of names.
func methodCall(exprs *ast.Exprs, id ast.ExprID, names ...string) (*ast.ExprMethodCallData, bool) {
	mc, ok := exprs.MethodCall(id)
	if !ok {
		return nil, false
	}
	if len(names) == 0 {
		return mc, true
	}
	for _, n := range names {
		if mc.Name == n {
			return mc, true
		}
	}
	return nil, false
}

// isZeroLiteral reports an integer literal equal to zero, looking through place wrappers.
func isZeroLiteral(exprs *ast.Exprs, id ast.ExprID) bool {
	lit, ok := exprs.IntLiteral(peel(exprs, id, peelPlace))
	return ok && lit.IsZero()
}
