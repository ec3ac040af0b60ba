package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет. Присваивание и диапазоны разбираются отдельно.
const (
	precLowest         = 0
	precLogicalOr      = 3  // ||
	precLogicalAnd     = 4  // &&
	precComparison     = 5  // == != < > <= >=
	precBitwiseOr      = 6  // |
	precBitwiseXor     = 7  // ^
	precBitwiseAnd     = 8  // &
	precShift          = 9  // << >>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
	precCast           = 12 // as
)

// peekBinaryOp смотрит на бинарный оператор и число токенов, из которых он склеен.
// `>` `>` - это `>>`, `>` `=` - `>=`; `>` `>` `=` - присваивание, не бинарный.
func (p *Parser) peekBinaryOp() (op ast.ExprBinaryOp, prec, n int, ok bool) {
	switch p.peek().Kind {
	case token.OrOr:
		return ast.ExprBinaryOr, precLogicalOr, 1, true
	case token.AndAnd:
		return ast.ExprBinaryAnd, precLogicalAnd, 1, true
	case token.EqEq:
		return ast.ExprBinaryEq, precComparison, 1, true
	case token.BangEq:
		return ast.ExprBinaryNe, precComparison, 1, true
	case token.Lt:
		return ast.ExprBinaryLt, precComparison, 1, true
	case token.LtEq:
		return ast.ExprBinaryLe, precComparison, 1, true
	case token.Gt:
		switch {
		case p.glued(token.Gt, token.Gt, token.Assign):
			return 0, 0, 0, false
		case p.glued(token.Gt, token.Gt):
			return ast.ExprBinaryShr, precShift, 2, true
		case p.glued(token.Gt, token.Assign):
			return ast.ExprBinaryGe, precComparison, 2, true
		}
		return ast.ExprBinaryGt, precComparison, 1, true
	case token.Pipe:
		return ast.ExprBinaryBitOr, precBitwiseOr, 1, true
	case token.Caret:
		return ast.ExprBinaryBitXor, precBitwiseXor, 1, true
	case token.Amp:
		return ast.ExprBinaryBitAnd, precBitwiseAnd, 1, true
	case token.Shl:
		return ast.ExprBinaryShl, precShift, 1, true
	case token.Plus:
		return ast.ExprBinaryAdd, precAdditive, 1, true
	case token.Minus:
		return ast.ExprBinarySub, precAdditive, 1, true
	case token.Star:
		return ast.ExprBinaryMul, precMultiplicative, 1, true
	case token.Slash:
		return ast.ExprBinaryDiv, precMultiplicative, 1, true
	case token.Percent:
		return ast.ExprBinaryRem, precMultiplicative, 1, true
	}
	return 0, 0, 0, false
}

// peekAssignOp: `=` и составные присваивания. compound=false у простого `=`.
func (p *Parser) peekAssignOp() (op ast.ExprBinaryOp, compound bool, n int, ok bool) {
	switch p.peek().Kind {
	case token.Assign:
		return 0, false, 1, true
	case token.PlusAssign:
		return ast.ExprBinaryAdd, true, 1, true
	case token.MinusAssign:
		return ast.ExprBinarySub, true, 1, true
	case token.StarAssign:
		return ast.ExprBinaryMul, true, 1, true
	case token.SlashAssign:
		return ast.ExprBinaryDiv, true, 1, true
	case token.PercentAssign:
		return ast.ExprBinaryRem, true, 1, true
	case token.CaretAssign:
		return ast.ExprBinaryBitXor, true, 1, true
	case token.AmpAssign:
		return ast.ExprBinaryBitAnd, true, 1, true
	case token.PipeAssign:
		return ast.ExprBinaryBitOr, true, 1, true
	case token.ShlAssign:
		return ast.ExprBinaryShl, true, 1, true
	case token.Gt:
		if p.glued(token.Gt, token.Gt, token.Assign) {
			return ast.ExprBinaryShr, true, 3, true
		}
	}
	return 0, false, 0, false
}
