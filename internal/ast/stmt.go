package ast

import (
	"anchorsec/internal/source"
)

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
	StmtItem
	StmtEmpty // одиночная ';'
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
	Attrs   Attrs
}

type StmtLetData struct {
	Pat  PatID
	Type TypeID
	Init ExprID
	Else ExprID // let-else
}

// StmtExprData: выражение-инструкция; Semi=false у хвостового выражения блока
// и у блочных выражений без ';'.
type StmtExprData struct {
	X    ExprID
	Semi bool
}

type Stmts struct {
	Arena *Arena[Stmt]
	Lets  *Arena[StmtLetData]
	Exprs *Arena[StmtExprData]
	Items *Arena[ItemID]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
		Lets:  NewArena[StmtLetData](capHint / 2),
		Exprs: NewArena[StmtExprData](capHint / 2),
		Items: NewArena[ItemID](0),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, attrs Attrs, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Attrs: attrs, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewLet(span source.Span, attrs Attrs, data StmtLetData) StmtID {
	return s.new(StmtLet, span, attrs, s.Lets.Allocate(data))
}

func (s *Stmts) Let(id StmtID) (*StmtLetData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewExpr(span source.Span, attrs Attrs, x ExprID, semi bool) StmtID {
	return s.new(StmtExpr, span, attrs, s.Exprs.Allocate(StmtExprData{X: x, Semi: semi}))
}

func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewItem(span source.Span, item ItemID) StmtID {
	return s.new(StmtItem, span, nil, s.Items.Allocate(item))
}

func (s *Stmts) Item(id StmtID) (ItemID, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtItem {
		return NoItemID, false
	}
	return *s.Items.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewEmpty(span source.Span) StmtID {
	return s.new(StmtEmpty, span, nil, 0)
}
