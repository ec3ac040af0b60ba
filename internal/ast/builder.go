package ast

import (
	"anchorsec/internal/source"
)

type Hints struct{ Items, Stmts, Exprs, Types, Pats uint }

// Builder владеет всеми аренами одного разобранного файла.
type Builder struct {
	File  File
	Items *Items
	Stmts *Stmts
	Exprs *Exprs
	Types *Types
	Pats  *Pats
}

func NewBuilder(hints Hints) *Builder {
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	if hints.Pats == 0 {
		hints.Pats = 1 << 6
	}
	return &Builder{
		Items: NewItems(hints.Items),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
		Types: NewTypes(hints.Types),
		Pats:  NewPats(hints.Pats),
	}
}

// HintsFor sizes the arenas from the source length; roughly one expression per 8 bytes.
func HintsFor(size int) Hints {
	n := uint(max(size, 0))
	return Hints{
		Items: n/256 + 8,
		Stmts: n/32 + 16,
		Exprs: n/8 + 32,
		Types: n/32 + 16,
		Pats:  n/64 + 8,
	}
}

// File: корень: inner-атрибуты (#![...]) и items верхнего уровня.
type File struct {
	Span  source.Span
	Attrs []Attr
	Items []ItemID
}

func (b *Builder) PushItem(item ItemID) {
	b.File.Items = append(b.File.Items, item)
}
