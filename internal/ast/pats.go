package ast

import (
	"anchorsec/internal/source"
)

type PatKind uint8

const (
	PatWild        PatKind = iota // _
	PatRest                       // ..
	PatIdent                      // ref mut x @ sub
	PatLit                        // 0, -1, "s", true
	PatRange                      // 0..=9
	PatTuple                      // (a, b)
	PatTupleStruct                // Some(x)
	PatStruct                     // Point { x, .. }
	PatPath                       // None, Enum::A
	PatRef                        // &x, &mut x
	PatSlice                      // [a, .., b]
	PatOr                         // A | B
	PatMacro
)

type Pat struct {
	Kind    PatKind
	Span    source.Span
	Payload PayloadID
}

type PatIdentData struct {
	Name     string
	NameSpan source.Span
	ByRef    bool
	Mut      bool
	Sub      PatID
}

// PatExprData hosts literal and range bounds; Hi is set for ranges only.
type PatExprData struct {
	Lo        ExprID
	Hi        ExprID
	Inclusive bool
}

type PatListData struct {
	Path  Path // пусто у кортежей, срезов и or-паттернов
	Elems []PatID
}

type PatField struct {
	Name      string
	Pat       PatID
	Shorthand bool
	Span      source.Span
}

type PatStructData struct {
	Path   Path
	Fields []PatField
	Rest   bool
}

type PatRefData struct {
	Mut  bool
	Elem PatID
}

type Pats struct {
	Arena   *Arena[Pat]
	Idents  *Arena[PatIdentData]
	Exprs   *Arena[PatExprData]
	Lists   *Arena[PatListData]
	Structs *Arena[PatStructData]
	Refs    *Arena[PatRefData]
	Macros  *Arena[MacroCall]
}

func NewPats(capHint uint) *Pats {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Pats{
		Arena:   NewArena[Pat](capHint),
		Idents:  NewArena[PatIdentData](capHint),
		Exprs:   NewArena[PatExprData](0),
		Lists:   NewArena[PatListData](capHint / 4),
		Structs: NewArena[PatStructData](0),
		Refs:    NewArena[PatRefData](0),
		Macros:  NewArena[MacroCall](0),
	}
}

func (p *Pats) new(kind PatKind, span source.Span, payload uint32) PatID {
	return PatID(p.Arena.Allocate(Pat{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (p *Pats) Get(id PatID) *Pat {
	return p.Arena.Get(uint32(id))
}

func (p *Pats) payload(id PatID, kinds ...PatKind) (uint32, bool) {
	pat := p.Get(id)
	if pat == nil {
		return 0, false
	}
	for _, k := range kinds {
		if pat.Kind == k {
			return uint32(pat.Payload), true
		}
	}
	return 0, false
}

// NewSimple creates `_` and `..`.
func (p *Pats) NewSimple(kind PatKind, span source.Span) PatID {
	return p.new(kind, span, 0)
}

func (p *Pats) NewIdent(span source.Span, data PatIdentData) PatID {
	return p.new(PatIdent, span, p.Idents.Allocate(data))
}

func (p *Pats) Ident(id PatID) (*PatIdentData, bool) {
	pl, ok := p.payload(id, PatIdent)
	if !ok {
		return nil, false
	}
	return p.Idents.Get(pl), true
}

func (p *Pats) NewLit(span source.Span, lit ExprID) PatID {
	return p.new(PatLit, span, p.Exprs.Allocate(PatExprData{Lo: lit}))
}

func (p *Pats) NewRange(span source.Span, lo, hi ExprID, inclusive bool) PatID {
	return p.new(PatRange, span, p.Exprs.Allocate(PatExprData{Lo: lo, Hi: hi, Inclusive: inclusive}))
}

func (p *Pats) Expr(id PatID) (*PatExprData, bool) {
	pl, ok := p.payload(id, PatLit, PatRange)
	if !ok {
		return nil, false
	}
	return p.Exprs.Get(pl), true
}

// NewList creates tuple, tuple-struct, slice, path and or patterns.
func (p *Pats) NewList(kind PatKind, span source.Span, path Path, elems []PatID) PatID {
	return p.new(kind, span, p.Lists.Allocate(PatListData{Path: path, Elems: elems}))
}

func (p *Pats) List(id PatID) (*PatListData, bool) {
	pl, ok := p.payload(id, PatTuple, PatTupleStruct, PatSlice, PatPath, PatOr)
	if !ok {
		return nil, false
	}
	return p.Lists.Get(pl), true
}

func (p *Pats) NewStruct(span source.Span, data PatStructData) PatID {
	return p.new(PatStruct, span, p.Structs.Allocate(data))
}

func (p *Pats) Struct(id PatID) (*PatStructData, bool) {
	pl, ok := p.payload(id, PatStruct)
	if !ok {
		return nil, false
	}
	return p.Structs.Get(pl), true
}

func (p *Pats) NewRef(span source.Span, mut bool, elem PatID) PatID {
	return p.new(PatRef, span, p.Refs.Allocate(PatRefData{Mut: mut, Elem: elem}))
}

func (p *Pats) Ref(id PatID) (*PatRefData, bool) {
	pl, ok := p.payload(id, PatRef)
	if !ok {
		return nil, false
	}
	return p.Refs.Get(pl), true
}

func (p *Pats) NewMacro(span source.Span, mac MacroCall) PatID {
	return p.new(PatMacro, span, p.Macros.Allocate(mac))
}

// Bindings collects every name bound by the pattern, in source order.
func (p *Pats) Bindings(id PatID) []string {
	var out []string
	var walk func(PatID)
	walk = func(id PatID) {
		pat := p.Get(id)
		if pat == nil {
			return
		}
		switch pat.Kind {
		case PatIdent:
			d := p.Idents.Get(uint32(pat.Payload))
			out = append(out, d.Name)
			walk(d.Sub)
		case PatTuple, PatTupleStruct, PatSlice, PatOr:
			for _, el := range p.Lists.Get(uint32(pat.Payload)).Elems {
				walk(el)
			}
		case PatStruct:
			for _, f := range p.Structs.Get(uint32(pat.Payload)).Fields {
				walk(f.Pat)
			}
		case PatRef:
			walk(p.Refs.Get(uint32(pat.Payload)).Elem)
		}
	}
	walk(id)
	return out
}
