package ast

import (
	"strings"

	"anchorsec/internal/source"
)

// Path: `a::b::<T>::c`. Сегменты self/Self/super/crate хранятся как текст.
type Path struct {
	Segments []PathSegment
	Global   bool // ведущий `::`
	Span     source.Span
}

type PathSegment struct {
	Name string
	Span source.Span
	Args *GenericArgs // nil если аргументов нет
}

// GenericArgKind: вид аргумента в `<...>`.
type GenericArgKind uint8

const (
	GenericArgType GenericArgKind = iota
	GenericArgLifetime
	GenericArgConst    // литерал или {expr}
	GenericArgBinding  // Item = T
	GenericArgBoundKey // Item: Trait
)

type GenericArg struct {
	Kind     GenericArgKind
	Type     TypeID
	Lifetime string
	Expr     ExprID
	Name     string
	Span     source.Span
}

// GenericArgs: `<A, 'a, N>` или круглые скобки Fn-трейтов `(A, B) -> C`.
type GenericArgs struct {
	Args          []GenericArg
	Parenthesized bool
	Inputs        []TypeID
	Output        TypeID
	Turbofish     bool
	Span          source.Span
}

// Types returns the type arguments in order, skipping lifetimes and bindings.
func (g *GenericArgs) Types() []TypeID {
	if g == nil {
		return nil
	}
	var out []TypeID
	for _, a := range g.Args {
		if a.Kind == GenericArgType {
			out = append(out, a.Type)
		}
	}
	return out
}

// String renders the path segments joined by "::" without generic arguments.
func (p Path) String() string {
	var b strings.Builder
	if p.Global {
		b.WriteString("::")
	}
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(s.Name)
	}
	return b.String()
}

// Last returns the final segment, or nil for an empty path.
func (p Path) Last() *PathSegment {
	if len(p.Segments) == 0 {
		return nil
	}
	return &p.Segments[len(p.Segments)-1]
}

// Ident returns the name of a single-segment path without generic arguments.
func (p Path) Ident() (string, bool) {
	if p.Global || len(p.Segments) != 1 || p.Segments[0].Args != nil {
		return "", false
	}
	return p.Segments[0].Name, true
}
