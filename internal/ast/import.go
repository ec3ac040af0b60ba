package ast

import (
	"anchorsec/internal/source"
)

type UseTreeKind uint8

const (
	UseSimple UseTreeKind = iota // a::b [as c]
	UseGlob                      // a::*
	UseGroup                     // a::{b, c}
)

// UseTree: дерево `use`. Prefix хранит путь до `*`, `{` или конечного имени включительно.
type UseTree struct {
	Kind     UseTreeKind
	Prefix   Path
	Alias    string // "_" для `as _`
	Children []UseTree
	Span     source.Span
}

type UseItem struct {
	Tree UseTree
}

func (i *Items) NewUse(span source.Span, h ItemHeader, tree UseTree) ItemID {
	return i.new(ItemUse, span, h, i.Uses.Allocate(UseItem{Tree: tree}))
}

func (i *Items) Use(id ItemID) (*UseItem, bool) {
	p, ok := i.payload(id, ItemUse)
	if !ok {
		return nil, false
	}
	return i.Uses.Get(p), true
}

// Flatten expands groups into full paths: `a::{b, c::*}` -> ["a::b", "a::c::*"].
func (t UseTree) Flatten() []string {
	var out []string
	var walk func(prefix string, t UseTree)
	walk = func(prefix string, t UseTree) {
		p := t.Prefix.String()
		if prefix != "" && p != "" {
			p = prefix + "::" + p
		} else if p == "" {
			p = prefix
		}
		switch t.Kind {
		case UseGlob:
			if p == "" {
				out = append(out, "*")
			} else {
				out = append(out, p+"::*")
			}
		case UseGroup:
			for _, c := range t.Children {
				walk(p, c)
			}
		default:
			out = append(out, p)
		}
	}
	walk("", t)
	return out
}
