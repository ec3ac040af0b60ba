package ast

import (
	"strings"

	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

type AttrStyle uint8

const (
	AttrOuter AttrStyle = iota // #[...]
	AttrInner                  // #![...]
)

// Attr описывает атрибут `#[path(args...)]`, `#[path = value]` или doc-комментарий.
// Аргументы не разбираются: Tokens хранит дерево токенов без внешних скобок.
type Attr struct {
	Style    AttrStyle
	Path     string // "account", "derive", "cfg_attr", "anchor_lang::prelude::x"
	PathSpan source.Span
	Delim    token.Kind // LParen/LBracket/LBrace, Assign для `= value`, Invalid если аргументов нет
	Tokens   []token.Token
	Span     source.Span
	// Doc is set for /// and /** */ comments lifted into attributes.
	Doc     string
	IsDoc   bool
	DocSpan source.Span
}

// Is reports whether the attribute path equals name.
func (a *Attr) Is(name string) bool { return a.Path == name }

// HasArgs reports whether the attribute carries a delimited argument list.
func (a *Attr) HasArgs() bool {
	return a.Delim == token.LParen || a.Delim == token.LBracket || a.Delim == token.LBrace
}

// Args splits Tokens on top-level commas. Empty groups (trailing commas) are dropped.
func (a *Attr) Args() [][]token.Token {
	return SplitTopLevel(a.Tokens, false)
}

// SplitTopLevel splits a token tree on commas outside of (), [] and {}.
// With angles set, <...> also nests, which is right for type lists and wrong
// for expressions containing comparisons.
func SplitTopLevel(toks []token.Token, angles bool) [][]token.Token {
	var (
		out   [][]token.Token
		depth int
		angle int
		start int
	)
	flush := func(end int) {
		if end > start {
			out = append(out, toks[start:end])
		}
		start = end + 1
	}
	for i, tok := range toks {
		switch {
		case tok.IsOpenDelim():
			depth++
		case tok.IsCloseDelim():
			depth--
		case angles && tok.Kind == token.Lt:
			angle++
		case angles && tok.Kind == token.Gt && angle > 0:
			angle--
		case angles && tok.Kind == token.Arrow:
			// Fn(u8) -> u8: '>' в '->' не закрывает угол
		case tok.Kind == token.Comma && depth == 0 && angle == 0:
			flush(i)
		}
	}
	flush(len(toks))
	return out
}

// Attrs: срез атрибутов с удобными запросами.
type Attrs []Attr

// Find returns the first attribute with the given path.
func (as Attrs) Find(name string) (*Attr, bool) {
	for i := range as {
		if as[i].Path == name {
			return &as[i], true
		}
	}
	return nil, false
}

// All returns every attribute with the given path, in source order.
func (as Attrs) All(name string) []*Attr {
	var out []*Attr
	for i := range as {
		if as[i].Path == name {
			out = append(out, &as[i])
		}
	}
	return out
}

// Derives collects the trait names listed in every #[derive(...)].
// Paths keep their last segment: anchor_lang::Accounts -> Accounts.
func (as Attrs) Derives() []string {
	var out []string
	for _, a := range as.All("derive") {
		for _, arg := range a.Args() {
			for j := len(arg) - 1; j >= 0; j-- {
				if arg[j].IsWordLike() {
					out = append(out, arg[j].Text)
					break
				}
			}
		}
	}
	return out
}

// HasDerive reports whether some #[derive] lists name.
func (as Attrs) HasDerive(name string) bool {
	for _, d := range as.Derives() {
		if d == name {
			return true
		}
	}
	return false
}

// DocLines returns the text of every doc attribute, one entry per comment line.
func (as Attrs) DocLines() []string {
	var out []string
	for _, a := range as {
		if !a.IsDoc {
			continue
		}
		out = append(out, strings.Split(a.Doc, "\n")...)
	}
	return out
}
