package anchor

import (
	"strings"

	"anchorsec/internal/ast"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// Constraint is one comma-separated entry of #[account(...)]:
// `mut`, `has_one = owner @ Err`, `seeds = [b"v", user.key().as_ref()]`.
type Constraint struct {
	Key    string        // mut, init_if_needed, token::mint
	Value  []token.Token // токены после `=`, пусто у флагов
	Tokens []token.Token // вся запись
	Span   source.Span
}

type Constraints []Constraint

// ParseConstraints splits every #[account(...)] on a field into typed entries.
func ParseConstraints(attrs ast.Attrs) Constraints {
	var out Constraints
	for _, a := range attrs.All("account") {
		for _, entry := range a.Args() {
			if c, ok := parseConstraint(entry); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func parseConstraint(toks []token.Token) (Constraint, bool) {
	if len(toks) == 0 {
		return Constraint{}, false
	}
	c := Constraint{Tokens: toks, Span: toks[0].Span.Cover(toks[len(toks)-1].Span)}
	var key strings.Builder
	i := 0
	for ; i < len(toks); i++ {
		t := toks[i]
		if t.IsWordLike() || t.Kind == token.ColonColon {
			key.WriteString(t.Text)
			continue
		}
		break
	}
	c.Key = key.String()
	if i < len(toks) && toks[i].Kind == token.Assign {
		c.Value = toks[i+1:]
	}
	return c, c.Key != ""
}

// Has reports whether some entry has exactly this key.
func (cs Constraints) Has(key string) bool {
	for _, c := range cs {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Mutable reports the mutable marker: `mut` or any `init*` entry.
func (cs Constraints) Mutable() bool {
	for _, c := range cs {
		if c.Key == "mut" || strings.HasPrefix(c.Key, "init") {
			return true
		}
	}
	return false
}

// Mentions reports whether name occurs as an identifier token anywhere in the constraints.
func (cs Constraints) Mentions(name string) bool {
	for _, c := range cs {
		for _, t := range c.Tokens {
			if t.Kind == token.Ident && t.Text == name {
				return true
			}
		}
	}
	return false
}
