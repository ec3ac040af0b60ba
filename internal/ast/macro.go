package ast

import (
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// MacroCall: вызов `path!(...)`. Тело не разбирается и хранится как дерево токенов.
type MacroCall struct {
	Path   Path
	Delim  token.Kind
	Tokens []token.Token
	Span   source.Span
}

// Name returns the last path segment: `msg!` -> "msg".
func (m *MacroCall) Name() string {
	if last := m.Path.Last(); last != nil {
		return last.Name
	}
	return ""
}
