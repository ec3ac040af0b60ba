package diag

import (
	"fmt"
)

// Code identifies syntax problems reported by the lexer and parser.
type Code uint16

const (
	UnknownCode Code = 0
	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadChar                  Code = 1005
	LexBadRawString             Code = 1006

	// Парсерные
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectSemicolon   Code = 2003
	SynExpectIdentifier  Code = 2004
	SynExpectType        Code = 2005
	SynExpectExpression  Code = 2006
	SynExpectPattern     Code = 2007
	SynExpectItem        Code = 2008
	SynBadAttribute      Code = 2009
	SynTooManyErrors     Code = 2010
)

var codeDescription = map[Code]string{
	UnknownCode:                 "unknown error",
	LexUnknownChar:              "unknown character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed number literal",
	LexBadChar:                  "malformed character literal",
	LexBadRawString:             "malformed raw string literal",
	SynUnexpectedToken:          "unexpected token",
	SynUnclosedDelimiter:        "unclosed delimiter",
	SynExpectSemicolon:          "expected ';'",
	SynExpectIdentifier:         "expected identifier",
	SynExpectType:               "expected type",
	SynExpectExpression:         "expected expression",
	SynExpectPattern:            "expected pattern",
	SynExpectItem:               "expected item",
	SynBadAttribute:             "malformed attribute",
	SynTooManyErrors:            "too many errors",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
