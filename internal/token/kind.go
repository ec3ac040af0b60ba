package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token (raw identifiers included, without the r# prefix).
	Ident
	// Lifetime represents a lifetime or label such as 'info.
	Lifetime

	// IntLit represents an integer literal, suffix included.
	IntLit
	// FloatLit represents a float literal, suffix included.
	FloatLit
	// StringLit represents a string literal (plain, raw or C string).
	StringLit
	// ByteStringLit represents a b"..." or br"..." literal.
	ByteStringLit
	// CharLit represents a character literal.
	CharLit
	// ByteLit represents a b'x' literal.
	ByteLit

	KwAs        // as
	KwAsync     // async
	KwAwait     // await
	KwBreak     // break
	KwConst     // const
	KwContinue  // continue
	KwCrate     // crate
	KwDyn       // dyn
	KwElse      // else
	KwEnum      // enum
	KwExtern    // extern
	KwFalse     // false
	KwFn        // fn
	KwFor       // for
	KwIf        // if
	KwImpl      // impl
	KwIn        // in
	KwLet       // let
	KwLoop      // loop
	KwMatch     // match
	KwMod       // mod
	KwMove      // move
	KwMut       // mut
	KwPub       // pub
	KwRef       // ref
	KwReturn    // return
	KwSelfValue // self
	KwSelfType  // Self
	KwStatic    // static
	KwStruct    // struct
	KwSuper     // super
	KwTrait     // trait
	KwTrue      // true
	KwType      // type
	KwUnsafe    // unsafe
	KwUse       // use
	KwWhere     // where
	KwWhile     // while

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Caret         // ^
	Bang          // !
	Amp           // &
	Pipe          // |
	AndAnd        // &&
	OrOr          // ||
	Shl           // <<
	Shr           // >> (parser only)
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	CaretAssign   // ^=
	AmpAssign     // &=
	PipeAssign    // |=
	ShlAssign     // <<=
	ShrAssign     // >>= (parser only)
	Assign        // =
	EqEq          // ==
	BangEq        // !=
	Gt            // >
	Lt            // <
	GtEq          // >= (parser only)
	LtEq          // <=
	At            // @
	Underscore    // _
	Dot           // .
	DotDot        // ..
	DotDotDot     // ...
	DotDotEq      // ..=
	Comma         // ,
	Semicolon     // ;
	Colon         // :
	ColonColon    // ::
	Arrow         // ->
	FatArrow      // =>
	Pound         // #
	Dollar        // $
	Question      // ?
	Tilde         // ~
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
)

var kindNames = [...]string{
	Invalid:       "invalid",
	EOF:           "end of file",
	Ident:         "identifier",
	Lifetime:      "lifetime",
	IntLit:        "integer literal",
	FloatLit:      "float literal",
	StringLit:     "string literal",
	ByteStringLit: "byte string literal",
	CharLit:       "char literal",
	ByteLit:       "byte literal",
	KwAs:          "as",
	KwAsync:       "async",
	KwAwait:       "await",
	KwBreak:       "break",
	KwConst:       "const",
	KwContinue:    "continue",
	KwCrate:       "crate",
	KwDyn:         "dyn",
	KwElse:        "else",
	KwEnum:        "enum",
	KwExtern:      "extern",
	KwFalse:       "false",
	KwFn:          "fn",
	KwFor:         "for",
	KwIf:          "if",
	KwImpl:        "impl",
	KwIn:          "in",
	KwLet:         "let",
	KwLoop:        "loop",
	KwMatch:       "match",
	KwMod:         "mod",
	KwMove:        "move",
	KwMut:         "mut",
	KwPub:         "pub",
	KwRef:         "ref",
	KwReturn:      "return",
	KwSelfValue:   "self",
	KwSelfType:    "Self",
	KwStatic:      "static",
	KwStruct:      "struct",
	KwSuper:       "super",
	KwTrait:       "trait",
	KwTrue:        "true",
	KwType:        "type",
	KwUnsafe:      "unsafe",
	KwUse:         "use",
	KwWhere:       "where",
	KwWhile:       "while",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Caret:         "^",
	Bang:          "!",
	Amp:           "&",
	Pipe:          "|",
	AndAnd:        "&&",
	OrOr:          "||",
	Shl:           "<<",
	Shr:           ">>",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	CaretAssign:   "^=",
	AmpAssign:     "&=",
	PipeAssign:    "|=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
	Assign:        "=",
	EqEq:          "==",
	BangEq:        "!=",
	Gt:            ">",
	Lt:            "<",
	GtEq:          ">=",
	LtEq:          "<=",
	At:            "@",
	Underscore:    "_",
	Dot:           ".",
	DotDot:        "..",
	DotDotDot:     "...",
	DotDotEq:      "..=",
	Comma:         ",",
	Semicolon:     ";",
	Colon:         ":",
	ColonColon:    "::",
	Arrow:         "->",
	FatArrow:      "=>",
	Pound:         "#",
	Dollar:        "$",
	Question:      "?",
	Tilde:         "~",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
