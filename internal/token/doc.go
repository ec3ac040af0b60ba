// Package token defines lexical token kinds and trivia for Rust program source.
// Invariants:
//   - Token.Text is a slice of the original source (no copies), except for
//     non-ASCII identifiers which are NFC-normalized.
//   - Token.Span covers exactly the lexeme.
//   - '>' is always a single token. The parser glues adjacent '>' '>' / '>' '='
//     into shift and comparison operators so generic closers stay simple.
//   - Doc comments are leading Trivia (TriviaDocLine, TriviaDocBlock and the
//     inner variants); the parser lifts them into doc attributes.
package token
