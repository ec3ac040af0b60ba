package parser

import (
	"errors"
	"fmt"
	"slices"

	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/lexer"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// ErrSyntax is wrapped by ParseSource when the file does not parse.
var ErrSyntax = errors.New("syntax error")

// maxDepth ограничивает вложенность выражений, типов и паттернов.
const maxDepth = 256

type Options struct {
	Reporter diag.Reporter // может быть nil
}

type Result struct {
	AST  *ast.Builder
	File *source.File
	Bag  *diag.Bag
	OK   bool
}

// Parser: состояние парсера на один файл.
// Разбор строгий: первая же ошибка (лексическая или синтаксическая) прерывает файл.
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	rep      *diag.CountingReporter
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	noStruct bool        // запрет struct-литералов в заголовках if/while/match/for
	depth    int
	docsUsed int // индекс токена, чьи doc-trivia уже подняты в атрибуты
}

// bailout прерывает разбор после первой ошибки.
type bailout struct{}

// ParseFile: входная точка для разбора одного файла.
func ParseFile(file *source.File, opts Options) (res Result) {
	counter := &diag.CountingReporter{Next: opts.Reporter}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: counter})

	p := Parser{
		file:     file,
		toks:     toks,
		arenas:   ast.NewBuilder(ast.HintsFor(len(file.Content))),
		rep:      counter,
		docsUsed: -1,
	}
	res = Result{AST: p.arenas, File: file}
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		res.Bag = br.Bag
	}
	if counter.Errors > 0 {
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			res.OK = false
		}
	}()
	p.parseFile()
	res.OK = counter.Errors == 0
	return res
}

// ParseSource parses text in a throwaway FileSet. The returned error wraps ErrSyntax.
func ParseSource(path string, text []byte) (*ast.Builder, *source.File, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, text))
	bag := diag.NewBag(1)
	res := ParseFile(file, Options{Reporter: diag.BagReporter{Bag: bag, File: file}})
	if !res.OK {
		msg := "unknown"
		if items := bag.Items(); len(items) > 0 {
			d := items[0]
			msg = fmt.Sprintf("%d:%d: %s", d.Range.StartLine+1, d.Range.StartCol+1, d.Message)
		}
		return nil, file, fmt.Errorf("%w: %s: %s", ErrSyntax, path, msg)
	}
	return res.AST, file, nil
}

// parseFile: основной цикл верхнего уровня: inner-атрибуты, затем items до EOF.
func (p *Parser) parseFile() {
	start := p.peek().Span
	p.arenas.File.Attrs = p.parseInnerAttrs()
	for !p.at(token.EOF) {
		p.arenas.PushItem(p.parseItem())
	}
	p.arenas.File.Span = start.Cover(p.peek().Span)
}

// ===== поток токенов =====

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekN смотрит на n токенов вперёд; за концом потока всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.toks[p.pos].Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.toks[p.pos].Kind)
}

func (p *Parser) atIdent(text string) bool {
	tok := p.peek()
	return tok.Kind == token.Ident && tok.Text == text
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// glued reports whether the next n tokens touch each other: `>` `>` is `>>`.
func (p *Parser) glued(kinds ...token.Kind) bool {
	for i, k := range kinds {
		if p.peekN(i).Kind != k {
			return false
		}
		if i > 0 && !p.peekN(i - 1).Span.Adjacent(p.peekN(i).Span) {
			return false
		}
	}
	return true
}

// advanceN съедает n токенов и возвращает общий span.
func (p *Parser) advanceN(n int) source.Span {
	sp := p.peek().Span
	for range n {
		sp = sp.Cover(p.advance().Span)
	}
	return sp
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > maxDepth {
		p.fail(diag.SynTooManyErrors, p.peek().Span, "nesting is too deep")
	}
}

func (p *Parser) leave() { p.depth-- }

// withStruct runs fn with struct literals allowed or forbidden, restoring the flag after.
func withStruct[T any](p *Parser, allowed bool, fn func() T) T {
	saved := p.noStruct
	p.noStruct = !allowed
	defer func() { p.noStruct = saved }()
	return fn()
}
