package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// parseUseItem: use tree;
func (p *Parser) parseUseItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	p.expect(token.KwUse)
	tree := p.parseUseTree()
	p.expect(token.Semicolon)
	return p.arenas.Items.NewUse(p.spanFrom(start), h, tree)
}

// parseUseTree: [::] seg (:: seg)* [:: (* | {trees})] [as alias] | {trees} | *
func (p *Parser) parseUseTree() ast.UseTree {
	start := p.peek().Span
	tree := ast.UseTree{Kind: ast.UseSimple}
	if p.eat(token.ColonColon) {
		tree.Prefix.Global = true
	}

	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.Star:
			p.advance()
			tree.Kind = ast.UseGlob
			return p.finishUseTree(tree, start)
		case tok.Kind == token.LBrace:
			tree.Kind = ast.UseGroup
			p.parseDelimited(token.LBrace, func() {
				tree.Children = append(tree.Children, p.parseUseTree())
			})
			return p.finishUseTree(tree, start)
		case isPathSegment(tok.Kind):
			p.advance()
			tree.Prefix.Segments = append(tree.Prefix.Segments, ast.PathSegment{Name: tok.Text, Span: tok.Span})
		default:
			p.fail(diag.SynExpectIdentifier, p.getDiagnosticSpan(), "expected path segment in use tree")
		}
		if !p.eat(token.ColonColon) {
			break
		}
	}
	if p.eat(token.KwAs) {
		tree.Alias, _ = p.parseNameOrUnderscore()
	}
	return p.finishUseTree(tree, start)
}

func (p *Parser) finishUseTree(tree ast.UseTree, start source.Span) ast.UseTree {
	tree.Span = p.spanFrom(start)
	if len(tree.Prefix.Segments) > 0 {
		first := tree.Prefix.Segments[0].Span
		last := tree.Prefix.Segments[len(tree.Prefix.Segments)-1].Span
		tree.Prefix.Span = first.Cover(last)
	}
	return tree
}
