package parser

import (
	"testing"

	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/source"
)

// mustParse разбирает текст и валит тест при синтаксической ошибке.
func mustParse(t *testing.T, text string) (*ast.Builder, *source.File) {
	t.Helper()
	b, file, err := ParseSource("lib.rs", []byte(text))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return b, file
}

// parseFails разбирает текст и возвращает собранные диагностики.
func parseFails(t *testing.T, text string) []diag.Diagnostic {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("lib.rs", []byte(text)))
	bag := diag.NewBag(10)
	res := ParseFile(file, Options{Reporter: diag.BagReporter{Bag: bag, File: file}})
	if res.OK {
		t.Fatalf("expected parse failure for %q", text)
	}
	return bag.Items()
}

// fnBody возвращает инструкции тела функции с данным именем.
func fnBody(t *testing.T, b *ast.Builder, name string) []ast.StmtID {
	t.Helper()
	for _, id := range b.File.Items {
		item := b.Items.Get(id)
		if item.Kind != ast.ItemFn || item.Name != name {
			continue
		}
		fn, _ := b.Items.Fn(id)
		block, ok := b.Exprs.Block(fn.Body)
		if !ok {
			t.Fatalf("fn %s has no body", name)
		}
		return block.Stmts
	}
	t.Fatalf("fn %s not found", name)
	return nil
}

// exprOf разбирает одно выражение, обернув его в функцию.
func exprOf(t *testing.T, src string) (*ast.Builder, *source.File, ast.ExprID) {
	t.Helper()
	b, file := mustParse(t, "fn f() { "+src+" }")
	stmts := fnBody(t, b, "f")
	if len(stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(stmts))
	}
	st, ok := b.Stmts.Expr(stmts[0])
	if !ok {
		t.Fatalf("statement is not an expression")
	}
	return b, file, st.X
}

func findItem(t *testing.T, b *ast.Builder, name string) (ast.ItemID, *ast.Item) {
	t.Helper()
	for _, id := range b.File.Items {
		if item := b.Items.Get(id); item.Name == name {
			return id, item
		}
	}
	t.Fatalf("item %s not found", name)
	return ast.NoItemID, nil
}
