package parser

import (
	"testing"

	"anchorsec/internal/ast"
)

func fieldType(t *testing.T, typ string) (*ast.Builder, ast.TypeID) {
	t.Helper()
	b, _ := mustParse(t, "struct S { f: "+typ+" }")
	st, ok := b.Items.Struct(b.File.Items[0])
	if !ok || len(st.Fields) != 1 {
		t.Fatalf("expected struct with one field")
	}
	return b, st.Fields[0].Type
}

func TestTypeKinds(t *testing.T) {
	tests := []struct {
		typ  string
		kind ast.TypeKind
	}{
		{"Account<'info, Vault>", ast.TypePath},
		{"Box<Account<'info, Mint>>", ast.TypePath},
		{"&'a mut [u8]", ast.TypeRef},
		{"*const u8", ast.TypePtr},
		{"(u8, u64)", ast.TypeTuple},
		{"()", ast.TypeTuple},
		{"[u8; 32]", ast.TypeArray},
		{"[Pubkey]", ast.TypeSlice},
		{"fn(u8) -> bool", ast.TypeFn},
		{"Box<dyn Fn(&str) -> u8 + Send>", ast.TypePath},
		{"impl Iterator<Item = u8>", ast.TypeImplTrait},
		{"<T as Trait>::Out", ast.TypeQualified},
		{"(u8)", ast.TypeParen},
		{"!", ast.TypeNever},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			b, id := fieldType(t, tt.typ)
			if got := b.Types.Get(id).Kind; got != tt.kind {
				t.Errorf("kind = %d, want %d", got, tt.kind)
			}
		})
	}
}

func TestNestedGenericsSplitShr(t *testing.T) {
	b, id := fieldType(t, "Box<Account<'info, Mint>>")
	name, args, ok := b.Types.PathName(id)
	if !ok || name != "Box" || len(args) != 1 {
		t.Fatalf("outer = %s/%d", name, len(args))
	}
	inner := args[0]
	name, args, ok = b.Types.PathName(inner)
	if !ok || name != "Account" || len(args) != 1 {
		t.Fatalf("inner = %s/%d", name, len(args))
	}
	if lts := b.Types.Lifetimes(inner); len(lts) != 1 || lts[0] != "'info" {
		t.Errorf("lifetimes = %v", lts)
	}
}
