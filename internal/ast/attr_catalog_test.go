package ast

import (
	"testing"

	"anchorsec/internal/token"
)

func TestLookupAttr_Basic(t *testing.T) {
	spec, ok := LookupAttr("account")
	if !ok {
		t.Fatalf("expected to find account spec")
	}
	if !spec.Allows(AttrTargetField) || !spec.Allows(AttrTargetStruct) {
		t.Fatalf("account should allow struct and field targets")
	}
	if spec.Allows(AttrTargetFn) {
		t.Fatalf("account should not allow function targets")
	}
	if !spec.HasFlag(AttrFlagConstraints) {
		t.Fatalf("account arguments are constraints")
	}
	if _, ok := LookupAttr("ACCOUNT"); ok {
		t.Fatalf("attribute paths are case-sensitive")
	}
}

func TestAttrSpecsSortedUnique(t *testing.T) {
	specs := AttrSpecs()
	if len(specs) != len(attrRegistry) {
		t.Fatalf("expected %d specs, got %d", len(attrRegistry), len(specs))
	}
	for idx := 1; idx < len(specs); idx++ {
		if specs[idx-1].Name >= specs[idx].Name {
			t.Fatalf("specs not sorted: %q >= %q", specs[idx-1].Name, specs[idx].Name)
		}
	}
}

func word(text string) token.Token { return token.Token{Kind: token.Ident, Text: text} }
func punct(k token.Kind) token.Token {
	return token.Token{Kind: k}
}

func TestSplitTopLevel(t *testing.T) {
	// a: Vec<u8>, b: Map<K, V>, c(x, y)
	toks := []token.Token{
		word("a"), punct(token.Colon), word("Vec"), punct(token.Lt), word("u8"), punct(token.Gt), punct(token.Comma),
		word("b"), punct(token.Colon), word("Map"), punct(token.Lt), word("K"), punct(token.Comma), word("V"), punct(token.Gt), punct(token.Comma),
		word("c"), punct(token.LParen), word("x"), punct(token.Comma), word("y"), punct(token.RParen), punct(token.Comma),
	}

	tests := []struct {
		name   string
		angles bool
		want   []int
	}{
		{"angles nest", true, []int{6, 8, 6}},
		{"angles flat", false, []int{6, 5, 2, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTopLevel(toks, tt.angles)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d groups, got %d", len(tt.want), len(got))
			}
			for i, g := range got {
				if len(g) != tt.want[i] {
					t.Errorf("group %d: expected %d tokens, got %d", i, tt.want[i], len(g))
				}
			}
		})
	}
}

func TestAttrsQueries(t *testing.T) {
	as := Attrs{
		{Path: "derive", Delim: token.LParen, Tokens: []token.Token{
			word("Accounts"), punct(token.Comma), word("anchor_lang"), punct(token.ColonColon), word("InitSpace"),
		}},
		{Path: "doc", IsDoc: true, Doc: " CHECK: safe"},
		{Path: "account", Delim: token.LParen, Tokens: []token.Token{{Kind: token.KwMut, Text: "mut"}}},
	}

	if !as.HasDerive("Accounts") || !as.HasDerive("InitSpace") || as.HasDerive("Clone") {
		t.Errorf("unexpected derives: %v", as.Derives())
	}
	if a, ok := as.Find("account"); !ok || !a.HasArgs() || len(a.Args()) != 1 {
		t.Errorf("account attribute lookup failed")
	}
	if lines := as.DocLines(); len(lines) != 1 || lines[0] != " CHECK: safe" {
		t.Errorf("unexpected doc lines %q", lines)
	}
}
